package handlers

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/config"
	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/models"
)

const otpTTL = 10 * time.Minute

// User exposes registration, verification and profile handlers
type User struct {
	DB            databases.UserDatabase
	ODB           databases.OTPDatabase
	Mailer        Mailer
	CloudinaryURL string
}

// RegisterHandler creates an unverified user and emails a verification code
func (u User) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing credentials"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := u.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err == nil && existing.Verified {
		config.ErrorStatus("Email already registered", http.StatusBadRequest, w, fmt.Errorf("duplicate email"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	if existing == nil {
		_, err = u.DB.InsertOne(ctx, models.User{
			ID:        primitive.NewObjectID(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  string(hash),
			Verified:  false,
			CreatedAt: time.Now(),
		})
		if err != nil {
			config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
			return
		}
	}

	if err := u.issueOTP(r, req.Email); err != nil {
		config.ErrorStatus("failed to send verification code", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "OTP sent to email"})
}

// issueOTP replaces any pending codes for the email and mails a fresh one
func (u User) issueOTP(r *http.Request, email string) error {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := u.ODB.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	_, err = u.ODB.InsertOne(ctx, models.OTP{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Code:         code,
		ExpiresAt:    time.Now().Add(otpTTL),
		Registration: true,
	})
	if err != nil {
		return err
	}

	go func(email, code string) {
		if err := u.Mailer.SendOTP(email, code, "registration"); err != nil {
			zap.S().Errorw("failed to send otp email", "email", email, "error", err)
		}
	}(email, code)

	return nil
}

// VerifyOTPHandler confirms the emailed code and marks the user verified
func (u User) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	otp, err := u.ODB.FindOne(ctx, bson.M{"email": req.Email, "code": req.Code})
	if err != nil {
		config.ErrorStatus("Invalid OTP", http.StatusBadRequest, w, err)
		return
	}
	if otp.Expired(time.Now()) {
		config.ErrorStatus("OTP expired", http.StatusBadRequest, w, fmt.Errorf("otp past expiry"))
		return
	}

	if err := u.DB.UpdateOne(ctx, bson.M{"email": req.Email}, bson.M{"$set": bson.M{"verified": true}}); err != nil {
		config.ErrorStatus("failed to verify user", http.StatusInternalServerError, w, err)
		return
	}
	if err := u.ODB.DeleteMany(ctx, bson.M{"email": req.Email}); err != nil {
		zap.S().Warnw("failed to clear used otps", "email", req.Email, "error", err)
	}

	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "Email verified successfully"})
}

// ProfilePictureHandler uploads the caller's photo to cloudinary and stores
// the returned location on the user
func (u User) ProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	email := api.UserEmail(r)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("file is required", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	cld, err := cloudinary.NewFromURL(u.CloudinaryURL)
	if err != nil {
		config.ErrorStatus("failed to initialize cloudinary", http.StatusInternalServerError, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   "profile_pictures",
		PublicID: strings.ReplaceAll(email, "@", "_"),
	})
	if err != nil {
		config.ErrorStatus("failed to upload profile picture", http.StatusInternalServerError, w, err)
		return
	}

	err = u.DB.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
		"profilePhotoURL": result.SecureURL,
		"profilePhotoID":  result.PublicID,
	}})
	if err != nil {
		config.ErrorStatus("failed to store profile picture", http.StatusInternalServerError, w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(models.ProfilePictureResponse{ProfilePhotoURL: result.SecureURL})
}

// generateOTP returns a random 6-digit code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

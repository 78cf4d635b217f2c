package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// TokenTTL is how long issued bearer tokens stay valid
const TokenTTL = 60 * time.Minute

// MiddlewareDB is a struct that holds the database and signing secret
type MiddlewareDB struct {
	DB        databases.UserDatabase
	JWTSecret string
}

var authenticator auth.Authenticator
var cache store.Cache

type contextKey string

const userContextKey contextKey = "authUser"

// Middleware adds bearer token authentication around accessing the routes
// and stores the authenticated user on the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "Could not validate credentials"})
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())
		next.ServeHTTP(w, r.WithContext(WithUserEmail(r.Context(), user.UserName())))
	})
}

// WithUserEmail returns a context carrying the authenticated caller's email
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userContextKey, email)
}

// UserEmail returns the authenticated caller's email from the request context
func UserEmail(r *http.Request) string {
	email, _ := r.Context().Value(userContextKey).(string)
	return email
}

// CreateToken exchanges basic auth credentials for a signed bearer token
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	email, _, ok := r.BasicAuth()
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "basic auth failed"})
		return
	}

	user, err := authenticator.Authenticate(r)
	if err != nil {
		zap.S().Errorw("login failed", "email", email)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "Incorrect email or password"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.UserName(),
		"iat": now.Unix(),
		"exp": now.Add(TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.JWTSecret))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "failed to sign token"})
		return
	}

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, auth.NewDefaultUser(user.UserName(), user.ID(), nil, nil), r)

	_ = json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareDB) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), TokenTTL)
	basicStrategy := basic.New(m.ValidateUser, cache)
	tokenStrategy := bearer.New(m.VerifyToken, cache)

	authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateUser validates a user's email and password against the database
func (m MiddlewareDB) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	user, err := m.DB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("no matching email found")
	}
	if !user.Verified {
		return nil, fmt.Errorf("email not verified")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	return auth.NewDefaultUser(email, user.ID.Hex(), nil, nil), nil
}

// VerifyToken authenticates bearer tokens that missed the cache by checking
// the JWT signature and expiry
func (m MiddlewareDB) VerifyToken(ctx context.Context, r *http.Request, tokenString string) (auth.Info, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	email, err := claims.GetSubject()
	if err != nil || email == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	return auth.NewDefaultUser(email, "", nil, nil), nil
}

// RevokeToken revokes a token
func RevokeToken(w http.ResponseWriter, r *http.Request) {
	reqToken := r.Header.Get("Authorization")
	splitToken := strings.Split(reqToken, "Bearer ")
	if len(splitToken) != 2 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "missing bearer token"})
		return
	}
	reqToken = splitToken[1]

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, reqToken, r)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "logged out"})
}

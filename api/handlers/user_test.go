package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ParthRana1023/ai-courtroom/api/handlers"
	"github.com/ParthRana1023/ai-courtroom/databases/mocks"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// recordingMailer captures OTP sends without hitting sendgrid
type recordingMailer struct {
	sent chan string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan string, 1)}
}

func (m *recordingMailer) SendOTP(toEmail, code, action string) error {
	select {
	case m.sent <- code:
	default:
	}
	return nil
}

func TestRegisterHandlerNewUser(t *testing.T) {
	udb := mocks.NewUserDatabase(t)
	odb := mocks.NewOTPDatabase(t)
	mailer := newRecordingMailer()

	udb.On("FindOne", mock.Anything, bson.M{"email": testEmail}).Return(nil, errors.New("mongo: no documents in result"))
	udb.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	odb.On("DeleteMany", mock.Anything, bson.M{"email": testEmail}).Return(nil)

	var issued models.OTP
	odb.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil).Run(func(args mock.Arguments) {
		issued = args.Get(1).(models.OTP)
	})

	h := handlers.User{DB: udb, ODB: odb, Mailer: mailer}
	req := authedRequest(t, "POST", "/api/v1/auth/register",
		models.RegisterRequest{FirstName: "Jane", LastName: "Doe", Email: "Jane@Example.com ", Password: "hunter2"}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RegisterHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp models.MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "OTP sent to email", resp.Message)

	// email is normalized before storage
	assert.Equal(t, testEmail, issued.Email)
	assert.Len(t, issued.Code, 6)
	assert.True(t, issued.Registration)

	select {
	case code := <-mailer.sent:
		assert.Equal(t, issued.Code, code)
	case <-time.After(time.Second):
		t.Fatal("otp email was never sent")
	}
}

func TestRegisterHandlerDuplicateVerifiedEmail(t *testing.T) {
	udb := mocks.NewUserDatabase(t)
	udb.On("FindOne", mock.Anything, bson.M{"email": testEmail}).Return(testUser(), nil)

	h := handlers.User{DB: udb, ODB: mocks.NewOTPDatabase(t), Mailer: newRecordingMailer()}
	req := authedRequest(t, "POST", "/api/v1/auth/register",
		models.RegisterRequest{Email: testEmail, Password: "hunter2"}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email already registered", decodeDetail(t, rr))
}

func TestRegisterHandlerMissingCredentials(t *testing.T) {
	h := handlers.User{}
	req := authedRequest(t, "POST", "/api/v1/auth/register", models.RegisterRequest{Email: testEmail}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "email and password are required", decodeDetail(t, rr))
}

func TestVerifyOTPHandlerSuccess(t *testing.T) {
	udb := mocks.NewUserDatabase(t)
	odb := mocks.NewOTPDatabase(t)

	odb.On("FindOne", mock.Anything, bson.M{"email": testEmail, "code": "123456"}).Return(&models.OTP{
		ID:        primitive.NewObjectID(),
		Email:     testEmail,
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil)
	udb.On("UpdateOne", mock.Anything, bson.M{"email": testEmail}, bson.M{"$set": bson.M{"verified": true}}).Return(nil)
	odb.On("DeleteMany", mock.Anything, bson.M{"email": testEmail}).Return(nil)

	h := handlers.User{DB: udb, ODB: odb}
	req := authedRequest(t, "POST", "/api/v1/auth/verify-otp",
		models.VerifyOTPRequest{Email: testEmail, Code: "123456"}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.VerifyOTPHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Email verified successfully", resp.Message)
}

func TestVerifyOTPHandlerInvalidCode(t *testing.T) {
	odb := mocks.NewOTPDatabase(t)
	odb.On("FindOne", mock.Anything, bson.M{"email": testEmail, "code": "999999"}).Return(nil, errors.New("mongo: no documents in result"))

	h := handlers.User{ODB: odb}
	req := authedRequest(t, "POST", "/api/v1/auth/verify-otp",
		models.VerifyOTPRequest{Email: testEmail, Code: "999999"}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.VerifyOTPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid OTP", decodeDetail(t, rr))
}

func TestVerifyOTPHandlerExpiredCode(t *testing.T) {
	odb := mocks.NewOTPDatabase(t)
	odb.On("FindOne", mock.Anything, bson.M{"email": testEmail, "code": "123456"}).Return(&models.OTP{
		ID:        primitive.NewObjectID(),
		Email:     testEmail,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	h := handlers.User{ODB: odb}
	req := authedRequest(t, "POST", "/api/v1/auth/verify-otp",
		models.VerifyOTPRequest{Email: testEmail, Code: "123456"}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.VerifyOTPHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "OTP expired", decodeDetail(t, rr))
}

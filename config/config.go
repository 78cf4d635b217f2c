package config

import (
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// Config holds the project config values
type Config struct {
	Url            string
	DatabaseName   string
	BaseUrl        string
	Port           string
	JWTSecret      string
	GeminiAPIKey   string
	SendgridAPIKey string
	CloudinaryURL  string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		Url:            os.Getenv("DB_URI"),
		DatabaseName:   os.Getenv("DB_NAME"),
		BaseUrl:        os.Getenv("BASE_URL"),
		Port:           os.Getenv("PORT"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// given message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: message})
}

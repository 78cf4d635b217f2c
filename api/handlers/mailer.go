package handlers

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/ParthRana1023/ai-courtroom/templates/html"
)

// Mailer sends verification codes to users
type Mailer interface {
	SendOTP(toEmail, code, action string) error
}

type sendgridMailer struct {
	apiKey string
}

// NewSendgridMailer returns a Mailer backed by sendgrid
func NewSendgridMailer(apiKey string) Mailer {
	return &sendgridMailer{apiKey: apiKey}
}

func (s *sendgridMailer) SendOTP(toEmail, code, action string) error {
	if s.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set, cannot send email")
	}

	subject, htmlBody := templates.RenderOTPEmail(code, action)
	from := mail.NewEmail("AI Courtroom", "no-reply@ai-courtroom.app")
	to := mail.NewEmail("", toEmail)
	plainText := fmt.Sprintf("Your One-Time Password (OTP) for %s is: %s. This OTP will expire in 10 minutes.", action, code)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		zap.S().Infow("otp email sent", "email", toEmail, "statusCode", response.StatusCode)
		return nil
	}
	zap.S().Warnw("otp email sent with non-2xx status", "email", toEmail, "statusCode", response.StatusCode, "body", response.Body)
	return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/platform/sendgrid"
)

// OTPMailer delivers a one-time code to the account's email address.
type OTPMailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

type sendGridOTPMailer struct {
	log    *logger.Logger
	client sendgrid.Client
}

func NewSendGridOTPMailer(log *logger.Logger, client sendgrid.Client) OTPMailer {
	return &sendGridOTPMailer{log: log.With("service", "OTPMailer"), client: client}
}

func (m *sendGridOTPMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	res, err := m.client.Send(ctx, sendgrid.Message{
		To:       email,
		Subject:  "Your verification code",
		Text:     fmt.Sprintf("Your verification code is %s. It expires in %s.", code, ttl.Round(time.Minute)),
		Category: "otp",
	})
	if err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	m.log.Info("OTP email sent", "message_id", res.MessageID)
	return nil
}

// logOTPMailer is used when no mail provider is configured. The code is only
// visible at debug level.
type logOTPMailer struct {
	log *logger.Logger
}

func NewLogOTPMailer(log *logger.Logger) OTPMailer {
	return &logOTPMailer{log: log.With("service", "OTPMailer")}
}

func (m *logOTPMailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	m.log.Debug("OTP issued without mail provider", "email", email, "code", code, "ttl", ttl.String())
	return nil
}

package notify

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// fcmSender delivers notifications through Firebase Cloud Messaging to the
// registered device token.
type fcmSender struct {
	client *messaging.Client
	token  string
	logger zerolog.Logger
}

// NewFCMSender creates an FCM sender from a credentials file path.
func NewFCMSender(ctx context.Context, credentialsFile, deviceToken string, logger zerolog.Logger) (Sender, error) {
	return newFCMSender(ctx, option.WithCredentialsFile(credentialsFile), deviceToken, logger)
}

// NewFCMSenderFromBase64 creates an FCM sender from base64-encoded credentials
// JSON, for deployments where uploading a file is awkward.
func NewFCMSenderFromBase64(ctx context.Context, credentialsBase64, deviceToken string, logger zerolog.Logger) (Sender, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 credentials: %w", err)
	}
	return newFCMSender(ctx, option.WithCredentialsJSON(credentialsJSON), deviceToken, logger)
}

func newFCMSender(ctx context.Context, opt option.ClientOption, deviceToken string, logger zerolog.Logger) (Sender, error) {
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &fcmSender{
		client: client,
		token:  deviceToken,
		logger: logger.With().Str("component", "fcm-sender").Logger(),
	}, nil
}

// Send delivers one push message.
func (s *fcmSender) Send(ctx context.Context, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: s.token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	s.logger.Debug().Str("response", response).Msg("FCM message sent")
	return nil
}

// logSender is the fallback Sender when push delivery is not configured.
// Alerts are only logged; items are still saved and tracked.
type logSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a Sender that writes alerts to the log.
func NewLogSender(logger zerolog.Logger) Sender {
	return &logSender{logger: logger.With().Str("component", "log-sender").Logger()}
}

// Send logs the notification.
func (s *logSender) Send(ctx context.Context, title, body string, data map[string]string) error {
	s.logger.Info().
		Str("title", title).
		Str("body", body).
		Interface("data", data).
		Msg("notification")
	return nil
}

package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates an FCM service from an initialized Firebase app.
func NewFCMService(ctx context.Context, app *firebase.App) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMService{client: client}, nil
}

// SendBinFullAlert sends a bin-full push notification to a device token.
func (s *FCMService) SendBinFullAlert(ctx context.Context, token, binID string, fillPct float64) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("Bin %s is almost full!", binID),
			Body:  fmt.Sprintf("Bin %s is at %.0f%% fill. Please take action.", binID, fillPct),
		},
		Data: map[string]string{
			"type":     "bin_full",
			"bin_id":   binID,
			"fill_pct": fmt.Sprintf("%.0f", fillPct),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}
	return nil
}

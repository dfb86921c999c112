// Package fcm pushes scan alerts to registered devices via Firebase Cloud
// Messaging. The client degrades to disabled when no credentials are
// configured.
package fcm

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"scanner-backend/internal/logger"
)

type Client struct {
	client *messaging.Client
}

// NewClient initializes the messaging client from a service account file.
// An empty credsPath falls back to FIREBASE_CREDENTIALS_PATH; with neither
// set the client is disabled rather than failing startup.
func NewClient(ctx context.Context, credsPath string) (*Client, error) {
	if credsPath == "" {
		credsPath = os.Getenv("FIREBASE_CREDENTIALS_PATH")
	}
	if credsPath == "" {
		logger.Warn("no firebase credentials configured, scan alerts disabled")
		return &Client{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credsPath))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	logger.Info("firebase cloud messaging initialized")
	return &Client{client: client}, nil
}

// Disabled returns a client that can never send. Used when initialization
// fails and the rest of the app should keep running.
func Disabled() *Client {
	return &Client{}
}

// IsEnabled reports whether pushes can be sent.
func (c *Client) IsEnabled() bool {
	return c.client != nil
}

// SendMulticast pushes one notification to every token.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if c.client == nil {
		return fmt.Errorf("fcm client not initialized")
	}
	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "scanner_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}

	resp, err := c.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("send multicast: %w", err)
	}
	logger.Info("sent %d alert messages (%d failures)", resp.SuccessCount, resp.FailureCount)
	return nil
}

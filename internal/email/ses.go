// Package email delivers booking notifications through AWS SES.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Sender delivers one plain-text email.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// SESClient wraps AWS SESv2 sending.
type SESClient struct {
	client *sesv2.Client
	sender string
	logger *slog.Logger
}

// NewSESClient initializes an SES client from the default AWS credential
// chain (env vars, shared config, instance role).
func NewSESClient(ctx context.Context, sender string, logger *slog.Logger) (*SESClient, error) {
	if sender == "" {
		return nil, fmt.Errorf("ses sender is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESClient{
		client: sesv2.NewFromConfig(awsCfg),
		sender: sender,
		logger: logger,
	}, nil
}

// Send delivers a simple email to a single recipient.
func (c *SESClient) Send(ctx context.Context, recipient, subject, body string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("ses client is not initialized")
	}
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	input := &sesv2.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
		FromEmailAddress: aws.String(c.sender),
	}

	if _, err := c.client.SendEmail(ctx, input); err != nil {
		c.logger.Error("ses send failed", "recipient", recipient, "subject", subject, "error", err)
		return fmt.Errorf("send ses email: %w", err)
	}

	return nil
}

// NoopSender logs instead of sending. Used when EMAIL_ENABLED is false.
type NoopSender struct {
	Logger *slog.Logger
}

// Send logs the would-be delivery and succeeds.
func (s *NoopSender) Send(_ context.Context, recipient, subject, _ string) error {
	s.Logger.Info("email suppressed", "recipient", recipient, "subject", subject)
	return nil
}

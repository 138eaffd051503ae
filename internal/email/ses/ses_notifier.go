package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"nefera/internal/config"
	"nefera/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	toAddress   string
}

// NewSESNotifier creates a new SES-backed Notifier. Decision notifications
// go to the configured recruiting inbox.
func NewSESNotifier(cfg *config.EmailConfig) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(awsCfg)
	return &sesNotifier{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		toAddress:   cfg.ToAddress,
	}, nil
}

func (s *sesNotifier) SendInterviewInvitation(ctx context.Context, candidateName string) error {
	subject := fmt.Sprintf("Interview invitation: %s", candidateName)
	htmlBody := buildInvitationHTML(candidateName)
	textBody := fmt.Sprintf("Candidate %s cleared automated screening.\n\nPlease schedule an interview.\n\nNefera AI", candidateName)
	return s.send(ctx, subject, htmlBody, textBody)
}

func (s *sesNotifier) SendRejectionNotice(ctx context.Context, candidateName string) error {
	subject := fmt.Sprintf("Rejection notice: %s", candidateName)
	htmlBody := buildRejectionHTML(candidateName)
	textBody := fmt.Sprintf("Candidate %s did not meet the screening bar.\n\nA rejection notice is ready to send.\n\nNefera AI", candidateName)
	return s.send(ctx, subject, htmlBody, textBody)
}

func (s *sesNotifier) send(ctx context.Context, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildInvitationHTML(candidateName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Interview invitation</h2>
  <p>Candidate <strong>%s</strong> cleared automated screening.</p>
  <p>Please schedule an interview with the candidate.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Nefera - AI Hiring Evaluation</p>
</body>
</html>`, candidateName)
}

func buildRejectionHTML(candidateName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Rejection notice</h2>
  <p>Candidate <strong>%s</strong> did not meet the screening bar.</p>
  <p>A rejection notice is ready to send.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Nefera - AI Hiring Evaluation</p>
</body>
</html>`, candidateName)
}

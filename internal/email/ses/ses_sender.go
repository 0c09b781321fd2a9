package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"faktura/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendInvite(ctx context.Context, invite port.InviteEmail) error {
	subject := fmt.Sprintf("You have been invited to %s on Faktura", invite.TenantName)
	htmlBody := buildInviteHTML(invite)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nYou have been invited to join %s on Faktura.\n\nSign in with your email address and this temporary password:\n%s\n\nPlease change your password after your first login.\n\nFaktura Team",
		invite.FullName, invite.TenantName, invite.TempPassword,
	)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{invite.To},
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

func buildInviteHTML(invite port.InviteEmail) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">You have been invited</h2>
  <p>Hi %s,</p>
  <p>You have been invited to join <strong>%s</strong> on Faktura.</p>
  <p>Sign in with your email address and this temporary password:</p>
  <p style="text-align: center; margin: 30px 0;">
    <code style="background-color: #f4f4f5; padding: 12px 24px; border-radius: 6px; display: inline-block; font-size: 16px;">%s</code>
  </p>
  <p style="color: #999; font-size: 12px;">Please change your password after your first login.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Faktura - Electronic Invoicing</p>
</body>
</html>`, invite.FullName, invite.TenantName, invite.TempPassword)
}

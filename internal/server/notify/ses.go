// Package notify sends transactional email through Amazon SES: one-time
// verification codes and reservation attempt results.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/jaehyuklim/lunchpilot/internal/logging"
	"github.com/jaehyuklim/lunchpilot/internal/server/models"
)

// sesAPI is the slice of the SES v2 client the notifier uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Notifier struct {
	client sesAPI
	sender string
	logger logging.Logger
}

// New builds a Notifier using the default AWS credential chain for the
// given region.
func New(ctx context.Context, region string, sender string, logger logging.Logger) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Notifier{client: sesv2.NewFromConfig(cfg), sender: sender, logger: logger}, nil
}

// NewWithClient builds a Notifier around an existing SES client.
func NewWithClient(client sesAPI, sender string, logger logging.Logger) *Notifier {
	return &Notifier{client: client, sender: sender, logger: logger}
}

// SendVerificationCode emails a one-time sign-in code.
func (n *Notifier) SendVerificationCode(ctx context.Context, email string, code string) error {
	subject := "LunchPilot verification code"
	body := fmt.Sprintf("Your verification code is %s.\n\nThe code expires in 10 minutes. If you did not request it, ignore this message.", code)
	return n.send(ctx, email, subject, body)
}

// SendAttemptResult emails the outcome of a reservation attempt.
func (n *Notifier) SendAttemptResult(ctx context.Context, email string, attempt models.ReservationAttempt) error {
	prefix := "⚠️"
	if attempt.Success {
		prefix = "✅"
	}
	date := attempt.TargetDate.Format("2006-01-02")
	subject := fmt.Sprintf("%s Lunch reservation result for %s", prefix, date)

	lines := []string{
		fmt.Sprintf("Target date: %s", date),
		fmt.Sprintf("Success: %t", attempt.Success),
		fmt.Sprintf("Message: %s", attempt.Message),
	}
	if len(attempt.AttemptedMenus) > 0 {
		lines = append(lines, fmt.Sprintf("Attempted menus: %s", strings.Join(attempt.AttemptedMenus, ", ")))
	}
	return n.send(ctx, email, subject, strings.Join(lines, "\n"))
}

func (n *Notifier) send(ctx context.Context, to string, subject string, body string) error {
	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.sender),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		n.logger.Error(ctx, "ses send failed", "to", to, "error", err.Error())
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// SESAPI is the slice of the SES client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier emails the applicant through Amazon SES.
type SESNotifier struct {
	client SESAPI
	from   string
}

func NewSESNotifier(client SESAPI, from string) *SESNotifier {
	return &SESNotifier{client: client, from: from}
}

// NewSESNotifierFromRegion builds an SES client from the default AWS
// credential chain.
func NewSESNotifierFromRegion(ctx context.Context, region, from string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESNotifier(ses.NewFromConfig(cfg), from), nil
}

// Notify skips notifications without a recipient address.
func (n *SESNotifier) Notify(ctx context.Context, note core.Notification) error {
	if note.Email == "" {
		return nil
	}

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{note.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(note.Title)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(emailBody(note))},
			},
		},
		Source: aws.String(n.from),
	})
	if err != nil {
		return fmt.Errorf("ses.sendEmail %s: %w", note.Type, err)
	}
	return nil
}

func emailBody(note core.Notification) string {
	var b strings.Builder
	b.WriteString(note.Message)

	if ref, ok := note.Data["application_id"].(string); ok && ref != "" {
		b.WriteString("\n\nApplication reference: ")
		b.WriteString(ref)
	}
	if ref, ok := note.Data["offer_id"].(string); ok && ref != "" {
		b.WriteString("\nOffer reference: ")
		b.WriteString(ref)
	}
	return b.String()
}

package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type mockSES struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         []*ses.SendEmailInput
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type recordingNotifier struct {
	got []core.Notification
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, n core.Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func offerNote() core.Notification {
	return core.Notification{
		Type:    core.NotificationOfferAvailable,
		UserID:  "user-1",
		Email:   "ada@example.com",
		Title:   "Your offer is ready",
		Message: "We can offer £20000.",
		Data:    map[string]any{"application_id": "app-1", "offer_id": "off-1"},
	}
}

func TestSESNotifier_SendsEmail(t *testing.T) {
	client := &mockSES{}
	n := NewSESNotifier(client, "loans@example.com")

	require.NoError(t, n.Notify(context.Background(), offerNote()))
	require.Len(t, client.calls, 1)

	in := client.calls[0]
	assert.Equal(t, []string{"ada@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "loans@example.com", aws.ToString(in.Source))
	assert.Equal(t, "Your offer is ready", aws.ToString(in.Message.Subject.Data))

	body := aws.ToString(in.Message.Body.Text.Data)
	assert.Contains(t, body, "We can offer £20000.")
	assert.Contains(t, body, "Application reference: app-1")
	assert.Contains(t, body, "Offer reference: off-1")
}

func TestSESNotifier_SkipsWithoutEmail(t *testing.T) {
	client := &mockSES{}
	n := NewSESNotifier(client, "loans@example.com")

	note := offerNote()
	note.Email = ""
	require.NoError(t, n.Notify(context.Background(), note))
	assert.Empty(t, client.calls)
}

func TestSESNotifier_WrapsError(t *testing.T) {
	sendErr := errors.New("throttled")
	client := &mockSES{
		SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, sendErr
		},
	}
	n := NewSESNotifier(client, "loans@example.com")

	err := n.Notify(context.Background(), offerNote())
	assert.ErrorIs(t, err, sendErr)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), offerNote()))
	assert.Contains(t, buf.String(), "offer_available")

	err := n.Notify(context.Background(), core.Notification{Type: "sms_blast"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("down")}
	ok := &recordingNotifier{}

	err := Multi{failing, ok}.Notify(context.Background(), offerNote())
	assert.Error(t, err)
	assert.Len(t, failing.got, 1)
	assert.Len(t, ok.got, 1)
}

func TestBestEffort_SwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	failing := &recordingNotifier{err: errors.New("down")}
	n := NewBestEffort(failing, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NoError(t, n.Notify(context.Background(), offerNote()))
	assert.Contains(t, buf.String(), "notification delivery failed")
}

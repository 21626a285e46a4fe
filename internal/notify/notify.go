// Package notify delivers applicant notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("component", "notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, note core.Notification) error {
	if !note.Type.Valid() {
		return fmt.Errorf("%w: unknown notification type %q", core.ErrValidation, note.Type)
	}
	n.log.InfoContext(ctx, "notification",
		"type", note.Type,
		"user_id", note.UserID,
		"title", note.Title,
		"data", note.Data,
	)
	return nil
}

// Multi fans a notification out to every notifier. One failing channel does
// not stop the others; their errors are joined.
type Multi []core.Notifier

func (m Multi) Notify(ctx context.Context, note core.Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort logs delivery failures and always reports success, so a broken
// channel never fails the operation that produced the notification.
type BestEffort struct {
	next core.Notifier
	log  *slog.Logger
}

func NewBestEffort(next core.Notifier, log *slog.Logger) *BestEffort {
	return &BestEffort{next: next, log: log}
}

func (b *BestEffort) Notify(ctx context.Context, note core.Notification) error {
	if err := b.next.Notify(ctx, note); err != nil {
		b.log.WarnContext(ctx, "notification delivery failed",
			"type", note.Type,
			"user_id", note.UserID,
			"err", err,
		)
	}
	return nil
}

package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Notifier delivers a report message, optionally with a chart image.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, text, imagePath string) error
}

// NotifyError reports a failed delivery.
type NotifyError struct {
	Notifier string
	Err      error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify via %s: %v", e.Notifier, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// PartialError reports a fan-out where some channels received the message
// and others failed.
type PartialError struct {
	Delivered []string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("delivered via %s only: %v", strings.Join(e.Delivered, ", "), e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, text, imagePath string) error {
	log.Infof("notify (image=%q):\n%s", imagePath, text)
	return nil
}

// Multi fans a message out to several notifiers. Every notifier is tried.
// The joined error lists each one that failed, wrapped in a *PartialError
// when at least one succeeded.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, text, imagePath string) error {
	var (
		errs []error
		sent []string
	)
	for _, n := range m {
		if err := n.Notify(ctx, text, imagePath); err != nil {
			log.WithError(err).WithField("notifier", n.Name()).Error("delivery failed")
			errs = append(errs, err)
			continue
		}
		sent = append(sent, n.Name())
	}
	err := errors.Join(errs...)
	if err != nil && len(sent) > 0 {
		return &PartialError{Delivered: sent, Err: err}
	}
	return err
}

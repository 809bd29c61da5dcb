// Package mailer turns validated contact submissions into transactional
// emails and hands them to the email provider.
package mailer

//go:generate mockgen -destination=mock/notifier.go -package=mock . Notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauravsaxena1997/punit-portfolio/internal/contact"
)

const (
	MessageSent        = "Email sent successfully!"
	MessageSendFailed  = "Failed to send email. Please try again."
	MessageSendError   = "An error occurred while sending the email. Please try again."
	messageUnavailable = "Email service is not configured. Please contact directly at "
)

// Notifier delivers one submission. Implementations always return a Result
// whose Message can be shown to the visitor; the error carries the detail.
type Notifier interface {
	Send(ctx context.Context, submission contact.Submission) (Result, error)
}

// Result is the outcome of a single dispatch attempt.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

var (
	ErrNotConfigured    = errors.New("email provider is not configured")
	ErrProviderDelivery = errors.New("email provider delivery failed")
	ErrProviderTimeout  = errors.New("email provider timed out")
)

// Kind classifies a DeliveryError.
type Kind int

const (
	KindDelivery Kind = iota
	KindTimeout
)

// DeliveryError describes a failed provider call.
type DeliveryError struct {
	Kind            Kind
	Status          int
	ProviderMessage string
	Err             error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.Kind == KindTimeout:
		return fmt.Sprintf("email provider timed out: %v", e.Err)
	case e.Status != 0:
		return fmt.Sprintf("email provider returned status %d: %s", e.Status, e.ProviderMessage)
	default:
		return fmt.Sprintf("email provider request failed: %v", e.Err)
	}
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func (e *DeliveryError) Is(target error) bool {
	if e.Kind == KindTimeout {
		return target == ErrProviderTimeout
	}
	return target == ErrProviderDelivery
}

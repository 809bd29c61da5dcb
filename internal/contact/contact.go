// Package contact defines a contact form submission and the rules it must
// pass before it is handed to the mailer.
package contact

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const (
	NameMinLength    = 2
	NameMaxLength    = 100
	MessageMinLength = 10
	MessageMaxLength = 5000
)

// Submission is the name, email and message a visitor sends through the
// contact form. It is never stored.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Code identifies which rule rejected a submission.
type Code string

const (
	CodeRequired      Code = "required"
	CodeInvalidEmail  Code = "invalid_email"
	CodeNameLength    Code = "name_length"
	CodeMessageLength Code = "message_length"
)

// ErrInvalid matches every *ValidationError.
var ErrInvalid = errors.New("invalid submission")

// ValidationError reports the first rule a submission failed.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate applies the presence, email, name length and message length rules
// in that order and stops at the first failure. Lengths count characters, not
// bytes.
func Validate(s Submission) (Submission, error) {
	if s.Name == "" || s.Email == "" || s.Message == "" {
		return Submission{}, &ValidationError{Code: CodeRequired, Message: "All fields are required."}
	}
	if !emailPattern.MatchString(s.Email) {
		return Submission{}, &ValidationError{Code: CodeInvalidEmail, Message: "Please provide a valid email address."}
	}
	if n := utf8.RuneCountInString(s.Name); n < NameMinLength || n > NameMaxLength {
		return Submission{}, &ValidationError{Code: CodeNameLength, Message: "Name must be between 2 and 100 characters."}
	}
	if n := utf8.RuneCountInString(s.Message); n < MessageMinLength || n > MessageMaxLength {
		return Submission{}, &ValidationError{Code: CodeMessageLength, Message: "Message must be between 10 and 5000 characters."}
	}
	return s, nil
}

package contact_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gauravsaxena1997/punit-portfolio/internal/contact"

	"github.com/stretchr/testify/require"
)

func valid() contact.Submission {
	return contact.Submission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "Hello, I would like to talk about a dashboard.",
	}
}

func requireCode(t *testing.T, err error, code contact.Code) {
	t.Helper()
	var validationErr *contact.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
	require.Equal(t, code, validationErr.Code)
	require.ErrorIs(t, err, contact.ErrInvalid)
}

func TestValidate_Valid(t *testing.T) {
	got, err := contact.Validate(valid())
	require.NoError(t, err)
	require.Equal(t, valid(), got)
}

func TestValidate_Required(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contact.Submission)
	}{
		{name: "name", mutate: func(s *contact.Submission) { s.Name = "" }},
		{name: "email", mutate: func(s *contact.Submission) { s.Email = "" }},
		{name: "message", mutate: func(s *contact.Submission) { s.Message = "" }},
		{name: "all", mutate: func(s *contact.Submission) { *s = contact.Submission{} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			_, err := contact.Validate(s)
			requireCode(t, err, contact.CodeRequired)
			require.Equal(t, "All fields are required.", err.Error())
		})
	}
}

func TestValidate_Email(t *testing.T) {
	invalid := []string{"not-an-email", "a@b", "@b.com", "a b@c.com", "a@b c.com", "a@@b.com", "a@b."}
	for _, email := range invalid {
		t.Run(email, func(t *testing.T) {
			s := valid()
			s.Email = email
			_, err := contact.Validate(s)
			requireCode(t, err, contact.CodeInvalidEmail)
			require.Equal(t, "Please provide a valid email address.", err.Error())
		})
	}

	for _, email := range []string{"a@b.co", "first.last+tag@sub.example.org"} {
		t.Run(email, func(t *testing.T) {
			s := valid()
			s.Email = email
			_, err := contact.Validate(s)
			require.NoError(t, err)
		})
	}
}

func TestValidate_NameLength(t *testing.T) {
	tests := []struct {
		length int
		ok     bool
	}{
		{1, false}, {2, true}, {100, true}, {101, false},
	}
	for _, tc := range tests {
		s := valid()
		s.Name = strings.Repeat("n", tc.length)
		_, err := contact.Validate(s)
		if tc.ok {
			require.NoError(t, err, "length %d", tc.length)
			continue
		}
		requireCode(t, err, contact.CodeNameLength)
	}
}

func TestValidate_MessageLength(t *testing.T) {
	tests := []struct {
		length int
		ok     bool
	}{
		{9, false}, {10, true}, {5000, true}, {5001, false},
	}
	for _, tc := range tests {
		s := valid()
		s.Message = strings.Repeat("m", tc.length)
		_, err := contact.Validate(s)
		if tc.ok {
			require.NoError(t, err, "length %d", tc.length)
			continue
		}
		requireCode(t, err, contact.CodeMessageLength)
	}
}

func TestValidate_CountsCharactersNotBytes(t *testing.T) {
	s := valid()
	s.Name = "Zoë"
	s.Message = strings.Repeat("é", 10)
	_, err := contact.Validate(s)
	require.NoError(t, err)

	s.Name = strings.Repeat("é", 100)
	_, err = contact.Validate(s)
	require.NoError(t, err)
}

func TestValidate_StopsAtFirstFailure(t *testing.T) {
	_, err := contact.Validate(contact.Submission{Name: "x", Email: "bad", Message: "short"})
	requireCode(t, err, contact.CodeInvalidEmail)
}

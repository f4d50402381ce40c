package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidConfig = errors.New("email: invalid configuration")
	ErrInvalidParams = errors.New("email: invalid send parameters")
	ErrSendFailed    = errors.New("email: failed to send")
)

// SendParams describes one transactional email.
type SendParams struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"htmlBody"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the parameters before any provider call.
func (p SendParams) Validate() error {
	if p.To == "" || !isValidEmail(p.To) {
		return fmt.Errorf("%w: To must be a valid email address", ErrInvalidParams)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}

// Sender delivers transactional email. Implementations: Postmark for
// production, DevSender for local runs.
type Sender interface {
	Send(ctx context.Context, params SendParams) error
}

// emailRegex is a simple regex for validating email addresses.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(addr string) bool {
	return emailRegex.MatchString(addr)
}

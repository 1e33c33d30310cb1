package service

import (
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// bcrypt ignores input past this many bytes.
const maxPasswordBytes = 72

type rule struct {
	tag     string
	message string
}

var (
	usernameRules = []rule{
		{"required", "Username is required"},
		{"omitempty,min=3", "Username must be at least 3 characters"},
		{"omitempty,max=10", "Username cannot be more than 10 characters"},
		{"omitempty,alphanum", "Username can only contain letters and numbers"},
	}
	passwordRules = []rule{
		{"required", "Password is required"},
		{"omitempty,min=12", "Password must be at least 12 characters"},
		{"omitempty,max=70", "Password cannot be more than 70 characters"},
	}
	titleRules = []rule{{"required", "You must provide a title"}}
	bodyRules  = []rule{{"required", "You must provide content"}}
)

const (
	msgUsernameTaken      = "Username is already taken"
	msgInvalidCredentials = "Invalid Username / Password"
)

// Validator turns form input into the list of messages shown to the user.
// Every failing rule contributes a message, in declaration order.
type Validator struct {
	validate *validator.Validate
	strip    *bluemonday.Policy
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
		strip:    bluemonday.StrictPolicy(),
	}
}

func (v *Validator) check(value string, rules []rule) []string {
	var msgs []string
	for _, r := range rules {
		if err := v.validate.Var(value, r.tag); err != nil {
			msgs = append(msgs, r.message)
		}
	}
	return msgs
}

// Username validates a trimmed username.
func (v *Validator) Username(username string) []string {
	return v.check(username, usernameRules)
}

// Password validates a password as typed.
func (v *Validator) Password(password string) []string {
	msgs := v.check(password, passwordRules)
	if len(msgs) == 0 && len(password) > maxPasswordBytes {
		msgs = append(msgs, "Password cannot be more than 72 bytes")
	}
	return msgs
}

// CleanPost trims title and body and strips every HTML tag from them.
func (v *Validator) CleanPost(title, body string) (string, string) {
	return v.stripTags(title), v.stripTags(body)
}

// Post validates an already cleaned title and body.
func (v *Validator) Post(title, body string) []string {
	return append(v.check(title, titleRules), v.check(body, bodyRules)...)
}

func (v *Validator) stripTags(s string) string {
	// the policy entity-encodes what it keeps; store plain text and let
	// the templates escape on output
	return strings.TrimSpace(html.UnescapeString(v.strip.Sanitize(strings.TrimSpace(s))))
}

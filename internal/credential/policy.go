// Package credential decides whether a candidate password is admissible.
//
// The checks are pure functions of their inputs; the rules themselves come
// from a Policy so deployments can tune them without touching callers.
package credential

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

// MaxBytes is the longest password bcrypt can hash.
const MaxBytes = 72

// ErrMismatch is returned when a password and its confirmation differ.
var ErrMismatch = errors.New("password fields do not match")

// WeakPasswordError lists every rule the password failed.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "weak password: " + strings.Join(e.Reasons, "; ")
}

// Policy configures the strength rules.
type Policy struct {
	MinLength     int
	MaxSimilarity float64 // 0 disables the identity similarity check
	RejectNumeric bool
	RejectCommon  bool
}

// DefaultPolicy mirrors the usual web-framework defaults.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:     8,
		MaxSimilarity: 0.7,
		RejectNumeric: true,
		RejectCommon:  true,
	}
}

type Validator struct {
	policy Policy
	common map[string]struct{}
}

func NewValidator(policy Policy) *Validator {
	if policy.MinLength <= 0 {
		policy.MinLength = DefaultPolicy().MinLength
	}
	return &Validator{
		policy: policy,
		common: loadCommonPasswords(commonPasswordsRaw),
	}
}

// Policy returns the active rules.
func (v *Validator) Policy() Policy {
	return v.policy
}

// ValidateStrength checks the password against the policy. identity holds
// values the password must not resemble (email, full name, ...).
func (v *Validator) ValidateStrength(password string, identity ...string) error {
	if len(password) > MaxBytes {
		return &WeakPasswordError{Reasons: []string{
			fmt.Sprintf("Ensure this password has no more than %d bytes.", MaxBytes),
		}}
	}

	var reasons []string

	if len([]rune(password)) < v.policy.MinLength {
		reasons = append(reasons, fmt.Sprintf("This password is too short. It must contain at least %d characters.", v.policy.MinLength))
	}

	if v.policy.RejectNumeric && password != "" && isNumeric(password) {
		reasons = append(reasons, "This password is entirely numeric.")
	}

	if v.policy.RejectCommon {
		if _, ok := v.common[strings.ToLower(strings.TrimSpace(password))]; ok {
			reasons = append(reasons, "This password is too common.")
		}
	}

	if v.policy.MaxSimilarity > 0 && password != "" {
		if attr, ok := v.similarTo(password, identity); ok {
			reasons = append(reasons, fmt.Sprintf("The password is too similar to the %s.", attr))
		}
	}

	if len(reasons) > 0 {
		return &WeakPasswordError{Reasons: reasons}
	}
	return nil
}

// ValidateConfirmation requires both values to be literally identical.
func ValidateConfirmation(password, confirmation string) error {
	if password != confirmation {
		return ErrMismatch
	}
	return nil
}

var nonWord = regexp.MustCompile(`\W+`)

func (v *Validator) similarTo(password string, identity []string) (string, bool) {
	pw := strings.ToLower(password)
	for _, value := range identity {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if len(part) < 3 {
				continue
			}
			if similarity(pw, part) >= v.policy.MaxSimilarity {
				return identityLabel(value), true
			}
		}
	}
	return "", false
}

func identityLabel(value string) string {
	if strings.Contains(value, "@") {
		return "email address"
	}
	return "personal information"
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func loadCommonPasswords(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

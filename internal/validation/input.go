package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Input length limits
const (
	MaxSubjectLength = 200
	MaxMessageLength = 7000
	MaxStatusLength  = 700
	MaxRecipients    = 10
	MaxURLLength     = 2048
)

var memberIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateSubject validates a message subject.
func ValidateSubject(subject string) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("subject cannot be empty")
	}
	if n := utf8.RuneCountInString(subject); n > MaxSubjectLength {
		return fmt.Errorf("subject exceeds maximum length of %d characters (got %d)", MaxSubjectLength, n)
	}
	return nil
}

// ValidateMessageContent validates a message body.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message body cannot be empty")
	}
	if n := utf8.RuneCountInString(content); n > MaxMessageLength {
		return fmt.Errorf("message body exceeds maximum length of %d characters (got %d)", MaxMessageLength, n)
	}
	return nil
}

// ValidateStatus validates a status or network update text.
func ValidateStatus(status string) error {
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("status cannot be empty")
	}
	if n := utf8.RuneCountInString(status); n > MaxStatusLength {
		return fmt.Errorf("status exceeds maximum length of %d characters (got %d)", MaxStatusLength, n)
	}
	return nil
}

// ValidateMemberID checks a member id as used in /people/<id> paths.
func ValidateMemberID(id string) error {
	if id == "" {
		return fmt.Errorf("member id cannot be empty")
	}
	if !memberIDPattern.MatchString(id) {
		return fmt.Errorf("invalid member id %q", id)
	}
	return nil
}

// ParseRecipients splits comma-separated member ids, dropping blanks and
// duplicates, and validates each.
func ParseRecipients(values []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if err := ValidateMemberID(id); err != nil {
				return nil, err
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	if len(out) > MaxRecipients {
		return nil, fmt.Errorf("too many recipients: %d (max %d)", len(out), MaxRecipients)
	}
	return out, nil
}

// ParseKeyValue splits "key=value". The key must be non-empty.
func ParseKeyValue(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid parameter %q: expected key=value", s)
	}
	return key, value, nil
}

// ParsePositiveInt parses a string as a positive integer.
func ParsePositiveInt(s string, fieldName string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", fieldName, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", fieldName)
	}
	return int(n), nil
}

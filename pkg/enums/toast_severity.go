package enums

import "fmt"

// ToastSeverity describes the allowed severities of a transient notification.
type ToastSeverity string

const (
	ToastSeveritySuccess ToastSeverity = "success"
	ToastSeverityError   ToastSeverity = "error"
	ToastSeverityInfo    ToastSeverity = "info"
)

var validToastSeverities = []ToastSeverity{
	ToastSeveritySuccess,
	ToastSeverityError,
	ToastSeverityInfo,
}

// IsValid reports whether the value matches the canonical toast severity enum.
func (s ToastSeverity) IsValid() bool {
	for _, candidate := range validToastSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseToastSeverity converts the raw string to ToastSeverity.
func ParseToastSeverity(value string) (ToastSeverity, error) {
	for _, candidate := range validToastSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid toast severity %q", value)
}

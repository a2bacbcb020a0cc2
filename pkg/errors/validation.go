package errors

import (
	"regexp"
	"unicode"
)

// ValidateNodeID validates a node identifier read from an input graph.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// metricNameRegex matches metric and attribute names: letters, digits,
// underscores, dashes and dots, starting with a letter or underscore.
var metricNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateMetricName validates a metric name supplied by configuration.
func ValidateMetricName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMetric, "metric name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidMetric, "metric name too long (max 128 characters)")
	}

	if !metricNameRegex.MatchString(name) {
		return New(ErrCodeInvalidMetric, "invalid metric name: %q", name)
	}

	return nil
}

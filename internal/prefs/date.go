package prefs

import (
	"fmt"
	"strings"
	"time"
)

// ParseNotBefore normalizes a user-supplied publication-date boundary to
// the fixed-width YYYYMMDD form. Empty input means "no boundary". Anything
// else must be YYYY-MM-DD or YYYYMMDD.
func ParseNotBefore(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if strings.Contains(value, "-") {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return "", fmt.Errorf("after date must be YYYY-MM-DD or YYYYMMDD, got %q", value)
		}
		return t.Format("20060102"), nil
	}
	if len(value) == 8 {
		if _, err := time.Parse("20060102", value); err == nil {
			return value, nil
		}
	}
	return "", fmt.Errorf("after date must be YYYY-MM-DD or YYYYMMDD, got %q", value)
}

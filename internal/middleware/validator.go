package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Input validation helpers for the report endpoints

var (
	symbolPattern   = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,16}$`)
	reportIDPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,16}_\d{8}_\d{6}$`)
)

// ValidateSymbol checks the analysis subject symbol
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format (alphanumeric, dot, dash, max 16 chars)")
	}
	return nil
}

// ValidateReportID checks the <SYMBOL>_<YYYYMMDD_HHMMSS> id shape
func ValidateReportID(id string) error {
	if id == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if !reportIDPattern.MatchString(id) {
		return fmt.Errorf("invalid report ID format")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD filter bound. Empty is allowed (no
// constraint on that dimension).
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

// ValidateLimit clamps the listing limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 100 // default
	}
	if limit > 1000 {
		return 1000 // max limit
	}
	return limit
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

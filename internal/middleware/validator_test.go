package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("AAPL"))
	assert.NoError(t, ValidateSymbol("BRK.B"))
	assert.NoError(t, ValidateSymbol("aapl-x"))

	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("AAPL TSLA"))
	assert.Error(t, ValidateSymbol("../../etc/passwd"))
	assert.Error(t, ValidateSymbol("VERYLONGSYMBOLNAME"))
}

func TestValidateReportID(t *testing.T) {
	assert.NoError(t, ValidateReportID("AAPL_20240101_090000"))
	assert.NoError(t, ValidateReportID("BRK.B_20240101_090000"))

	assert.Error(t, ValidateReportID(""))
	assert.Error(t, ValidateReportID("AAPL"))
	assert.Error(t, ValidateReportID("AAPL_2024_090000"))
	assert.Error(t, ValidateReportID("AAPL_20240101_090000/../x"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate(""))
	assert.NoError(t, ValidateDate("2024-01-31"))

	assert.Error(t, ValidateDate("31-01-2024"))
	assert.Error(t, ValidateDate("2024-13-01"))
	assert.Error(t, ValidateDate("yesterday"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 100, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(-5))
	assert.Equal(t, 25, ValidateLimit(25))
	assert.Equal(t, 1000, ValidateLimit(5000))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
	assert.Equal(t, "ab", SanitizeString("a\x07b"))
}

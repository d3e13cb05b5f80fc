package utils

import (
	"regexp"
	"strings"
)

// FormatPhoneNumber formats a phone number to a standard format
// Removes all non-digit characters and ensures it starts with country code
func FormatPhoneNumber(phoneNumber string) string {
	// Remove all non-digit characters
	re := regexp.MustCompile(`\D`)
	digits := re.ReplaceAllString(phoneNumber, "")

	// If it doesn't start with country code, assume Nigeria (+234)
	if len(digits) > 0 && !strings.HasPrefix(digits, "234") {
		// Remove leading zeros
		digits = strings.TrimLeft(digits, "0")
		// Add Nigeria country code
		digits = "234" + digits
	}

	return digits
}

// ValidatePhoneNumber validates if a phone number is in correct format
func ValidatePhoneNumber(phoneNumber string) bool {
	// Remove all non-digit characters
	re := regexp.MustCompile(`\D`)
	cleaned := re.ReplaceAllString(phoneNumber, "")

	// Accept the international form by stripping the country code
	if strings.HasPrefix(cleaned, "234") && len(cleaned) == 13 {
		cleaned = "0" + cleaned[3:]
	}

	// Nigerian mobile numbers are 11 digits starting with 070, 080, 081,
	// 090 or 091
	if len(cleaned) != 11 {
		return false
	}

	validPrefixes := []string{"070", "080", "081", "090", "091"}
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			return true
		}
	}

	return false
}

// NormalizePhoneNumber normalizes phone number for database storage
func NormalizePhoneNumber(phoneNumber string) string {
	return FormatPhoneNumber(phoneNumber)
}

// DisplayPhoneNumber formats phone number for display
func DisplayPhoneNumber(phoneNumber string) string {
	formatted := FormatPhoneNumber(phoneNumber)
	if len(formatted) == 13 && strings.HasPrefix(formatted, "234") {
		// Format as +234 XXX XXX XXXX
		return "+" + formatted[:3] + " " + formatted[3:6] + " " + formatted[6:9] + " " + formatted[9:]
	}
	return phoneNumber
}

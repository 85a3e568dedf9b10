package types

import (
	"strings"
	"time"
)

// timezoneAbbreviationMap maps common three-letter timezone abbreviations to IANA timezone identifiers
var timezoneAbbreviationMap = map[string]string{
	// Brazil
	"BRT": "America/Sao_Paulo", // Brasilia Time
	"AMT": "America/Manaus",    // Amazon Time

	// Indian Standard Time
	"IST": "Asia/Kolkata",

	// US Timezones
	"EST": "America/New_York",    // Eastern Standard Time
	"CST": "America/Chicago",     // Central Standard Time
	"MST": "America/Denver",      // Mountain Standard Time
	"PST": "America/Los_Angeles", // Pacific Standard Time

	// European Timezones
	"GMT": "Europe/London", // Greenwich Mean Time
	"CET": "Europe/Berlin", // Central European Time
	"EET": "Europe/Athens", // Eastern European Time
	"WET": "Europe/Lisbon", // Western European Time

	// Asia Pacific
	"JST":  "Asia/Tokyo",       // Japan Standard Time
	"KST":  "Asia/Seoul",       // Korea Standard Time
	"AEST": "Australia/Sydney", // Australian Eastern Standard Time
}

// ResolveTimezone converts timezone abbreviation to IANA identifier or returns the input if it's already valid
func ResolveTimezone(timezone string) string {
	// First check if it's a known abbreviation
	if ianaName, exists := timezoneAbbreviationMap[strings.ToUpper(timezone)]; exists {
		return ianaName
	}

	// If not an abbreviation, return as-is (might be IANA name already)
	return timezone
}

// ValidateTimezone validates a timezone by converting abbreviations and checking with time.LoadLocation
func ValidateTimezone(timezone string) error {
	resolvedTimezone := ResolveTimezone(timezone)
	_, err := time.LoadLocation(resolvedTimezone)
	return err
}

// LoadTimezone resolves abbreviations and loads the IANA location. All bucketing and
// range-boundary math runs in the location returned here, never in the process locale.
func LoadTimezone(timezone string) (*time.Location, error) {
	return time.LoadLocation(ResolveTimezone(timezone))
}

package phone

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when no region hint is supplied.
const DefaultRegion = "GB"

// PhoneType represents the type of phone number.
type PhoneType string

const (
	// TypeFixedLine represents a fixed-line number.
	TypeFixedLine PhoneType = "FIXED_LINE"
	// TypeMobile represents a mobile number.
	TypeMobile PhoneType = "MOBILE"
	// TypeFixedLineOrMobile represents a number that could be either.
	TypeFixedLineOrMobile PhoneType = "FIXED_LINE_OR_MOBILE"
	// TypeTollFree represents a toll-free number.
	TypeTollFree PhoneType = "TOLL_FREE"
	// TypeVoip represents a VoIP number.
	TypeVoip PhoneType = "VOIP"
	// TypeUnknown represents an unknown type.
	TypeUnknown PhoneType = "UNKNOWN"
)

// ValidationResult contains the result of phone number validation.
type ValidationResult struct {
	IsValid     bool      `json:"is_valid"`
	E164Format  string    `json:"e164_format"`
	CountryCode string    `json:"country_code"`
	PhoneType   PhoneType `json:"phone_type"`
}

// ValidatePhone validates a phone number and returns detailed information.
func ValidatePhone(phone, region string) (*ValidationResult, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number cannot be empty")
	}

	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	return &ValidationResult{
		IsValid:     phonenumbers.IsValidNumber(parsed),
		E164Format:  phonenumbers.Format(parsed, phonenumbers.E164),
		CountryCode: phonenumbers.GetRegionCodeForNumber(parsed),
		PhoneType:   getPhoneTypeString(phonenumbers.GetNumberType(parsed)),
	}, nil
}

// ukCallingCode is shared by GB and the Crown Dependencies (GG, JE, IM).
const ukCallingCode = 44

// IsValidUKMobile reports whether a normalized number (digits with the 44
// prefix, as produced by NormalizeUKMobile) is a dialable +44 mobile.
func IsValidUKMobile(normalized string) bool {
	if normalized == "" {
		return false
	}

	parsed, err := phonenumbers.Parse("+"+normalized, DefaultRegion)
	if err != nil {
		return false
	}
	if int(parsed.GetCountryCode()) != ukCallingCode || !phonenumbers.IsValidNumber(parsed) {
		return false
	}

	switch getPhoneTypeString(phonenumbers.GetNumberType(parsed)) {
	case TypeMobile, TypeFixedLineOrMobile:
		return true
	default:
		return false
	}
}

// getPhoneTypeString converts phonenumbers.PhoneNumberType to PhoneType string.
func getPhoneTypeString(t phonenumbers.PhoneNumberType) PhoneType {
	switch t {
	case phonenumbers.FIXED_LINE:
		return TypeFixedLine
	case phonenumbers.MOBILE:
		return TypeMobile
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return TypeFixedLineOrMobile
	case phonenumbers.TOLL_FREE:
		return TypeTollFree
	case phonenumbers.VOIP:
		return TypeVoip
	default:
		return TypeUnknown
	}
}

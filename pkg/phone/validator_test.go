package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name      string
		phone     string
		region    string
		wantValid  bool
		wantE164   string
		wantRegion string
		wantError  bool
	}{
		{
			name:       "Valid UK mobile with country code",
			phone:      "+44 7400 123456",
			region:     "GB",
			wantValid:  true,
			wantE164:   "+447400123456",
			wantRegion: "GB",
		},
		{
			name:       "Valid UK mobile defaults to GB region",
			phone:      "07400 123456",
			region:     "",
			wantValid:  true,
			wantE164:   "+447400123456",
			wantRegion: "GB",
		},
		{
			name:       "Guernsey mobile on the +44 plan",
			phone:      "07911 123456",
			region:     "",
			wantValid:  true,
			wantE164:   "+447911123456",
			wantRegion: "GG",
		},
		{
			name:      "Empty number",
			phone:     "",
			region:    "GB",
			wantError: true,
		},
		{
			name:      "No digits at all",
			phone:     "!!!",
			region:    "GB",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidatePhone(tt.phone, tt.region)
			if tt.wantError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Equal(t, tt.wantE164, result.E164Format)
			assert.Equal(t, tt.wantRegion, result.CountryCode)
		})
	}
}

func TestIsValidUKMobile(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{name: "GB mobile", phone: "07400 123456", want: true},
		{name: "Guernsey mobile", phone: "07781 123456", want: true},
		{name: "Guernsey range in 07911", phone: "07911 123456", want: true},
		{name: "Jersey mobile", phone: "07797 123456", want: true},
		{name: "Isle of Man mobile", phone: "07624 123456", want: true},
		{name: "GB landline", phone: "020 7946 0000", want: false},
		{name: "too short", phone: "12", want: false},
		{name: "empty", phone: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUKMobile(NormalizeUKMobile(tt.phone)))
		})
	}
}

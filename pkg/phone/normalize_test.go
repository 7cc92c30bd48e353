package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUKMobile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trunk number gets country code",
			input: "07000000000",
			want:  "447000000000",
		},
		{
			name:  "country code is not prepended twice",
			input: "+447000000000",
			want:  "447000000000",
		},
		{
			name:  "zero after the country code is removed",
			input: "+4407000000000",
			want:  "447000000000",
		},
		{
			name:  "later zeros are preserved",
			input: "+4407000044000",
			want:  "447000044000",
		},
		{
			name:  "symbols are stripped",
			input: "+44(0)700$0-00+0!000",
			want:  "447000000000",
		},
		{
			name:  "letters are stripped",
			input: "+44700a0b0c0d0000",
			want:  "447000000000",
		},
		{
			name:  "spaces are stripped",
			input: "+447000 000 000",
			want:  "447000000000",
		},
		{
			name:  "country code without plus",
			input: "447911123456",
			want:  "447911123456",
		},
		{
			name:  "number without trunk or country code is kept",
			input: "7911123456",
			want:  "7911123456",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeUKMobile(tt.input))
		})
	}
}

func TestNormalizeUKMobile_Idempotent(t *testing.T) {
	for _, input := range []string{"07973121212", "+44 (0) 7973 121212", "447973121212"} {
		once := NormalizeUKMobile(input)
		assert.Equal(t, once, NormalizeUKMobile(once), input)
	}
}

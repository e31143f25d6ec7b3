package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMobile(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"+919876543210", "9876543210"},
		{"919876543210", "9876543210"},
		{"09876543210", "9876543210"},
		{"98765 43210", "9876543210"},
		{"+91-98765-43210", "9876543210"},
	}
	for _, tc := range cases {
		got, err := NormalizeMobile(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeMobileRejects(t *testing.T) {
	bad := []string{
		"",
		"12345",
		"5876543210",  // leading digit below 6
		"98765432101", // 11 digits, no known prefix
		"abcdefghij",
	}
	for _, in := range bad {
		_, err := NormalizeMobile(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestValidPincode(t *testing.T) {
	assert.True(t, ValidPincode("380001"))
	assert.False(t, ValidPincode("38000"))
	assert.False(t, ValidPincode("3800011"))
	assert.False(t, ValidPincode("38000a"))
	assert.False(t, ValidPincode(""))
}

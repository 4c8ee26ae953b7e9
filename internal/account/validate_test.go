package account

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLocalPart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"Alice", "alice"},
		{"my name", "myname"},
		{"dots.and-dashes_ok", "dots.and-dashes_ok"},
		{"héllo!", "hllo"},
		{"UPPER123", "upper123"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeLocalPart(tc.in), "input %q", tc.in)
	}
}

func TestValidateLocalPart(t *testing.T) {
	assert.NoError(t, ValidateLocalPart("alice"))
	assert.NoError(t, ValidateLocalPart("a.b-c_d9"))

	assert.Error(t, ValidateLocalPart(""))
	assert.Error(t, ValidateLocalPart("Has Upper"))
	assert.Error(t, ValidateLocalPart(strings.Repeat("a", MaxLocalPartLen+1)))
}

func TestValidationErrorType(t *testing.T) {
	err := ValidateLocalPart("")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Reason)
}

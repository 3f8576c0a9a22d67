package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ten digits", "9876543210", "9876543210"},
		{"with country code", "919876543210", "9876543210"},
		{"with plus and spaces", "+91 98765 43210", "9876543210"},
		{"with dashes", "98765-43210", "9876543210"},
		{"with parens", "(+91) 98765 43210", "9876543210"},
		{"starts with 91 but only ten digits", "9198765432", "9198765432"},
		{"longer than ten after stripping code", "0919876543210", "9876543210"},
		{"short number left alone", "100", "100"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	forms := []string{"+91 98765 43210", "9876543210", "919876543210", "98765 43210"}
	want := Normalize(forms[0])
	for _, f := range forms[1:] {
		assert.Equal(t, want, Normalize(f), "form %q", f)
	}
}

func TestSame(t *testing.T) {
	assert.True(t, Same("+91 98765 43210", "9876543210"))
	assert.True(t, Same("919876543210", "98765-43210"))
	assert.False(t, Same("9876543210", "9876543211"))
}

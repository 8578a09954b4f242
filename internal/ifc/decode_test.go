package ifc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Beam 1", "Beam 1"},
		{"backslash", `a\\b`, `a\b`},
		{"latin1 hex", `Stra\X\DFe`, "Straße"},
		{"utf16", `\X2\00C400D6\X0\`, "ÄÖ"},
		{"utf32", `\X4\0001F600\X0\`, "😀"},
		{"upper half", `\S\D`, "Ä"},
		{"code page", `\PE\\S\D`, "Ф"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeString(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStringErrors(t *testing.T) {
	for _, raw := range []string{`\X2\00C4`, `\X2\00C\X0\`, `\PZ\`, `\X\ZZ`} {
		t.Run(raw, func(t *testing.T) {
			_, err := DecodeString(raw)
			assert.Error(t, err)
		})
	}
}

package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "  ", ""},
		{"plain text", "Acme is a CRM.", "Acme is a CRM."},
		{"inline tags removed", "Try <b>Acme</b> or <a href=\"https://globex.com\">Globex</a>", "Try Acme or Globex"},
		{"block elements break lines", "<h2>Top picks</h2><ul><li>Acme</li><li>Globex</li></ul>", "Top picks\nAcme\nGlobex"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"blank lines collapsed", "<p>first</p>\n\n\n<p>second</p>", "first\n\nsecond"},
		{"entities decoded", "Ben &amp; Jerry&#39;s", "Ben & Jerry's"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.input))
		})
	}
}

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"101", 101, true},
		{" 7 ", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"12abc", 0, false},
		{"", 0, false},
		{"9999999999999999999", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ID(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPage(t *testing.T) {
	assert.Equal(t, 1, Page(""))
	assert.Equal(t, 1, Page("0"))
	assert.Equal(t, 1, Page("x"))
	assert.Equal(t, 3, Page("3"))
	assert.Equal(t, maxPage, Page("99999999"))
}

func TestTerm(t *testing.T) {
	assert.Equal(t, "jaguar red", Term("  jaguar   red "))
	assert.Equal(t, "jaguar", Term("<b>jaguar</b>"))
	assert.Equal(t, "e-type", Term(`<script>alert(1)</script>e-type`))
	assert.Equal(t, "AT&T", Term("AT&amp;T"))
	assert.Len(t, []rune(Term(strings.Repeat("ü", 300))), maxTermRunes)
}

func TestLocale(t *testing.T) {
	supported := func(l string) bool { return l == "en" || l == "de" }
	assert.Equal(t, "de", Locale("de", supported, "en"))
	assert.Equal(t, "de", Locale("de-AT", supported, "en"))
	assert.Equal(t, "en", Locale("fr", supported, "en"))
	assert.Equal(t, "en", Locale("../etc", supported, "en"))
	assert.Equal(t, "en", Locale("", supported, "en"))
}

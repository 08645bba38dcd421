package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogs = fstest.MapFS{
	"t/en.yaml":  {Data: []byte("shop.search-result: 'Search results for \"{0}\"'\nshop.only-en: English only\n")},
	"t/de.yaml":  {Data: []byte("shop.search-result: 'Suchergebnisse für \"{0}\"'\n")},
	"t/notes.md": {Data: []byte("ignored")},
}

func TestTrans(t *testing.T) {
	tr, err := Load(catalogs, "t", "en")
	require.NoError(t, err)

	assert.Equal(t, `Search results for "jaguar"`, tr.Trans("en", "shop.search-result", "jaguar"))
	assert.Equal(t, `Suchergebnisse für "jaguar"`, tr.Trans("de-AT", "shop.search-result", "jaguar"))
	assert.Equal(t, "English only", tr.Trans("de", "shop.only-en"))
	assert.Equal(t, "shop.missing", tr.Trans("de", "shop.missing"))
	assert.True(t, tr.Supports("de"))
	assert.False(t, tr.Supports("fr"))
	assert.Equal(t, []string{"en", "de"}, tr.Locales())
}

func TestLoadRequiresDefaultLocale(t *testing.T) {
	_, err := Load(catalogs, "t", "fr")
	assert.Error(t, err)
}

// Package i18n resolves message keys against per-locale yaml catalogs.
package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Translator struct {
	defaultLocale string
	catalogs      map[string]map[string]string
}

// Load reads every <locale>.yaml file in dir of fsys.
func Load(fsys fs.FS, dir, defaultLocale string) (*Translator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	t := &Translator{defaultLocale: defaultLocale, catalogs: map[string]map[string]string{}}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		msgs := map[string]string{}
		if err := yaml.Unmarshal(raw, &msgs); err != nil {
			return nil, fmt.Errorf("translations %s: %w", e.Name(), err)
		}
		t.catalogs[strings.TrimSuffix(e.Name(), ".yaml")] = msgs
	}
	if _, ok := t.catalogs[defaultLocale]; !ok {
		return nil, fmt.Errorf("no catalog for default locale %q", defaultLocale)
	}
	return t, nil
}

func (t *Translator) DefaultLocale() string { return t.defaultLocale }

// Supports reports whether a catalog exists for locale.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.catalogs[locale]
	return ok
}

// Locales lists the available locales, default first.
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.catalogs))
	for l := range t.catalogs {
		if l != t.defaultLocale {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return append([]string{t.defaultLocale}, out...)
}

// Trans looks key up in locale, its base language and the default locale, in that order, and
// replaces {0}, {1}, ... with args. Unknown keys are returned unchanged.
func (t *Translator) Trans(locale, key string, args ...any) string {
	msg, ok := t.lookup(locale, key)
	if !ok {
		msg = key
	}
	for i, a := range args {
		msg = strings.ReplaceAll(msg, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}
	return msg
}

func (t *Translator) lookup(locale, key string) (string, bool) {
	candidates := []string{locale}
	if base, _, found := strings.Cut(locale, "-"); found {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, t.defaultLocale)
	for _, l := range candidates {
		if msg, ok := t.catalogs[l][key]; ok {
			return msg, true
		}
	}
	return "", false
}

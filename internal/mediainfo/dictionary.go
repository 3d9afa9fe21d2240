package mediainfo

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var defaultDictionaryYAML []byte

// Language is one interface language of the MediaInfo report. Tokens maps the
// localized section and field names to pivot keys.
type Language struct {
	Code   string            `yaml:"code"`
	Name   string            `yaml:"name"`
	Tokens map[string]string `yaml:"tokens"`
}

// Dictionary translates localized MediaInfo names into pivot keys. The order
// of Languages matters: a token known to several languages is attributed to
// the first one.
type Dictionary struct {
	Languages []Language `yaml:"languages"`

	index map[string]map[string]string
}

var defaultDictionary = sync.OnceValue(func() *Dictionary {
	d, err := ParseDictionary(defaultDictionaryYAML)
	if err != nil {
		panic(fmt.Sprintf("mediainfo: embedded dictionary: %v", err))
	}
	return d
})

// DefaultDictionary returns the English/French dictionary shipped with the
// binary.
func DefaultDictionary() *Dictionary {
	return defaultDictionary()
}

// ParseDictionary decodes a YAML dictionary resource.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if len(d.Languages) == 0 {
		return nil, fmt.Errorf("dictionary defines no languages")
	}

	d.index = make(map[string]map[string]string, len(d.Languages))
	for _, lang := range d.Languages {
		if lang.Code == "" {
			return nil, fmt.Errorf("dictionary language %q has no code", lang.Name)
		}
		if _, dup := d.index[lang.Code]; dup {
			return nil, fmt.Errorf("dictionary language %q defined twice", lang.Code)
		}
		tokens := make(map[string]string, len(lang.Tokens))
		for raw, pivot := range lang.Tokens {
			tokens[norm.NFC.String(raw)] = pivot
		}
		d.index[lang.Code] = tokens
	}
	return &d, nil
}

// LoadDictionary reads a YAML dictionary from r.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return ParseDictionary(data)
}

// LoadDictionaryFile reads a YAML dictionary from disk.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()
	return LoadDictionary(f)
}

// LanguageOf returns the code of the first language whose vocabulary holds
// token, or "" when no language knows it.
func (d *Dictionary) LanguageOf(token string) string {
	token = norm.NFC.String(token)
	for _, lang := range d.Languages {
		if _, ok := d.index[lang.Code][token]; ok {
			return lang.Code
		}
	}
	return ""
}

// Shared reports whether more than one language knows token. Shared tokens
// such as Audio or Format say nothing about the report language.
func (d *Dictionary) Shared(token string) bool {
	token = norm.NFC.String(token)
	known := 0
	for _, lang := range d.Languages {
		if _, ok := d.index[lang.Code][token]; ok {
			known++
		}
	}
	return known > 1
}

// Translate maps token to its pivot key in the given language. Unknown
// tokens, and every token when lang is the pivot (""), pass through.
func (d *Dictionary) Translate(lang, token string) string {
	if lang == PivotLanguage {
		return token
	}
	if pivot, ok := d.index[lang][norm.NFC.String(token)]; ok {
		return pivot
	}
	return token
}

package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
	lang     string
}

// NewTranslations loads the embedded message files. Any locale without a
// message file falls back to English; the locale still drives the language
// the model answers in.
func NewTranslations(lang string) (*Translations, error) {
	return NewTranslationsFromFS(lang, localeFS, "locales")
}

func NewTranslationsFromFS(lang string, fsys fs.FS, dir string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(fsys, path.Join(dir, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no translation files found")
	}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(file)); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	t := &Translations{bundle: bundle}
	t.use(lang)
	return t, nil
}

// SetLanguage switches the UI language; unknown languages report an error
// and leave the current language untouched.
func (t *Translations) SetLanguage(lang string) error {
	if !t.Supports(lang) {
		return fmt.Errorf("language '%s' not supported", lang)
	}
	t.use(lang)
	return nil
}

// Supports reports whether a message file exists for the base language of lang.
func (t *Translations) Supports(lang string) bool {
	base := baseLanguage(lang)
	for _, tag := range t.bundle.LanguageTags() {
		if baseLanguage(tag.String()) == base {
			return true
		}
	}
	return false
}

func (t *Translations) Language() string {
	return t.lang
}

func (t *Translations) use(lang string) {
	if lang == "" || !t.Supports(lang) {
		lang = language.English.String()
	}
	t.lang = baseLanguage(lang)
	t.localize = i18n.NewLocalizer(t.bundle, t.lang, language.English.String())
}

func (t *Translations) GetMessage(messageID string, count int, templateData interface{}) string {
	cfg := &i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	}
	if count > 0 {
		cfg.PluralCount = count
	}
	localized, err := t.localize.Localize(cfg)
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

func baseLanguage(lang string) string {
	lang = strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
	if i := strings.Index(lang, "-"); i > 0 {
		return lang[:i]
	}
	return lang
}

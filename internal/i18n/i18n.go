// Package i18n localizes user-facing terminal messages. Translations live in
// embedded JSON locale files. Unlike a web service there is no per-request
// language, so one process-wide localizer is selected at startup.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
)

// Init loads the translation bundle and selects the given language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		b.MustParseMessageFileBytes(data, e.Name())
	}

	bundle = b
	localizer = i18n.NewLocalizer(bundle, lang)
	return nil
}

// T translates a message by ID.
func T(msgID string) string {
	return Td(msgID, nil)
}

// Td translates a message by ID with template data.
func Td(msgID string, data map[string]any) string {
	if localizer == nil {
		// Init was never called (unit tests of other packages); fall back
		// to the message ID so output stays debuggable.
		return msgID
	}
	s, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

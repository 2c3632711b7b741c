package relay

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys for user-facing errors.
const (
	KeyNoteTooLarge        = "noteTooLarge"
	KeyInsufficientStorage = "insufficientStorage"
)

// Localizer looks up user-facing messages by key.
type Localizer interface {
	Message(key string) string
}

var englishMessages = map[string]string{
	KeyNoteTooLarge:        "Note is too large to sync. Please reduce the content size.",
	KeyInsufficientStorage: "Storage limit reached. Please delete some notes.",
}

var russianMessages = map[string]string{
	KeyNoteTooLarge:        "Заметка слишком большая для синхронизации. Уменьшите объём содержимого.",
	KeyInsufficientStorage: "Достигнут лимит хранилища. Удалите часть заметок.",
}

var supportedLanguages = []language.Tag{language.English, language.Russian}

// CatalogLocalizer resolves messages from an x/text catalog and falls back
// to English for missing translations.
type CatalogLocalizer struct {
	printer  *message.Printer
	fallback *message.Printer
}

// NewLocalizer returns a localizer for locale, e.g. "ru" or "en-US".
// Unknown or unsupported locales resolve to English.
func NewLocalizer(locale string) *CatalogLocalizer {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range englishMessages {
		_ = builder.SetString(language.English, key, msg)
	}
	for key, msg := range russianMessages {
		_ = builder.SetString(language.Russian, key, msg)
	}

	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		matcher := language.NewMatcher(supportedLanguages)
		_, idx, confidence := matcher.Match(parsed)
		if confidence != language.No {
			tag = supportedLanguages[idx]
		}
	}

	return &CatalogLocalizer{
		printer:  message.NewPrinter(tag, message.Catalog(builder)),
		fallback: message.NewPrinter(language.English, message.Catalog(builder)),
	}
}

// Message returns the translation of key. A key with no translation at all
// is returned unchanged.
func (l *CatalogLocalizer) Message(key string) string {
	// Printer возвращает сам ключ, если перевода нет
	if msg := l.printer.Sprintf(key); msg != key {
		return msg
	}
	if msg := l.fallback.Sprintf(key); msg != key {
		return msg
	}
	if msg, ok := englishMessages[key]; ok {
		return msg
	}
	return key
}

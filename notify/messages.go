package notify

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Message IDs of the participation flow.
const (
	MsgConfirmTitle       = "confirm_title"
	MsgConfirmText        = "confirm_text"
	MsgConfirmAccept      = "confirm_accept"
	MsgConfirmCancel      = "confirm_cancel"
	MsgJoined             = "joined"
	MsgChallengeFullTitle = "challenge_full_title"
	MsgChallengeFullText  = "challenge_full_text"
	MsgTopUpTitle         = "top_up_title"
)

//go:embed active.*.toml
var localeFS embed.FS

// Translator renders user facing texts for one locale.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	locale    language.Tag
}

// NewTranslator loads the embedded message files. Unknown locales fall back to Korean,
// the language the service was built for.
func NewTranslator(locale string) *Translator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Korean
	}

	bundle := i18n.NewBundle(language.Korean)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range []string{"active.ko.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Err(err).Str("file", file).Msg("Failed to load message file")
		}
	}

	return &Translator{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.Korean.String()),
		locale:    tag,
	}
}

// Locale returns the requested locale.
func (t *Translator) Locale() language.Tag {
	return t.locale
}

// T renders the message id with data. Missing messages render as the id itself.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Err(err).Str("message_id", id).Msg("Failed to localize message")
		return id
	}
	return msg
}

// Package locale holds the console message catalog.
package locale

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed translation/*.toml
var translationFS embed.FS

type Catalog struct {
	localizer *i18n.Localizer
}

func New(lang string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.Vietnamese)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if err := parseTranslationFiles(translationFS, bundle); err != nil {
		return nil, fmt.Errorf("parse translations: %w", err)
	}
	return &Catalog{localizer: i18n.NewLocalizer(bundle, lang)}, nil
}

// T renders a message. Unknown IDs render as the ID itself.
func (c *Catalog) T(id string, data ...map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := c.localizer.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}

func parseTranslationFiles(fsys fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
}

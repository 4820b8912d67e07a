// Package surveys holds the survey model and a pass-through client for the survey backend.
package surveys

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type Option struct {
	Text string `json:"text" validate:"required"`
}

type Survey struct {
	ID      int      `json:"id,omitempty"`
	Title   string   `json:"title" validate:"required"`
	Options []Option `json:"options" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewSurvey builds a survey from form input. Blank option texts are dropped.
func NewSurvey(title string, optionTexts []string) Survey {
	s := Survey{Title: strings.TrimSpace(title)}
	for _, text := range optionTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		s.Options = append(s.Options, Option{Text: text})
	}
	return s
}

// Validate checks the survey has a title and at least one non-empty option
func (s Survey) Validate() error {
	return validate.Struct(s)
}

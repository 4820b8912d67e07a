package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// ParseTemplate parses a page together with the shared layout from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

type pageTemplates struct {
	index        *template.Template
	login        *template.Template
	surveyNew    *template.Template
	surveyDetail *template.Template
	errorPage    *template.Template
}

func parsePageTemplates() (*pageTemplates, error) {
	pages := &pageTemplates{}
	for name, dst := range map[string]**template.Template{
		"index.html":         &pages.index,
		"login.html":         &pages.login,
		"survey_new.html":    &pages.surveyNew,
		"survey_detail.html": &pages.surveyDetail,
		"error.html":         &pages.errorPage,
	} {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = tmpl
	}
	return pages, nil
}

// render executes the layout for tmpl with the given status
func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, layoutTemplate, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
	}
}

type errorPageData struct {
	basePageData
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string, authenticated bool) {
	s.render(w, status, s.pages.errorPage, errorPageData{
		basePageData: s.basePage(status, authenticated),
		Message:      message,
	})
}

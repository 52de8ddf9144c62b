package lure

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Persona is the personalization data substituted into template
// placeholders. Every field may be empty; templates carry their own
// fallback text via the sprig default function.
type Persona struct {
	Handle       string
	FullName     string
	Email        string
	Organization string
	Contact      string
	Site         string
	SiteName     string
}

var titleCaser = cases.Title(language.English)

// NewPersona derives the personalization data for a target site from
// identity fields and the first key contact. Names are title-cased so
// rendered content reads naturally regardless of capture casing.
func NewPersona(site, handle, fullName, email, organization, contact string) Persona {
	return Persona{
		Handle:       strings.TrimSpace(handle),
		FullName:     titleName(fullName),
		Email:        strings.TrimSpace(email),
		Organization: strings.TrimSpace(organization),
		Contact:      titleName(contact),
		Site:         strings.TrimSpace(site),
		SiteName:     siteName(site),
	}
}

func titleName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(name))
}

// siteName turns a host like "mail.google.com" into a display name.
func siteName(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return ""
	}
	labels := strings.Split(site, ".")
	label := labels[0]
	// Prefer the registrable label over generic prefixes.
	if len(labels) > 2 && (label == "mail" || label == "www" || label == "portal" || label == "console") {
		label = labels[1]
	}
	return titleCaser.String(label)
}

// Rendered is a template's text fields after placeholder substitution.
type Rendered struct {
	Title           string
	Body            string
	SenderName      string
	SenderAddress   string
	CallToAction    string
	CallToActionURL string
	Theme           string
}

// Render substitutes the persona into every templated field. A field that
// fails to parse or execute keeps its raw text so planning never fails on
// a malformed pack.
func Render(t Template, p Persona) Rendered {
	return Rendered{
		Title:           renderField(t.Title, p),
		Body:            renderField(t.Body, p),
		SenderName:      renderField(t.SenderName, p),
		SenderAddress:   t.SenderAddress,
		CallToAction:    renderField(t.CallToAction, p),
		CallToActionURL: t.CallToActionURL,
		Theme:           t.Theme,
	}
}

func renderField(text string, p Persona) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("lure").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return text
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, p); err != nil {
		return text
	}
	out := sb.String()
	// Collapse doubled spaces left by empty substitutions.
	return strings.Join(strings.Fields(out), " ")
}

// RenderError reports whether a template's fields would fail to render,
// for pack validation in tests and tooling.
func RenderError(t Template) error {
	for _, field := range []string{t.Title, t.Body, t.SenderName, t.CallToAction} {
		if !strings.Contains(field, "{{") {
			continue
		}
		tmpl, err := template.New("lure").Funcs(sprig.TxtFuncMap()).Parse(field)
		if err != nil {
			return fmt.Errorf("parse %q: %w", field, err)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, Persona{}); err != nil {
			return fmt.Errorf("execute %q: %w", field, err)
		}
	}
	return nil
}

package handlers

import (
	"html/template"
	"strings"
	"time"

	"github.com/znz-systems/linkboard/internal/browser"
	"github.com/znz-systems/linkboard/internal/linkedin"
	"github.com/znz-systems/linkboard/internal/models"
)

// Funcs is the template function set every page is parsed with.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":    browser.FormatDate,
		"channelLabel":  browser.ChannelLabel,
		"distanceLabel": linkedin.DistanceLabel,
		"preview": func(content string) string {
			return browser.Truncate(content, browser.PreviewLength)
		},
		"shortDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("Jan 2, 2006")
		},
		"plural": func(n int, word string) string {
			if n == 1 {
				return word
			}
			return word + "s"
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"initial": func(name string) string {
			for _, r := range name {
				return strings.ToUpper(string(r))
			}
			return "?"
		},
		"providers": func() []models.Provider { return models.Providers },
	}
}

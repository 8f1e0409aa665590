package funcs

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var TemplateFuncs = template.FuncMap{
	// Time functions
	"now":        time.Now,
	"formatDate": formatDate,
	"age":        age,

	// String functions
	"uppercase": strings.ToUpper,
	"lowercase": strings.ToLower,
	"title":     title,
	"pluralize": pluralize[int],

	// Number functions
	"formatInt": formatInt[int64],
}

func formatDate(t time.Time, layout string) string {
	return t.Format(layout)
}

// age is the number of whole years between t and now.
func age(t time.Time) int {
	now := time.Now()
	years := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		years--
	}
	return years
}

func title(s string) string {
	return cases.Title(language.English).String(s)
}

func pluralize[T constraints.Integer](count T, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}

	return printer.Sprintf("%d %s", count, plural)
}

func formatInt[T constraints.Integer](i T) string {
	return printer.Sprintf("%d", i)
}

package cli

import (
	"html"
	"regexp"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// previewLen is the rune limit of a note preview in listings
const previewLen = 60

var tagPattern = regexp.MustCompile(`<[^>]*>`)

var templateFuncs = template.FuncMap{
	"inc":     func(i int) int { return i + 1 },
	"stamp":   func(t time.Time) string { return t.Local().Format("2006-01-02 15:04:05") },
	"ago":     humanize.Time,
	"preview": preview,
	"text":    plainText,
}

var notesTmpl = template.Must(template.New("notes").Funcs(templateFuncs).Parse(`=== Notes ({{len .}}) ===
{{range $i, $n := .}}
{{inc $i}}. {{$n.ID}}
   Modified: {{stamp $n.LastModified}} ({{ago $n.LastModified}})
   {{preview $n.Content}}
{{end}}`))

var noteTmpl = template.Must(template.New("note").Funcs(templateFuncs).Parse(`
=== Note {{.ID}} ===

Modified: {{stamp .LastModified}}

{{text .Content}}
`))

// plainText убирает HTML теги и раскрывает entities
func plainText(content string) string {
	content = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "</p>", "\n", "</div>", "\n").Replace(content)
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(content, "")))
}

// preview возвращает первую строку текста, обрезанную до previewLen
func preview(content string) string {
	text := plainText(content)
	if line, _, found := strings.Cut(text, "\n"); found {
		text = line + " …"
	}
	if text == "" {
		return "(empty)"
	}
	if utf8.RuneCountInString(text) <= previewLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLen]) + "…"
}

// Package prompts renders the chat messages sent to an LLM for narration and
// intent parsing.
package prompts

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed narrator.tmpl
var narratorPrompt string

//go:embed situation.tmpl
var situationPrompt string

//go:embed intent.tmpl
var intentPrompt string

//go:embed parse.tmpl
var parsePrompt string

var funcs = template.FuncMap{"join": strings.Join}

var (
	narratorTmpl  = template.Must(template.New("narrator").Parse(narratorPrompt))
	situationTmpl = template.Must(template.New("situation").Parse(situationPrompt))
	parseTmpl     = template.Must(template.New("parse").Funcs(funcs).Parse(parsePrompt))
)

// IntentSystemPrompt is the fixed instruction block for the LLM parser.
func IntentSystemPrompt() string {
	return strings.TrimSpace(intentPrompt)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

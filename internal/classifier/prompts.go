package classifier

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/classify.md
var classifyPromptRaw string

// classifyTemplate is parsed once at package init and reused for every batch.
var classifyTemplate = template.Must(template.New("classify").Parse(classifyPromptRaw))

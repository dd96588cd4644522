package domain

import "strings"

// Context block labels, in the order each stage emits them.
const (
	LabelFile           = "FILE"
	LabelCode           = "CODE"
	LabelOriginalSource = "ORIGINAL SOURCE CODE"
	LabelTestToRefine   = "GENERATED TEST CODE TO REFINE"
	LabelFailingTest    = "FAILING TEST CODE"
	LabelBuildLog       = "BUILD ERROR LOG"
)

// Trailing directives naming the required output format.
const (
	DirectiveGenerate = "PROVIDE GOOGLE TEST CODE.\nDO NOT INCLUDE FORMATTING."
	DirectiveRefine   = "PROVIDE REFINED GOOGLE TEST CODE.\nDO NOT INCLUDE FORMATTING."
	DirectiveFix      = "PROVIDE FIXED GOOGLE TEST CODE.\nDO NOT INCLUDE FORMATTING."
)

// ContextField is one labeled block of a prompt.
type ContextField struct {
	Label string
	Text  string
}

// PromptRequest describes a prompt before it is flattened to text.
type PromptRequest struct {
	Instruction string
	Fields      []ContextField
	Directive   string
}

// Compose joins the instruction, each labeled block and the directive,
// separated by blank lines.
func (p PromptRequest) Compose() string {
	parts := make([]string, 0, len(p.Fields)+2)
	if s := strings.TrimSpace(p.Instruction); s != "" {
		parts = append(parts, s)
	}
	for _, f := range p.Fields {
		parts = append(parts, f.Label+": "+f.Text)
	}
	if p.Directive != "" {
		parts = append(parts, p.Directive)
	}
	return strings.Join(parts, "\n\n")
}

// GeneratePrompt builds the generation prompt for a source unit.
func GeneratePrompt(instruction string, unit SourceUnit) PromptRequest {
	return PromptRequest{
		Instruction: instruction,
		Fields: []ContextField{
			{Label: LabelFile, Text: unit.Identifier},
			{Label: LabelCode, Text: unit.Content},
		},
		Directive: DirectiveGenerate,
	}
}

// RefinePrompt builds the refinement prompt for a generated test.
func RefinePrompt(instruction string, unit SourceUnit, generated TestArtifact) PromptRequest {
	return PromptRequest{
		Instruction: instruction,
		Fields: []ContextField{
			{Label: LabelOriginalSource, Text: unit.Content},
			{Label: LabelTestToRefine, Text: generated.Content},
		},
		Directive: DirectiveRefine,
	}
}

// FixPrompt builds the repair prompt for a test that took part in a failing build.
func FixPrompt(instruction string, failing TestArtifact, diagnostic string) PromptRequest {
	return PromptRequest{
		Instruction: instruction,
		Fields: []ContextField{
			{Label: LabelFailingTest, Text: failing.Content},
			{Label: LabelBuildLog, Text: diagnostic},
		},
		Directive: DirectiveFix,
	}
}

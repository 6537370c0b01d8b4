package generator

import (
	"context"
	"strings"
)

// ContextEcho implements ports.Generator without any model: it pulls the
// retrieved context and question back out of the rendered prompt and
// shows a snippet. Used when no hosted generator is configured, and as
// the degrade target when one fails mid-request.
type ContextEcho struct {
	snippetChars int
}

// NewContextEcho creates the context-echo stub.
func NewContextEcho() *ContextEcho {
	return &ContextEcho{snippetChars: 600}
}

// Generate extracts question and context from the prompt and echoes
// them. If the prompt does not follow the expected template, it is
// returned as-is.
func (e *ContextEcho) Generate(ctx context.Context, prompt string) (string, error) {
	_, rest, ok := strings.Cut(prompt, "Context:")
	if !ok {
		return prompt, nil
	}
	contextPart, rest, ok := strings.Cut(rest, "Question:")
	if !ok {
		return prompt, nil
	}
	questionPart, _, _ := strings.Cut(rest, "Answer:")

	contextOnly := strings.TrimSpace(contextPart)
	questionOnly := strings.TrimSpace(questionPart)

	snippet := contextOnly
	if len(snippet) > e.snippetChars {
		snippet = snippet[:e.snippetChars] + "..."
	}

	var sb strings.Builder
	sb.WriteString("Question I understood:\n")
	sb.WriteString(questionOnly)
	sb.WriteString("\n\nHere is a relevant snippet from the official website content:\n\n")
	sb.WriteString(snippet)
	sb.WriteString("\n\nThis mode only shows retrieved context. ")
	sb.WriteString("Configure a generator API key to enable natural language answers.")
	return sb.String(), nil
}

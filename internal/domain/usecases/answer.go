// Package usecases - answer.go renders the grounding prompt and delegates
// generation to the injected generator.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
	"github.com/campusrag/campusrag-go/internal/domain/ports"
)

// PromptTemplate is the fixed grounding prompt. The wording is a
// compatibility contract and must not change; the two placeholders take
// the assembled context and the user question, in that order.
const PromptTemplate = `You are a campus assistant.
Answer ONLY using the provided context.
If the answer is not found in the context, reply:
"The information is not available on the official website."

Context:
%s

Question:
%s

Answer:`

// NoContextAnswer is returned byte-for-byte when nothing retrievable
// supports the question. The generator is never invoked in that case.
const NoContextAnswer = "The information is not available on the official website."

// contextSeparator visually delimits chunk boundaries for the generator
// and for anyone inspecting the retrieved context.
const contextSeparator = "\n\n---\n\n"

// AssembleContext joins retrieved chunk texts in rank order into one
// context block. Empty input yields an empty string.
func AssembleContext(chunks []entities.ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return strings.Join(parts, contextSeparator)
}

// AnswerPipeline answers questions grounded in retrieved corpus text.
// It is agnostic to what the generator is - hosted model, local model or
// deterministic stub - and passes generator errors through untouched.
type AnswerPipeline struct {
	retriever *Retriever
	generator ports.Generator
	topK      int
}

// NewAnswerPipeline creates an AnswerPipeline with injected dependencies.
func NewAnswerPipeline(retriever *Retriever, generator ports.Generator, topK int) *AnswerPipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerPipeline{
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// Answer retrieves supporting chunks and generates a grounded answer.
func (p *AnswerPipeline) Answer(ctx context.Context, question string) (string, error) {
	answer, _, err := p.AnswerWithContext(ctx, question)
	return answer, err
}

// AnswerWithContext also returns the assembled context block the answer
// was grounded in. On generator failure the context is still returned so
// the integration boundary can degrade to a context-only display.
func (p *AnswerPipeline) AnswerWithContext(ctx context.Context, question string) (string, string, error) {
	chunks, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return "", "", err
	}
	if len(chunks) == 0 {
		// Hard guard against hallucinating on empty context.
		return NoContextAnswer, "", nil
	}

	contextBlock := AssembleContext(chunks)
	prompt := fmt.Sprintf(PromptTemplate, contextBlock, question)

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return "", contextBlock, err
	}
	return answer, contextBlock, nil
}

package llm

import "context"

// maxTokens bounds every reply; one batch of classifications or two drafts fit well inside it.
const maxTokens = 2000

// Provider sends a prompt to an LLM as a single user message and returns the
// text of the first content block, untrimmed.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

package generator

import "context"

// TextGenerator produces the fortune text for a prompt. Implementations
// handle truncation recovery internally; callers receive the final text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

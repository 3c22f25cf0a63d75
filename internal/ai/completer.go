package ai

import "context"

// Completer is a single-shot text completion service. Implementations make exactly one
// upstream call per Complete and do not retry.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelSwitcher is implemented by completers that can target another model while
// sharing the same upstream client.
type ModelSwitcher interface {
	WithModel(model string) Completer
}

// ForModel returns c bound to model when c supports switching, otherwise c itself.
func ForModel(c Completer, model string) Completer {
	if model == "" {
		return c
	}
	if s, ok := c.(ModelSwitcher); ok {
		return s.WithModel(model)
	}
	return c
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

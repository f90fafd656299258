package ai

import "context"

type Client interface {
	Summarize(ctx context.Context, symbol string, sections map[string]any) (string, error)
}

package ai

import (
	"context"

	"github.com/bryanwahyu/report-vault/internal/domain/ai"
)

type Service struct {
	client ai.Client
}

func NewService(client ai.Client) *Service {
	return &Service{client: client}
}

// Summarize produces a short summary for the given report sections.
// Returns ErrNotConfigured when no client was wired.
func (s *Service) Summarize(ctx context.Context, symbol string, sections map[string]any) (string, error) {
	if s == nil || s.client == nil {
		return "", ai.ErrNotConfigured
	}
	return s.client.Summarize(ctx, symbol, sections)
}

package generator

import (
	"context"
	"time"

	"ai-image-web/internal/domain"
)

// --- Mocks ---

type mockGenerator struct {
	delay        time.Duration
	honorContext bool
	result       domain.GenerationResult
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			if m.honorContext {
				return domain.Failed(ctx.Err().Error())
			}
		}
	}
	return m.result
}

package ai

import (
	"context"
	"time"

	"learnleap/internal/models"
)

// Provider produces the assistant reply for one user message. History is a
// snapshot of the conversation up to and including that message.
type Provider interface {
	Generate(ctx context.Context, message string, history []models.Message, page models.PageContext) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, message string, history []models.Message, page models.PageContext) (string, error)

func (f ProviderFunc) Generate(ctx context.Context, message string, history []models.Message, page models.PageContext) (string, error) {
	return f(ctx, message, history, page)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

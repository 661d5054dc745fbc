// Package rewrite sends resume text to an LLM for a grammar and punctuation pass.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var ErrRewriteFailed = errors.New("rewrite failed")

// Service is the external text-transformation collaborator.
type Service interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// Adapter calls a Service once per request. There are no retries: a timeout, a
// transport error or an empty answer all surface as ErrRewriteFailed.
type Adapter struct {
	svc Service
}

func NewAdapter(svc Service) *Adapter {
	return &Adapter{svc: svc}
}

func (a *Adapter) Rewrite(ctx context.Context, text string) (string, error) {
	out, err := a.svc.Rewrite(ctx, text)
	if err != nil {
		slog.Error("Rewrite service call failed.", "error", err, "inputChars", len(text))
		return "", fmt.Errorf("%w: error cleaning resume with AI: %v", ErrRewriteFailed, err)
	}
	cleaned := strings.TrimSpace(out)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty response from rewrite service", ErrRewriteFailed)
	}
	return cleaned, nil
}

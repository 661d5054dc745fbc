package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MinWords is the smallest extracted text accepted as a resume.
const MinWords = 10

// Gate rejects uploads that are too short or that the owner already stored.
// The dedup key is the owner plus the exact extracted text.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

func (g *Gate) Check(ctx context.Context, ownerID, text string) error {
	if words := len(strings.Fields(text)); words < MinWords {
		return fmt.Errorf("%w: %d words, need at least %d. Please ensure your resume contains sufficient content",
			ErrInsufficientContent, words, MinWords)
	}

	existing, err := g.store.FindByOwnerAndText(ctx, ownerID, text)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("dedup lookup: %w", err)
	}
	return fmt.Errorf("%w: matches resume %s", ErrDuplicateContent, existing.ID)
}

package resume

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
	inserts int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]Record)}
}

func (s *MemoryStore) FindByOwnerAndText(_ context.Context, ownerID, text string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.OwnerID == ownerID && rec.OriginalText == text {
			return copyRecord(rec), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

func (s *MemoryStore) Insert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.OwnerID == rec.OwnerID && existing.OriginalText == rec.OriginalText {
			return ErrDuplicateContent
		}
	}
	s.records[rec.ID] = *copyRecord(*rec)
	s.inserts++
	return nil
}

func (s *MemoryStore) UpdateCleanedText(_ context.Context, id uuid.UUID, text string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.CleanedText = &text
	rec.UpdatedAt = updatedAt
	s.records[id] = rec
	return nil
}

// Inserts reports how many records have been written.
func (s *MemoryStore) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

func copyRecord(rec Record) *Record {
	if rec.CleanedText != nil {
		cleaned := *rec.CleanedText
		rec.CleanedText = &cleaned
	}
	return &rec
}

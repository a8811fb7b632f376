package memory

import (
	"context"
	"sync"
	"time"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/repository/contract"
)

// ContactRepository keeps contacts in process memory.
type ContactRepository struct {
	mu       sync.Mutex
	contacts []entity.ContactRecord
	// FailWith makes Append fail; tests use it to simulate an unavailable sink.
	FailWith error
}

var _ contract.ContactRepository = &ContactRepository{}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Append(ctx context.Context, record *entity.ContactRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	record.Id = int64(len(r.contacts)) + 1
	record.SessionId = entity.TruncateSessionId(record.SessionId)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.contacts = append(r.contacts, *record)
	return nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.contacts)), nil
}

// All returns a copy of the stored contacts.
func (r *ContactRepository) All() []entity.ContactRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.ContactRecord, len(r.contacts))
	copy(out, r.contacts)
	return out
}

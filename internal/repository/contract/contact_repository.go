package contract

import (
	"context"

	"ai-admissions-be/internal/entity"
)

// ContactRepository is the append-only sink for confirmed leads.
type ContactRepository interface {
	// Append assigns record.Id and persists the record.
	Append(ctx context.Context, record *entity.ContactRecord) error
	Count(ctx context.Context) (int64, error)
}

// Package jsonfile stores contacts in a single JSON array file. Used when no
// database is configured.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/repository/contract"

	"github.com/goccy/go-json"
)

type contactJSON struct {
	Id        int64                  `json:"id"`
	Name      string                 `json:"nom"`
	Email     string                 `json:"email"`
	Phone     string                 `json:"telephone"`
	Program   string                 `json:"programme"`
	Note      string                 `json:"message,omitempty"`
	Status    string                 `json:"status"`
	Source    string                 `json:"source"`
	SessionId string                 `json:"session_id"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ContactRepository struct {
	mu   sync.Mutex
	path string
}

func NewContactRepository(path string) contract.ContactRepository {
	return &ContactRepository{path: path}
}

func (r *ContactRepository) load() ([]contactJSON, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var contacts []contactJSON
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return contacts, nil
}

// Append rewrites the whole file through a temp file so a failed write never
// leaves a truncated array behind.
func (r *ContactRepository) Append(ctx context.Context, record *entity.ContactRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return err
	}

	var next int64 = 1
	for _, c := range contacts {
		if c.Id >= next {
			next = c.Id + 1
		}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.SessionId = entity.TruncateSessionId(record.SessionId)

	contacts = append(contacts, contactJSON{
		Id:        next,
		Name:      record.Name,
		Email:     record.Email,
		Phone:     record.Phone,
		Program:   record.Program,
		Note:      record.Note,
		Status:    record.Status,
		Source:    record.Source,
		SessionId: record.SessionId,
		Meta:      record.Meta,
		CreatedAt: record.CreatedAt,
	})

	raw, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return err
	}

	record.Id = next
	return nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.load()
	if err != nil {
		return 0, err
	}
	return int64(len(contacts)), nil
}

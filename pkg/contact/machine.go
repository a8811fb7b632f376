// Package contact drives the multi-turn collection of a visitor's contact
// details: collecting, awaiting confirmation, editing one field, completed.
package contact

import (
	"context"
	"errors"
	"time"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/internal/repository/contract"
	"ai-admissions-be/pkg/events"
	"ai-admissions-be/pkg/store"
)

const logModule = "CONTACT"

// errorPriority decides which message wins when several fields fail.
var errorPriority = []store.Field{store.FieldEmail, store.FieldPhone, store.FieldName, store.FieldProgram, store.FieldNote}

// Reply is the outcome of one form turn.
type Reply struct {
	Text string
	// Saved is set only on the turn that persisted a record.
	Saved *entity.ContactRecord
}

type Machine struct {
	sink       contract.ContactRepository
	publisher  events.Publisher
	extractors []Extractor
	logger     logger.ILogger
	now        func() time.Time
}

func NewMachine(sink contract.ContactRepository, publisher events.Publisher, log logger.ILogger) *Machine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Machine{
		sink:       sink,
		publisher:  publisher,
		extractors: DefaultExtractors(),
		logger:     log,
		now:        time.Now,
	}
}

// Handle processes one visitor message against the session's form. The
// caller must hold the session lock.
func (m *Machine) Handle(ctx context.Context, s *store.Session, message string) Reply {
	if f, editing := s.Form.EditingField(); editing {
		return m.handleEdit(s, f, message)
	}
	if s.Form.AwaitingConfirmation() {
		return m.handleConfirmation(ctx, s, message)
	}
	return m.handleCollect(s, message)
}

func (m *Machine) handleEdit(s *store.Session, f store.Field, message string) Reply {
	value, err := Validate(f, message)
	if err != nil {
		m.logger.Info(logModule, "Edited value rejected", map[string]interface{}{"session_id": s.ID, "field": f})
		return Reply{Text: errorText(err)}
	}

	s.SetValue(f, value)
	s.Form = store.AwaitingConfirmation()
	m.logger.Info(logModule, "Field edited", map[string]interface{}{"session_id": s.ID, "field": f})
	return Reply{Text: Summary(s)}
}

func (m *Machine) handleConfirmation(ctx context.Context, s *store.Session, message string) Reply {
	answer := parseConfirmation(message)

	switch answer.kind {
	case confirmYes:
		if missing := s.MissingRequired(); len(missing) > 0 {
			// precondition re-checked on every "oui"
			s.Form = store.Collecting()
			return Reply{Text: missingFieldPrompt(missing[0])}
		}
		return m.submit(ctx, s)

	case confirmNo:
		return Reply{Text: MessageModify}

	case confirmField:
		current, _ := s.Value(answer.field)
		s.Form = store.EditingField(answer.field)
		return Reply{Text: editPrompt(answer.field, current)}

	default:
		return Reply{Text: MessageNotUnderstood}
	}
}

func (m *Machine) submit(ctx context.Context, s *store.Session) Reply {
	record := &entity.ContactRecord{
		Status:    entity.ContactStatusNew,
		Source:    entity.ContactSourceChat,
		SessionId: entity.TruncateSessionId(s.ID),
		CreatedAt: m.now(),
		Meta:      map[string]interface{}{"turns": len(s.History)},
	}
	record.Name, _ = s.Value(store.FieldName)
	record.Email, _ = s.Value(store.FieldEmail)
	record.Phone, _ = s.Value(store.FieldPhone)
	record.Program, _ = s.Value(store.FieldProgram)
	record.Note, _ = s.Value(store.FieldNote)

	if err := m.sink.Append(ctx, record); err != nil {
		m.logger.Error(logModule, "Failed to persist contact", map[string]interface{}{
			"session_id": s.ID,
			"error":      err.Error(),
		})
		// still awaiting confirmation: the next "oui" retries
		return Reply{Text: MessageSaveFailed}
	}

	s.ClearContact()
	s.Form = store.Completed()

	m.logger.Info(logModule, "Contact saved", map[string]interface{}{
		"session_id": s.ID,
		"contact_id": record.Id,
	})

	event := events.ContactCreated(record.Id, record.Name, record.Email, record.Phone, record.Program, record.Note, record.SessionId, record.CreatedAt)
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn(logModule, "Failed to publish contact event", map[string]interface{}{
			"contact_id": record.Id,
			"error":      err.Error(),
		})
	}

	return Reply{Text: MessageSaved, Saved: record}
}

func (m *Machine) handleCollect(s *store.Session, message string) Reply {
	if s.Form.FormCompleted() {
		s.Form = store.Collecting()
	}

	// a bare "oui" or "non" is never a name or a program
	var extractions []Extraction
	if kind := parseConfirmation(message).kind; kind != confirmYes && kind != confirmNo {
		extractions = ExtractAll(m.extractors, message, s)
	}

	failed := make(map[store.Field]error)
	for _, e := range extractions {
		value, err := Validate(e.Field, e.Value)
		if err != nil {
			failed[e.Field] = err
			continue
		}
		s.SetValue(e.Field, value)
	}

	if len(extractions) > 0 {
		m.logger.Debug(logModule, "Fields extracted", map[string]interface{}{
			"session_id": s.ID,
			"count":      len(extractions),
			"rejected":   len(failed),
		})
	}

	if len(failed) > 0 {
		for _, f := range errorPriority {
			if err, ok := failed[f]; ok {
				return Reply{Text: errorText(err)}
			}
		}
	}

	missing := s.MissingRequired()
	if len(missing) == 0 {
		s.Form = store.AwaitingConfirmation()
		return Reply{Text: Summary(s)}
	}
	return Reply{Text: missingFieldPrompt(missing[0])}
}

func errorText(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return "Les informations fournies semblent incorrectes. Pouvez-vous réessayer ?"
}

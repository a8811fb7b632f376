package mapper

import (
	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/model"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
)

type ContactMapper struct{}

func NewContactMapper() *ContactMapper {
	return &ContactMapper{}
}

func (m *ContactMapper) ToEntity(c *model.Contact) *entity.ContactRecord {
	if c == nil {
		return nil
	}

	var meta map[string]interface{}
	if len(c.Meta) > 0 {
		_ = json.Unmarshal(c.Meta, &meta)
	}

	return &entity.ContactRecord{
		Id:        c.Id,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Program:   c.Program,
		Note:      c.Note,
		Status:    c.Status,
		Source:    c.Source,
		SessionId: c.SessionId,
		Meta:      meta,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ContactMapper) ToModel(e *entity.ContactRecord) *model.Contact {
	if e == nil {
		return nil
	}

	var meta datatypes.JSON
	if len(e.Meta) > 0 {
		if raw, err := json.Marshal(e.Meta); err == nil {
			meta = datatypes.JSON(raw)
		}
	}

	return &model.Contact{
		Id:        e.Id,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Program:   e.Program,
		Note:      e.Note,
		Status:    e.Status,
		Source:    e.Source,
		SessionId: entity.TruncateSessionId(e.SessionId),
		Meta:      meta,
		CreatedAt: e.CreatedAt,
	}
}

package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocumentChunk is one indexed passage of the knowledge base.
type DocumentChunk struct {
	Id             int64           `gorm:"primaryKey;autoIncrement"`
	Content        string          `gorm:"type:text;not null"`
	Source         string          `gorm:"type:text;index"`
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

type Contact struct {
	Id        int64          `gorm:"primaryKey;autoIncrement"`
	Name      string         `gorm:"type:varchar(100);not null"`
	Email     string         `gorm:"type:varchar(255);not null;index"`
	Phone     string         `gorm:"type:varchar(20);not null"`
	Program   string         `gorm:"type:varchar(255);not null"`
	Note      string         `gorm:"type:text"`
	Status    string         `gorm:"type:varchar(20);not null;default:'new'"`
	Source    string         `gorm:"type:varchar(20);not null"`
	SessionId string         `gorm:"type:varchar(8);index"`
	Meta      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Contact) TableName() string {
	return "contacts"
}

package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Work is a single artwork inside a portfolio. ID is the work title and is
// unique within PortfolioID.
type Work struct {
	PortfolioID  string                                `gorm:"type:varchar(255);primaryKey"`
	ID           string                                `gorm:"type:varchar(255);primaryKey"`
	ImageURL     string                                `gorm:"type:varchar(1000)"`
	ThumbnailURL string                                `gorm:"type:varchar(1000)"`
	Fields       datatypes.JSONType[map[string]string] `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Work) TableName() string { return "works" }

// FieldMap returns the raw stored fields, never nil.
func (w *Work) FieldMap() map[string]string {
	fields := w.Fields.Data()
	if fields == nil {
		return map[string]string{}
	}
	return fields
}

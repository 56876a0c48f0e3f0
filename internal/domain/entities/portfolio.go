package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Portfolio is a named collection of works sharing one descriptive schema.
// ID is the slug of Title and doubles as the storage folder name.
type Portfolio struct {
	ID            string                       `gorm:"type:varchar(255);primaryKey"`
	Title         string                       `gorm:"type:varchar(255);not null"`
	CoverImageURL string                       `gorm:"type:varchar(1000)"`
	Parameters    datatypes.JSONType[[]string] `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Portfolio) TableName() string { return "portfolios" }

// ParameterList returns the declared parameter names, never nil.
func (p *Portfolio) ParameterList() []string {
	params := p.Parameters.Data()
	if params == nil {
		return []string{}
	}
	return params
}

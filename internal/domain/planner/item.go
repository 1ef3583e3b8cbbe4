package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Item is a single dated entry in any zone. Zones share this shape and are
// stored in separate tables selected with Zone.Table.
type Item struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"not null" json:"-"`

	PlanDate datatypes.Date `gorm:"type:date;not null" json:"-"`

	Title     string `gorm:"type:text;not null" json:"title"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	Minutes   int    `gorm:"not null;default:0" json:"minutes,omitempty"`
	Project   string `gorm:"type:text" json:"project,omitempty"`
	SortIndex int    `gorm:"not null;default:0" json:"sort_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Date returns the plan date as a time.Time.
func (i Item) Date() time.Time {
	return time.Time(i.PlanDate)
}

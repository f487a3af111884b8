package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-desk.com/complaint-desk/internal/constants"
)

type Complaint struct {
	ID            string                    `gorm:"primaryKey;size:36" json:"id"`
	Title         string                    `gorm:"size:100;not null" json:"title"`
	Description   string                    `gorm:"type:text;not null" json:"description"`
	Category      constants.Category        `gorm:"type:varchar(20);not null;index" json:"category"`
	Priority      constants.Priority        `gorm:"type:varchar(20);not null;index" json:"priority"`
	CustomerName  string                    `gorm:"not null" json:"customerName"`
	CustomerEmail string                    `gorm:"not null" json:"customerEmail"`
	Assignee      *string                   `gorm:"size:64;index" json:"assignee"`
	Status        constants.ComplaintStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Resolution    string                    `gorm:"type:text" json:"resolution,omitempty"`
	CreatedBy     *string                   `gorm:"size:64" json:"createdBy"`
	DeletedAt     *time.Time                `gorm:"index" json:"deletedAt"`
	CreatedAt     time.Time                 `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = constants.StatusNew
	}
	return nil
}

// IsDeleted reports whether the complaint has been soft-deleted.
func (c *Complaint) IsDeleted() bool {
	return c.DeletedAt != nil
}

// ComplaintTerm is one row of the title/description text index.
type ComplaintTerm struct {
	ComplaintID string `gorm:"primaryKey;size:36"`
	Term        string `gorm:"primaryKey;size:64;index"`
}

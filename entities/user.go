package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar,omitempty"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

// Subscription records that UserID follows AuthorID.
type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_user_author;index" json:"author_id"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Timestamp
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamRole is a user's privilege within one specific team.
type TeamRole string

const (
	TeamRoleAdmin  TeamRole = "ADMIN"
	TeamRoleMember TeamRole = "MEMBER"
)

func (r TeamRole) Valid() bool {
	return r == TeamRoleAdmin || r == TeamRoleMember
}

// Team represents a named collection of members
type Team struct {
	gorm.Model
	Name      string `gorm:"not null;index" json:"name"`
	CreatedBy uint   `gorm:"not null" json:"created_by"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// HasMember reports whether userID is on the loaded member list.
func (t *Team) HasMember(userID uint) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamMember represents team members and their roles. The composite unique
// index makes the at-most-once membership invariant a storage-level
// guarantee; rows are hard-deleted on removal so a user can rejoin.
type TeamMember struct {
	ID     uint     `gorm:"primarykey" json:"-"`
	TeamID uint     `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID uint     `gorm:"not null;uniqueIndex:idx_team_member;index" json:"user_id"`
	Role   TeamRole `gorm:"type:varchar(16);default:'MEMBER'" json:"role"`

	CreatedAt time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}

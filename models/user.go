package models

import (
	"time"

	"gorm.io/gorm"
)

// GlobalRole is a user's system-wide privilege level.
type GlobalRole string

const (
	RoleSuperAdmin GlobalRole = "SUPER_ADMIN"
	RoleTeamAdmin  GlobalRole = "TEAM_ADMIN"
	RoleTeamMember GlobalRole = "TEAM_MEMBER"
)

func (r GlobalRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTeamAdmin, RoleTeamMember:
		return true
	}
	return false
}

// User represents a user account in the system
type User struct {
	gorm.Model

	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	Role         GlobalRole `gorm:"type:varchar(32);default:'TEAM_MEMBER';index" json:"role"`

	// TeamRefs is the denormalized view of the teams this user belongs to.
	// The per-team role lives on the team's member list; TeamRefs carries
	// team ids only and is kept in sync by ResyncUserTeams.
	TeamRefs []UserTeamRef `gorm:"foreignKey:UserID" json:"team_refs,omitempty"`
}

// UserTeamRef is one entry of a user's denormalized team set.
type UserTeamRef struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_team_ref" json:"-"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_user_team_ref" json:"team_id"`
	CreatedAt time.Time `json:"-"`
}

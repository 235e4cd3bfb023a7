package models

import (
	"gorm.io/gorm"
)

// ResyncPlan computes the writes needed to make a user-side team-ref view
// match a team's member list. memberIDs is the set of user ids currently on
// the team; refUserIDs is the set of user ids whose denormalized team set
// currently contains the team. The plan is a pure set diff, so applying it
// and re-planning always yields an empty plan.
func ResyncPlan(memberIDs, refUserIDs []uint) (toAdd, toRemove []uint) {
	members := make(map[uint]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}
	refs := make(map[uint]struct{}, len(refUserIDs))
	for _, id := range refUserIDs {
		refs[id] = struct{}{}
	}

	for _, id := range memberIDs {
		if _, ok := refs[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range refUserIDs {
		if _, ok := members[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// ResyncUserTeams reconciles every user's denormalized team set against the
// given team's member list. It is idempotent and safe to call
// unconditionally after any membership mutation, including team creation
// with a seeded member.
func ResyncUserTeams(db *gorm.DB, teamID uint) error {
	var memberIDs []uint
	if err := db.Model(&TeamMember{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &memberIDs).Error; err != nil {
		return err
	}

	var refUserIDs []uint
	if err := db.Model(&UserTeamRef{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &refUserIDs).Error; err != nil {
		return err
	}

	toAdd, toRemove := ResyncPlan(memberIDs, refUserIDs)

	if len(toRemove) > 0 {
		if err := db.Where("team_id = ? AND user_id IN ?", teamID, toRemove).
			Delete(&UserTeamRef{}).Error; err != nil {
			return err
		}
	}
	for _, userID := range toAdd {
		if err := db.Create(&UserTeamRef{UserID: userID, TeamID: teamID}).Error; err != nil {
			return err
		}
	}
	return nil
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestResyncPlan(t *testing.T) {
	tests := []struct {
		name       string
		memberIDs  []uint
		refUserIDs []uint
		wantAdd    []uint
		wantRemove []uint
	}{
		{
			name:       "in sync",
			memberIDs:  []uint{1, 2, 3},
			refUserIDs: []uint{1, 2, 3},
		},
		{
			name:       "both empty",
			memberIDs:  nil,
			refUserIDs: nil,
		},
		{
			name:       "fresh team with seeded member",
			memberIDs:  []uint{7},
			refUserIDs: nil,
			wantAdd:    []uint{7},
		},
		{
			name:       "member removed",
			memberIDs:  []uint{1},
			refUserIDs: []uint{1, 2},
			wantRemove: []uint{2},
		},
		{
			name:       "drift in both directions",
			memberIDs:  []uint{1, 3},
			refUserIDs: []uint{1, 2},
			wantAdd:    []uint{3},
			wantRemove: []uint{2},
		},
		{
			name:       "everyone stale",
			memberIDs:  nil,
			refUserIDs: []uint{4, 5},
			wantRemove: []uint{4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toRemove := ResyncPlan(tt.memberIDs, tt.refUserIDs)
			assert.ElementsMatch(t, tt.wantAdd, toAdd)
			assert.ElementsMatch(t, tt.wantRemove, toRemove)
		})
	}
}

// Applying a plan and re-planning must yield an empty plan, whatever the
// starting state.
func TestResyncPlanConverges(t *testing.T) {
	memberIDs := []uint{1, 2, 5, 9}
	refUserIDs := []uint{2, 3, 4, 9}

	toAdd, toRemove := ResyncPlan(memberIDs, refUserIDs)

	next := make(map[uint]struct{})
	for _, id := range refUserIDs {
		next[id] = struct{}{}
	}
	for _, id := range toRemove {
		delete(next, id)
	}
	for _, id := range toAdd {
		next[id] = struct{}{}
	}
	converged := make([]uint, 0, len(next))
	for id := range next {
		converged = append(converged, id)
	}

	assert.ElementsMatch(t, memberIDs, converged)

	toAdd, toRemove = ResyncPlan(memberIDs, converged)
	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}

// ResyncUserTeams must repair arbitrary drift in the denormalized team sets
// and then hold steady on repeated runs.
func TestResyncUserTeamsRepairsDrift(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Team{}, &TeamMember{}, &UserTeamRef{}))

	const teamID = 1

	// members 1 and 2; refs have 2 (correct), 3 (stale) and are missing 1
	require.NoError(t, db.Create(&TeamMember{TeamID: teamID, UserID: 1, Role: TeamRoleAdmin}).Error)
	require.NoError(t, db.Create(&TeamMember{TeamID: teamID, UserID: 2, Role: TeamRoleMember}).Error)
	require.NoError(t, db.Create(&UserTeamRef{TeamID: teamID, UserID: 2}).Error)
	require.NoError(t, db.Create(&UserTeamRef{TeamID: teamID, UserID: 3}).Error)

	// a ref for another team must be left alone
	require.NoError(t, db.Create(&UserTeamRef{TeamID: 2, UserID: 3}).Error)

	require.NoError(t, ResyncUserTeams(db, teamID))

	var refUserIDs []uint
	require.NoError(t, db.Model(&UserTeamRef{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &refUserIDs).Error)
	assert.ElementsMatch(t, []uint{1, 2}, refUserIDs)

	var otherTeamRefs int64
	require.NoError(t, db.Model(&UserTeamRef{}).
		Where("team_id = ?", 2).
		Count(&otherTeamRefs).Error)
	assert.EqualValues(t, 1, otherTeamRefs)

	// a second run is a no-op
	require.NoError(t, ResyncUserTeams(db, teamID))
	refUserIDs = nil
	require.NoError(t, db.Model(&UserTeamRef{}).
		Where("team_id = ?", teamID).
		Pluck("user_id", &refUserIDs).Error)
	assert.ElementsMatch(t, []uint{1, 2}, refUserIDs)
}

// Package access holds the pure authorization decisions for every
// team-scoped and task-scoped operation. It never touches storage: callers
// load the relevant team/task snapshots and pass them in, then translate a
// DENY into a transport-level rejection.
package access

import (
	"taskhive/models"
)

// Reason is the fixed enumeration of denial causes.
type Reason string

const (
	ReasonNotTeamMember        Reason = "NOT_TEAM_MEMBER"
	ReasonNotTeamAdmin         Reason = "NOT_TEAM_ADMIN"
	ReasonNotAssigneeOrCreator Reason = "NOT_ASSIGNEE_OR_CREATOR"
	ReasonAssigneeNotInTeam    Reason = "ASSIGNEE_NOT_IN_TEAM"
	ReasonOnlyAdminCanReassign Reason = "ONLY_ADMIN_CAN_REASSIGN"
	ReasonSuperAdminRequired   Reason = "SUPER_ADMIN_REQUIRED"
)

// Principal identifies the acting user.
type Principal struct {
	UserID uint
	Role   models.GlobalRole
}

// Decision is the outcome of an authorization check. The zero value is a
// deny; nothing is allowed by default.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

// TaskChange describes the parts of a task update that matter for
// authorization. SetAssignee distinguishes "assignee field present in the
// request" from "absent": when true with a nil AssigneeID the assignee is
// being cleared, which is still a reassignment.
type TaskChange struct {
	SetAssignee bool
	AssigneeID  *uint
}

func IsSuperAdmin(p Principal) bool {
	return p.Role == models.RoleSuperAdmin
}

// IsTeamAdmin reports whether userID appears on the team's member list with
// the ADMIN role. It deliberately ignores global roles; super admins get
// their implicit admin standing via the teamAdmin composition below.
func IsTeamAdmin(team *models.Team, userID uint) bool {
	if team == nil {
		return false
	}
	for _, m := range team.Members {
		if m.UserID == userID && m.Role == models.TeamRoleAdmin {
			return true
		}
	}
	return false
}

// IsTeamMember reports whether the principal may act as a member of the
// team. A super admin is an implicit member of every team without appearing
// on any member list.
func IsTeamMember(p Principal, team *models.Team) bool {
	if IsSuperAdmin(p) {
		return true
	}
	return onMemberList(team, p.UserID)
}

func onMemberList(team *models.Team, userID uint) bool {
	return team != nil && team.HasMember(userID)
}

func teamAdmin(p Principal, team *models.Team) bool {
	return IsSuperAdmin(p) || IsTeamAdmin(team, p.UserID)
}

// CanCreateTeam allows only super admins.
func CanCreateTeam(p Principal) Decision {
	if !IsSuperAdmin(p) {
		return deny(ReasonSuperAdminRequired)
	}
	return allow()
}

// CanManageUsers gates user creation, listing and editing.
func CanManageUsers(p Principal) Decision {
	if !IsSuperAdmin(p) {
		return deny(ReasonSuperAdminRequired)
	}
	return allow()
}

// CanViewTeam gates viewing a team, listing its tasks and its dashboard
// summary.
func CanViewTeam(p Principal, team *models.Team) Decision {
	if !IsTeamMember(p, team) {
		return deny(ReasonNotTeamMember)
	}
	return allow()
}

// CanManageMembers gates add/remove/role-change of members and listing
// candidate users.
func CanManageMembers(p Principal, team *models.Team) Decision {
	if !teamAdmin(p, team) {
		return deny(ReasonNotTeamAdmin)
	}
	return allow()
}

// CanCreateTask allows any team member; a requested assignee must be on the
// team's member list.
func CanCreateTask(p Principal, team *models.Team, assigneeID *uint) Decision {
	if !IsTeamMember(p, team) {
		return deny(ReasonNotTeamMember)
	}
	if assigneeID != nil && !onMemberList(team, *assigneeID) {
		return deny(ReasonAssigneeNotInTeam)
	}
	return allow()
}

// CanViewTask allows any member of the task's team.
func CanViewTask(p Principal, team *models.Team) Decision {
	if !IsTeamMember(p, team) {
		return deny(ReasonNotTeamMember)
	}
	return allow()
}

// CanUpdateTask allows a team admin, the task's creator or its current
// assignee. Changing the assignee additionally requires the admin standing,
// and any new assignee must be on the team's member list.
func CanUpdateTask(p Principal, team *models.Team, task *models.Task, change TaskChange) Decision {
	admin := teamAdmin(p, team)
	creator := task != nil && task.CreatedBy == p.UserID
	assignee := task != nil && task.AssigneeID != nil && *task.AssigneeID == p.UserID

	if !admin && !creator && !assignee {
		return deny(ReasonNotAssigneeOrCreator)
	}
	if change.SetAssignee {
		if !admin {
			return deny(ReasonOnlyAdminCanReassign)
		}
		if change.AssigneeID != nil && !onMemberList(team, *change.AssigneeID) {
			return deny(ReasonAssigneeNotInTeam)
		}
	}
	return allow()
}

// CanDeleteTask gates the soft delete; team admins only.
func CanDeleteTask(p Principal, team *models.Team) Decision {
	if !teamAdmin(p, team) {
		return deny(ReasonNotTeamAdmin)
	}
	return allow()
}

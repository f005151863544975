package services

import (
	"testing"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestCreateTeamEnrollsLead(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")

	team := e.team(u, "Eng")

	if team.TeamLeadID != u.UserID {
		t.Errorf("expected lead %s, got %s", u.UserID, team.TeamLeadID)
	}
	if !team.IsActive {
		t.Error("expected new team to be active")
	}
	if len(team.Members) != 1 || team.Members[0].ID != u.UserID {
		t.Errorf("expected lead as only member, got %+v", team.Members)
	}
}

func TestTeamVisibleOnlyToMembers(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	m := e.actor("m")
	v := e.actor("v")
	root := e.superuser("root")
	team := e.team(u, "Eng", m)

	for _, actor := range []entities.Actor{u, m} {
		if _, err := e.teams.GetTeam(e.ctx, actor, team.ID); err != nil {
			t.Errorf("%s: expected team to be visible, got %v", actor.Username, err)
		}
	}

	for _, actor := range []entities.Actor{v, root} {
		_, err := e.teams.GetTeam(e.ctx, actor, team.ID)
		expectKind(t, err, entities.ErrNotFound)

		teams, total, err := e.teams.ListTeams(e.ctx, actor, ports.TeamFilter{})
		if err != nil {
			t.Fatalf("list teams: %v", err)
		}
		if total != 0 || len(teams) != 0 {
			t.Errorf("%s: expected no visible teams, got %d", actor.Username, total)
		}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	v := e.actor("v")
	team := e.team(u, "Eng")

	first, err := e.teams.Join(e.ctx, v, team.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !first.Joined || first.Detail != "Successfully joined the team" {
		t.Errorf("unexpected first join result %+v", first)
	}

	second, err := e.teams.Join(e.ctx, v, team.ID)
	if err != nil {
		t.Fatalf("join again: %v", err)
	}
	if second.Joined || second.Detail != "You are already a member of this team" {
		t.Errorf("unexpected second join result %+v", second)
	}

	got, err := e.teams.GetTeam(e.ctx, u, team.ID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if got.MemberCount != 2 {
		t.Errorf("expected 2 members, got %d", got.MemberCount)
	}
}

func TestInviteAndJoinRequireActiveTeam(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	v := e.actor("v")
	team := e.team(u, "Eng")

	preview, err := e.teams.Invite(e.ctx, v, team.ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if preview.IsMember || preview.Name != "Eng" || preview.MemberCount != 1 {
		t.Errorf("unexpected preview %+v", preview)
	}

	if _, err := e.teams.UpdateTeam(e.ctx, u, team.ID, ports.UpdateTeamRequest{IsActive: ptr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = e.teams.Invite(e.ctx, v, team.ID)
	expectKind(t, err, entities.ErrNotFound)
	_, err = e.teams.Join(e.ctx, v, team.ID)
	expectKind(t, err, entities.ErrNotFound)
}

func TestTeamMutationsRequireLead(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	m := e.actor("m")
	x := e.actor("x")
	team := e.team(u, "Eng", m)

	_, err := e.teams.UpdateTeam(e.ctx, m, team.ID, ports.UpdateTeamRequest{Name: ptr("Ops")})
	expectKind(t, err, entities.ErrPermissionDenied)

	_, err = e.teams.AddMember(e.ctx, m, team.ID, x.UserID)
	expectKind(t, err, entities.ErrPermissionDenied)

	err = e.teams.DeleteTeam(e.ctx, m, team.ID)
	expectKind(t, err, entities.ErrPermissionDenied)

	updated, err := e.teams.AddMember(e.ctx, u, team.ID, x.UserID)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if updated.MemberCount != 3 {
		t.Errorf("expected 3 members, got %d", updated.MemberCount)
	}
}

func TestSuperuserMutatesWithoutVisibility(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	root := e.superuser("root")
	team := e.team(u, "Eng")

	updated, err := e.teams.UpdateTeam(e.ctx, root, team.ID, ports.UpdateTeamRequest{Name: ptr("Platform")})
	if err != nil {
		t.Fatalf("superuser update: %v", err)
	}
	if updated.Name != "Platform" {
		t.Errorf("expected renamed team, got %q", updated.Name)
	}
}

func TestLeadCannotLeave(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	m := e.actor("m")
	team := e.team(u, "Eng", m)

	expectKind(t, e.teams.Leave(e.ctx, u, team.ID), entities.ErrValidation)

	_, err := e.teams.RemoveMember(e.ctx, u, team.ID, u.UserID)
	expectKind(t, err, entities.ErrValidation)

	if err := e.teams.Leave(e.ctx, m, team.ID); err != nil {
		t.Fatalf("member leave: %v", err)
	}
	_, err = e.teams.GetTeam(e.ctx, m, team.ID)
	expectKind(t, err, entities.ErrNotFound)

	_, err = e.teams.RemoveMember(e.ctx, u, team.ID, m.UserID)
	expectKind(t, err, entities.ErrNotFound)
}

func TestLeadHandover(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	w := e.actor("w")
	team := e.team(u, "Eng")

	updated, err := e.teams.UpdateTeam(e.ctx, u, team.ID, ports.UpdateTeamRequest{TeamLeadID: &w.UserID})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if updated.TeamLeadID != w.UserID {
		t.Errorf("expected new lead %s, got %s", w.UserID, updated.TeamLeadID)
	}

	// the new lead is visible to the team and the old lead may now leave
	if _, err := e.teams.GetTeam(e.ctx, w, team.ID); err != nil {
		t.Errorf("new lead should see the team: %v", err)
	}
	if err := e.teams.Leave(e.ctx, u, team.ID); err != nil {
		t.Errorf("old lead leave: %v", err)
	}
}

func TestTeamTasksHiddenFromOutsiders(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	v := e.actor("v")
	team := e.team(u, "Eng")
	e.task(u, team, "Write docs")

	tasks, total, err := e.teams.TeamTasks(e.ctx, u, team.ID, ports.TaskFilter{})
	if err != nil {
		t.Fatalf("team tasks: %v", err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", total)
	}

	_, _, err = e.teams.TeamTasks(e.ctx, v, team.ID, ports.TaskFilter{})
	expectKind(t, err, entities.ErrNotFound)
	_, _, err = e.teams.TeamProjects(e.ctx, v, team.ID, ports.ProjectFilter{})
	expectKind(t, err, entities.ErrNotFound)
}

package repository

import (
	"errors"
	"testing"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestTeamCreateEnrollsLead(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	team := f.team("Eng", lead)

	got, err := f.teams.GetByID(f.ctx, team.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.TeamLeadUsername != "lead" {
		t.Errorf("TeamLeadUsername = %q, want lead", got.TeamLeadUsername)
	}
	if got.MemberCount != 1 {
		t.Errorf("MemberCount = %d, want 1", got.MemberCount)
	}

	members, err := f.teams.ListMembers(f.ctx, team.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 1 || members[0].ID != lead.ID {
		t.Errorf("ListMembers() = %+v, want only the lead", members)
	}
}

func TestTeamIsMemberCountsLeadWithoutRow(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	other := f.user("other")
	team := f.team("Eng", lead)

	// drop the lead's membership row; lead status alone must still count
	if _, err := f.teams.RemoveMember(f.ctx, team.ID, lead.ID); err != nil {
		t.Fatalf("RemoveMember() error = %v", err)
	}

	ok, err := f.teams.IsMember(f.ctx, team.ID, lead.ID)
	if err != nil || !ok {
		t.Fatalf("IsMember(lead) = %v, %v; want true", ok, err)
	}
	ok, err = f.teams.IsMember(f.ctx, team.ID, other.ID)
	if err != nil || ok {
		t.Fatalf("IsMember(other) = %v, %v; want false", ok, err)
	}
}

func TestTeamAddMemberIsIdempotent(t *testing.T) {
	f := newFixture(t)
	lead := f.user("lead")
	member := f.user("member")
	team := f.team("Eng", lead)

	added, err := f.teams.AddMember(f.ctx, team.ID, member.ID)
	if err != nil || !added {
		t.Fatalf("first AddMember() = %v, %v; want true", added, err)
	}
	added, err = f.teams.AddMember(f.ctx, team.ID, member.ID)
	if err != nil || added {
		t.Fatalf("second AddMember() = %v, %v; want false, nil", added, err)
	}

	got, _ := f.teams.GetByID(f.ctx, team.ID)
	if got.MemberCount != 2 {
		t.Errorf("MemberCount = %d, want 2", got.MemberCount)
	}
}

func TestTeamListVisibility(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	v := f.user("v")
	w := f.user("w")

	eng := f.team("Eng", u)
	ops := f.team("Ops", v)
	f.team("Sales", w)
	if _, err := f.teams.AddMember(f.ctx, ops.ID, u.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	teams, total, err := f.teams.List(f.ctx, ports.TeamFilter{VisibleTo: u.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(teams) != 2 {
		t.Fatalf("List() returned %d/%d teams, want 2", len(teams), total)
	}
	if teams[0].ID != eng.ID || teams[1].ID != ops.ID {
		t.Errorf("List() order = %q, %q; want Eng, Ops", teams[0].Name, teams[1].Name)
	}

	teams, _, err = f.teams.List(f.ctx, ports.TeamFilter{
		VisibleTo:  u.ID,
		TeamLeadID: &v.ID,
	})
	if err != nil {
		t.Fatalf("List(team_lead) error = %v", err)
	}
	if len(teams) != 1 || teams[0].ID != ops.ID {
		t.Errorf("List(team_lead=v) = %v, want Ops", teams)
	}
}

func TestTeamListSearchAndPaging(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	f.team("Alpha", u)
	f.team("Beta 100%", u)
	f.team("Gamma", u)

	teams, total, err := f.teams.List(f.ctx, ports.TeamFilter{
		VisibleTo:  u.ID,
		ListParams: ports.ListParams{Search: "100%"},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || teams[0].Name != "Beta 100%" {
		t.Errorf("search for a literal %% matched %d teams", total)
	}

	teams, total, err = f.teams.List(f.ctx, ports.TeamFilter{
		VisibleTo:  u.ID,
		ListParams: ports.ListParams{Ordering: "-name", Limit: 2, Offset: 1},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 || len(teams) != 2 {
		t.Fatalf("page = %d of %d, want 2 of 3", len(teams), total)
	}
	if teams[0].Name != "Beta 100%" || teams[1].Name != "Alpha" {
		t.Errorf("page = %q, %q", teams[0].Name, teams[1].Name)
	}
}

func TestTeamDeleteCascades(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	team := f.team("Eng", u)
	task := f.task("Write docs", team)
	project := f.project("Launch", team)

	if err := f.teams.Delete(f.ctx, team.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := f.tasks.GetByID(f.ctx, task.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("task after team delete: err = %v, want not found", err)
	}
	if _, err := f.projects.GetByID(f.ctx, project.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("project after team delete: err = %v, want not found", err)
	}
	if err := f.teams.Delete(f.ctx, team.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("second Delete() = %v, want not found", err)
	}
}

func TestTeamUpdateEnrollsNewLead(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	v := f.user("v")
	team := f.team("Eng", u)

	team.TeamLeadID = v.ID
	team.UpdatedAt = f.now()
	if err := f.teams.Update(f.ctx, team); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := f.teams.GetByID(f.ctx, team.ID)
	if got.TeamLeadID != v.ID || got.MemberCount != 2 {
		t.Errorf("after lead change: lead=%v members=%d", got.TeamLeadID, got.MemberCount)
	}
}

package domain

import (
	"errors"
	"testing"
)

func TestDecide_HappyPath(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		action  Action
		current Status
		want    Status
	}{
		{"director hands over new case", RoleDirector, ActionHandOver, StatusNew, StatusInProgress},
		{"director rejects new case", RoleDirector, ActionBoardReject, StatusNew, StatusBoardRejected},
		{"credit admin accepts", RoleCreditAdmin, ActionAccept, StatusInProgress, StatusReceived},
		{"credit admin rejects in progress", RoleCreditAdmin, ActionCreditReject, StatusInProgress, StatusCreditRejected},
		{"credit admin rejects received", RoleCreditAdmin, ActionCreditReject, StatusReceived, StatusCreditRejected},
		{"credit admin returns", RoleCreditAdmin, ActionReturn, StatusReceived, StatusReturned},
		{"manager confirms documents", RoleManager, ActionConfirmDocuments, StatusReturned, StatusCompleted},
		{"manager declines documents", RoleManager, ActionDeclineDocuments, StatusReturned, StatusReturned},
		{"admin may perform any action", RoleAdmin, ActionHandOver, StatusNew, StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(tt.role, tt.action, tt.current)
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decide() = %q, want %q", got, tt.want)
			}
			if !ValidStatus(got) {
				t.Errorf("Decide() produced undefined status %q", got)
			}
		})
	}
}

func TestDecide_WrongState(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		role    Role
		current Status
	}{
		{"hand over already in progress", ActionHandOver, RoleDirector, StatusInProgress},
		{"accept before handover", ActionAccept, RoleCreditAdmin, StatusNew},
		{"return before acceptance", ActionReturn, RoleCreditAdmin, StatusInProgress},
		{"confirm documents before return", ActionConfirmDocuments, RoleManager, StatusReceived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decide(tt.role, tt.action, tt.current)
			var te *TransitionError
			if !errors.As(err, &te) {
				t.Fatalf("Decide() error = %v, want *TransitionError", err)
			}
			if te.Actual != tt.current {
				t.Errorf("TransitionError.Actual = %q, want %q", te.Actual, tt.current)
			}
			if len(te.Required) == 0 {
				t.Errorf("TransitionError.Required is empty, want required states")
			}
		})
	}
}

func TestDecide_TerminalStatesAcceptNothing(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusBoardRejected, StatusCreditRejected}
	actions := []Action{
		ActionHandOver, ActionBoardReject, ActionAccept,
		ActionCreditReject, ActionReturn, ActionConfirmDocuments, ActionDeclineDocuments,
	}

	for _, s := range terminal {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%q) = false, want true", s)
		}
		for _, a := range actions {
			if _, err := Decide(RoleAdmin, a, s); err == nil {
				t.Errorf("Decide(admin, %q, %q) succeeded, terminal state must reject every action", a, s)
			}
		}
	}
}

func TestDecide_WrongRole(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		state  Status
	}{
		{RoleManager, ActionHandOver, StatusNew},
		{RoleDirector, ActionAccept, StatusInProgress},
		{RoleCreditAdmin, ActionConfirmDocuments, StatusReturned},
	}

	for _, tt := range tests {
		_, err := Decide(tt.role, tt.action, tt.state)
		var re *RoleError
		if !errors.As(err, &re) {
			t.Fatalf("Decide(%q, %q) error = %v, want *RoleError", tt.role, tt.action, err)
		}
		if re.Role != tt.role {
			t.Errorf("RoleError.Role = %q, want %q", re.Role, tt.role)
		}
	}
}

func TestDecide_UnknownAction(t *testing.T) {
	if _, err := Decide(RoleAdmin, Action("archive"), StatusNew); err == nil {
		t.Fatal("Decide() accepted an unknown action")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleManager, RoleDirector, RoleCreditAdmin, RoleAdmin} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	if ValidRole("auditor") {
		t.Error("ValidRole accepted an unknown role")
	}
}

package domain

// Role represents a user role in the system
type Role string

const (
	RoleManager     Role = "relationship-manager"
	RoleDirector    Role = "director"
	RoleCreditAdmin Role = "credit-admin"
	RoleAdmin       Role = "admin"
)

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	switch r {
	case RoleManager, RoleDirector, RoleCreditAdmin, RoleAdmin:
		return true
	}
	return false
}

// Status represents the lifecycle state of a case file
type Status string

const (
	StatusNew            Status = "new"
	StatusInProgress     Status = "in-progress"
	StatusReceived       Status = "received"
	StatusReturned       Status = "returned"
	StatusCompleted      Status = "completed"
	StatusBoardRejected  Status = "board-rejected"
	StatusCreditRejected Status = "credit-rejected"
)

// ValidStatus reports whether s is a known status
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReceived, StatusReturned,
		StatusCompleted, StatusBoardRejected, StatusCreditRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is defined out of s
func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusBoardRejected, StatusCreditRejected:
		return true
	}
	return false
}

// Action represents a business action requested against a case file
type Action string

const (
	ActionHandOver         Action = "hand-over"
	ActionBoardReject      Action = "board-reject"
	ActionAccept           Action = "accept"
	ActionCreditReject     Action = "credit-reject"
	ActionReturn           Action = "return"
	ActionConfirmDocuments Action = "confirm-documents"
	ActionDeclineDocuments Action = "decline-documents"
)

// actionRoles maps each action to the role allowed to perform it.
// ADMIN bypasses this table (checked in Decide).
var actionRoles = map[Action]Role{
	ActionHandOver:         RoleDirector,
	ActionBoardReject:      RoleDirector,
	ActionAccept:           RoleCreditAdmin,
	ActionCreditReject:     RoleCreditAdmin,
	ActionReturn:           RoleCreditAdmin,
	ActionConfirmDocuments: RoleManager,
	ActionDeclineDocuments: RoleManager,
}

type transitionKey struct {
	action  Action
	current Status
}

// transitions is the closed transition table. Built once, never mutated.
// Decline-documents keeps the case in the returned state; only the
// document-receipt record changes.
var transitions = map[transitionKey]Status{
	{ActionHandOver, StatusNew}:              StatusInProgress,
	{ActionBoardReject, StatusNew}:           StatusBoardRejected,
	{ActionAccept, StatusInProgress}:         StatusReceived,
	{ActionCreditReject, StatusInProgress}:   StatusCreditRejected,
	{ActionCreditReject, StatusReceived}:     StatusCreditRejected,
	{ActionReturn, StatusReceived}:           StatusReturned,
	{ActionConfirmDocuments, StatusReturned}: StatusCompleted,
	{ActionDeclineDocuments, StatusReturned}: StatusReturned,
}

// requiredStates lists the states an action may be requested from,
// used to build diagnosable precondition errors.
func requiredStates(action Action) []Status {
	var states []Status
	for key := range transitions {
		if key.action == action {
			states = append(states, key.current)
		}
	}
	return states
}

// Decide validates one requested transition. It never mutates anything:
// callers apply the returned next status themselves.
func Decide(role Role, action Action, current Status) (Status, error) {
	allowed, ok := actionRoles[action]
	if !ok {
		return "", &TransitionError{Action: action, Actual: current}
	}
	if role != allowed && role != RoleAdmin {
		return "", &RoleError{Action: action, Role: role, Required: allowed}
	}
	next, ok := transitions[transitionKey{action, current}]
	if !ok {
		return "", &TransitionError{
			Action:   action,
			Actual:   current,
			Required: requiredStates(action),
		}
	}
	return next, nil
}

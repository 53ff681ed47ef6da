package domain

// EventType identifies one kind of case-file transition event
type EventType string

const (
	EventCaseCreated            EventType = "case_created"
	EventCaseEdited             EventType = "case_edited"
	EventCaseDeleted            EventType = "case_deleted"
	EventCaseHandedOver         EventType = "case_handed_over"
	EventCaseBoardRejected      EventType = "case_board_rejected"
	EventCaseCreditRejected     EventType = "case_credit_rejected"
	EventCaseAccepted           EventType = "case_accepted"
	EventCaseReturned           EventType = "case_returned"
	EventCaseDocumentsConfirmed EventType = "case_documents_confirmed"
	EventCaseCompleted          EventType = "case_completed"
)

// Event is the ephemeral record of one state change. It carries a
// denormalized snapshot of the fields notification text needs, so the
// dispatcher never has to reload the case file.
type Event struct {
	Type         EventType
	CaseID       string
	AccountNo    string
	CustomerName string
	Actor        string
	Reason       string
}

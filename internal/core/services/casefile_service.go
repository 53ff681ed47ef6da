package services

import (
	"context"
	"strings"
	"time"

	"caseflow/internal/adapters/persistence/models"
	"caseflow/internal/adapters/persistence/repositories"
	"caseflow/internal/core/domain"

	"github.com/google/uuid"
)

// CaseFileService orchestrates case-file business actions: it validates the
// transition, persists the result and emits the transition event. Events are
// emitted strictly after a successful write; a delivery failure never fails
// the business call.
type CaseFileService struct {
	repo   repositories.CaseFileRepository
	events EventSink
}

// NewCaseFileService creates a new case-file service
func NewCaseFileService(repo repositories.CaseFileRepository, events EventSink) *CaseFileService {
	return &CaseFileService{
		repo:   repo,
		events: events,
	}
}

// CreateCaseFileInput represents create input
type CreateCaseFileInput struct {
	AccountNo    string           `json:"account_no"`
	CIF          string           `json:"cif,omitempty"`
	CustomerName string           `json:"customer_name"`
	Amount       *float64         `json:"amount,omitempty"`
	Currency     string           `json:"currency,omitempty"`
	DisbursedAt  *time.Time       `json:"disbursed_at,omitempty"`
	Department   string           `json:"department,omitempty"`
	Manager      string           `json:"manager,omitempty"`
	ContractNo   string           `json:"contract_no,omitempty"`
	Note         string           `json:"note,omitempty"`
	Checklist    models.Checklist `json:"checklist"`
}

func (in *CreateCaseFileInput) validate() error {
	if strings.TrimSpace(in.AccountNo) == "" {
		return domain.NewValidationError("account_no", "account reference is required")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return domain.NewValidationError("customer_name", "customer name is required")
	}
	if in.Amount != nil && *in.Amount < 0 {
		return domain.NewValidationError("amount", "disbursed amount must not be negative")
	}
	return nil
}

// Create creates a new case file in state new and emits a created event
func (s *CaseFileService) Create(ctx context.Context, input *CreateCaseFileInput, actor string) (*models.CaseFile, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	cf := &models.CaseFile{
		ID:           uuid.New().String(),
		AccountNo:    strings.TrimSpace(input.AccountNo),
		CIF:          input.CIF,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Amount:       input.Amount,
		Currency:     input.Currency,
		DisbursedAt:  input.DisbursedAt,
		Department:   input.Department,
		Manager:      input.Manager,
		ContractNo:   input.ContractNo,
		Note:         input.Note,
		Checklist:    input.Checklist,
		Status:       string(domain.StatusNew),
		CreatedBy:    actor,
		UpdatedBy:    actor,
	}

	if err := s.repo.Create(ctx, cf); err != nil {
		return nil, err
	}

	s.emit(domain.EventCaseCreated, cf, actor, "")
	return cf, nil
}

// GetByID gets a case file by ID
func (s *CaseFileService) GetByID(ctx context.Context, id string) (*models.CaseFile, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateCaseFileInput represents editable descriptive fields. Status-bearing
// fields are never edited here; those change only through transitions.
type UpdateCaseFileInput struct {
	AccountNo    *string           `json:"account_no,omitempty"`
	CIF          *string           `json:"cif,omitempty"`
	CustomerName *string           `json:"customer_name,omitempty"`
	Amount       *float64          `json:"amount,omitempty"`
	Currency     *string           `json:"currency,omitempty"`
	DisbursedAt  *time.Time        `json:"disbursed_at,omitempty"`
	Department   *string           `json:"department,omitempty"`
	Manager      *string           `json:"manager,omitempty"`
	ContractNo   *string           `json:"contract_no,omitempty"`
	Note         *string           `json:"note,omitempty"`
	Checklist    *models.Checklist `json:"checklist,omitempty"`
}

// Update edits descriptive fields of a case file and emits an edited event
func (s *CaseFileService) Update(ctx context.Context, id string, input *UpdateCaseFileInput, actor string) (*models.CaseFile, error) {
	cf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.AccountNo != nil {
		if strings.TrimSpace(*input.AccountNo) == "" {
			return nil, domain.NewValidationError("account_no", "account reference is required")
		}
		cf.AccountNo = strings.TrimSpace(*input.AccountNo)
	}
	if input.CustomerName != nil {
		if strings.TrimSpace(*input.CustomerName) == "" {
			return nil, domain.NewValidationError("customer_name", "customer name is required")
		}
		cf.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return nil, domain.NewValidationError("amount", "disbursed amount must not be negative")
		}
		cf.Amount = input.Amount
	}
	if input.CIF != nil {
		cf.CIF = *input.CIF
	}
	if input.Currency != nil {
		cf.Currency = *input.Currency
	}
	if input.DisbursedAt != nil {
		cf.DisbursedAt = input.DisbursedAt
	}
	if input.Department != nil {
		cf.Department = *input.Department
	}
	if input.Manager != nil {
		cf.Manager = *input.Manager
	}
	if input.ContractNo != nil {
		cf.ContractNo = *input.ContractNo
	}
	if input.Note != nil {
		cf.Note = *input.Note
	}
	if input.Checklist != nil {
		cf.Checklist = *input.Checklist
	}
	cf.UpdatedBy = actor

	if err := s.repo.Update(ctx, cf); err != nil {
		return nil, err
	}

	s.emit(domain.EventCaseEdited, cf, actor, "")
	return cf, nil
}

// Delete removes a case file and emits a deleted event
func (s *CaseFileService) Delete(ctx context.Context, id string, actor string) error {
	cf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(domain.EventCaseDeleted, cf, actor, "")
	return nil
}

// ListInput represents list input
type ListInput struct {
	Page   int
	Limit  int
	Filter repositories.CaseFileFilter
}

// ListOutput represents list output. Pagination metadata is rendered at the
// handler layer.
type ListOutput struct {
	CaseFiles []*models.CaseFileResponse `json:"case_files"`
	Total     int64                      `json:"total"`
}

// List lists case files matching the filter
func (s *CaseFileService) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	files, total, err := s.repo.List(ctx, &input.Filter, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]*models.CaseFileResponse, 0, len(files))
	for _, cf := range files {
		out = append(out, cf.ToResponse())
	}

	return &ListOutput{
		CaseFiles: out,
		Total:     total,
	}, nil
}

// ListPendingReceipt lists handed-over case files awaiting acceptance
func (s *CaseFileService) ListPendingReceipt(ctx context.Context) ([]*models.CaseFile, error) {
	return s.repo.ListPendingReceipt(ctx)
}

// Stats returns dashboard counters
func (s *CaseFileService) Stats(ctx context.Context) (*repositories.CaseFileStats, error) {
	return s.repo.Stats(ctx)
}

// ============================================================
// Transition executor
// ============================================================

// transition runs one business action end to end: load, validate against the
// state machine, apply the action record, persist with the version guard and
// emit the event. Any error before the save leaves the case file untouched.
func (s *CaseFileService) transition(
	ctx context.Context,
	id string,
	role domain.Role,
	action domain.Action,
	actor string,
	apply func(cf *models.CaseFile, now time.Time),
	eventType domain.EventType,
	reason string,
) (*models.CaseFile, error) {
	cf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := domain.Decide(role, action, domain.Status(cf.Status))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cf.Status = string(next)
	cf.UpdatedBy = actor
	apply(cf, now)

	if err := s.repo.Update(ctx, cf); err != nil {
		return nil, err
	}

	if eventType != "" {
		s.emit(eventType, cf, actor, reason)
	}
	return cf, nil
}

// HandOver moves a new case file to in-progress (director → credit admin)
func (s *CaseFileService) HandOver(ctx context.Context, id string, role domain.Role, actor, note string) (*models.CaseFile, error) {
	return s.transition(ctx, id, role, domain.ActionHandOver, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.Handover = models.ActionRecord{By: actor, At: &now, Note: note}
		},
		domain.EventCaseHandedOver, "")
}

// RejectByBoard rejects a new case file outright
func (s *CaseFileService) RejectByBoard(ctx context.Context, id string, role domain.Role, actor, reason string) (*models.CaseFile, error) {
	return s.transition(ctx, id, role, domain.ActionBoardReject, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.BoardRejection = models.RejectionRecord{By: actor, Reason: reason, At: &now}
		},
		domain.EventCaseBoardRejected, reason)
}

// Accept confirms credit administration received the handed-over case file
func (s *CaseFileService) Accept(ctx context.Context, id string, role domain.Role, actor, note string) (*models.CaseFile, error) {
	return s.transition(ctx, id, role, domain.ActionAccept, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.Receipt = models.ActionRecord{By: actor, At: &now, Note: note}
		},
		domain.EventCaseAccepted, "")
}

// RejectByCreditAdmin rejects an in-flight case file
func (s *CaseFileService) RejectByCreditAdmin(ctx context.Context, id string, role domain.Role, actor, reason string) (*models.CaseFile, error) {
	return s.transition(ctx, id, role, domain.ActionCreditReject, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.CreditRejection = models.RejectionRecord{By: actor, Reason: reason, At: &now}
		},
		domain.EventCaseCreditRejected, reason)
}

// Return hands the physical documents back to the relationship manager
func (s *CaseFileService) Return(ctx context.Context, id string, role domain.Role, actor, note string) (*models.CaseFile, error) {
	return s.transition(ctx, id, role, domain.ActionReturn, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.Return = models.ActionRecord{By: actor, At: &now, Note: note}
		},
		domain.EventCaseReturned, "")
}

// ConfirmDocuments confirms receipt of returned documents and completes the
// case file. Emits both the documents-confirmed and the completed events;
// together they reach all three roles.
func (s *CaseFileService) ConfirmDocuments(ctx context.Context, id string, role domain.Role, actor, note string) (*models.CaseFile, error) {
	cf, err := s.transition(ctx, id, role, domain.ActionConfirmDocuments, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.DocReceipt = models.ActionRecord{By: actor, At: &now, Note: note}
		},
		domain.EventCaseDocumentsConfirmed, "")
	if err != nil {
		return nil, err
	}
	s.emit(domain.EventCaseCompleted, cf, actor, "")
	return cf, nil
}

// DeclineDocuments records that the relationship manager refused the returned
// documents. The state stays returned and no notification goes out.
func (s *CaseFileService) DeclineDocuments(ctx context.Context, id string, role domain.Role, actor, note string) (*models.CaseFile, error) {
	return s.transition(ctx, id, role, domain.ActionDeclineDocuments, actor,
		func(cf *models.CaseFile, now time.Time) {
			cf.DocReceipt = models.ActionRecord{By: actor, At: &now, Note: note}
		},
		"", "")
}

// emit publishes a transition event carrying the denormalized snapshot
func (s *CaseFileService) emit(t domain.EventType, cf *models.CaseFile, actor, reason string) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.Event{
		Type:         t,
		CaseID:       cf.ID,
		AccountNo:    cf.AccountNo,
		CustomerName: cf.CustomerName,
		Actor:        actor,
		Reason:       reason,
	})
}

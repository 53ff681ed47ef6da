package handlers

import (
	"errors"
	"strings"
	"time"

	"caseflow/internal/adapters/persistence/repositories"
	"caseflow/internal/core/domain"
	"caseflow/internal/core/services"
	"caseflow/internal/pkg/pagination"
	"caseflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CaseFileHandler handles disbursement case-file endpoints
type CaseFileHandler struct {
	caseFileService *services.CaseFileService
}

// NewCaseFileHandler creates a new case-file handler
func NewCaseFileHandler(caseFileService *services.CaseFileService) *CaseFileHandler {
	return &CaseFileHandler{
		caseFileService: caseFileService,
	}
}

// ActionRequest carries the optional note attached to a transition
type ActionRequest struct {
	Note string `json:"note"`
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason"`
}

// actor returns the authenticated username from the request context
func actor(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}

// actorRole returns the authenticated role from the request context
func actorRole(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals("role").(string)
	return domain.Role(role)
}

// List handles case-file listing with filters
// @Summary List case files
// @Description List case files with filtering and pagination
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Param search query string false "Search in account no, customer name and CIF"
// @Success 200 {object} response.Response
// @Router /cases [get]
func (h *CaseFileHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListInput{
		Page:  params.Page,
		Limit: params.Limit,
		Filter: repositories.CaseFileFilter{
			Status:       c.Query("status"),
			AccountNo:    c.Query("account_no"),
			CustomerName: c.Query("customer_name"),
			Manager:      c.Query("manager"),
			Department:   c.Query("department"),
			Search:       c.Query("search"),
		},
	}

	if input.Filter.Status != "" && !domain.ValidStatus(domain.Status(input.Filter.Status)) {
		return response.BadRequest(c, "Unknown status filter")
	}

	if from := c.Query("disbursed_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return response.BadRequest(c, "Invalid disbursed_from date (expected YYYY-MM-DD)")
		}
		input.Filter.DisbursedFrom = &t
	}
	if to := c.Query("disbursed_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return response.BadRequest(c, "Invalid disbursed_to date (expected YYYY-MM-DD)")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		input.Filter.DisbursedTo = &end
	}

	result, err := h.caseFileService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list case files")
	}

	return response.Success(c, "Case files retrieved", fiber.Map{
		"case_files": result.CaseFiles,
		"meta":       pagination.GetMeta(params, result.Total),
	})
}

// Create handles case-file creation
// @Summary Create case file
// @Description Create a new disbursement case file
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCaseFileInput true "Case file data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /cases [post]
func (h *CaseFileHandler) Create(c *fiber.Ctx) error {
	var input services.CreateCaseFileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cf, err := h.caseFileService.Create(c.Context(), &input, actor(c))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return response.BadRequest(c, verr.Error())
		}
		return response.InternalServerError(c, "Failed to create case file")
	}

	return response.Created(c, "Case file created", cf.ToResponse())
}

// GetByID handles single case-file retrieval
// @Summary Get case file
// @Description Get one case file by ID
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cases/{id} [get]
func (h *CaseFileHandler) GetByID(c *fiber.Ctx) error {
	cf, err := h.caseFileService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Case file not found")
		}
		return response.InternalServerError(c, "Failed to get case file")
	}

	return response.Success(c, "Case file retrieved", cf.ToResponse())
}

// Update handles descriptive-field edits
// @Summary Update case file
// @Description Update descriptive fields of a case file
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Param body body services.UpdateCaseFileInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cases/{id} [put]
func (h *CaseFileHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateCaseFileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cf, err := h.caseFileService.Update(c.Context(), c.Params("id"), &input, actor(c))
	if err != nil {
		return h.mapError(c, err, "Failed to update case file")
	}

	return response.Success(c, "Case file updated", cf.ToResponse())
}

// Delete handles case-file deletion
// @Summary Delete case file
// @Description Soft-delete a case file
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cases/{id} [delete]
func (h *CaseFileHandler) Delete(c *fiber.Ctx) error {
	if err := h.caseFileService.Delete(c.Context(), c.Params("id"), actor(c)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Case file not found")
		}
		return response.InternalServerError(c, "Failed to delete case file")
	}

	return response.Success(c, "Case file deleted", nil)
}

// Stats handles dashboard counters
// @Summary Case file statistics
// @Description Aggregate counters over all case files
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /cases/stats [get]
func (h *CaseFileHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.caseFileService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get statistics")
	}

	return response.Success(c, "Statistics retrieved", stats)
}

// PendingReceipt lists handed-over case files awaiting acceptance
// @Summary Pending receipt queue
// @Description Case files handed over but not yet accepted by credit administration
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /cases/pending-receipt [get]
func (h *CaseFileHandler) PendingReceipt(c *fiber.Ctx) error {
	files, err := h.caseFileService.ListPendingReceipt(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get pending case files")
	}

	out := make([]interface{}, 0, len(files))
	for _, cf := range files {
		out = append(out, cf.ToResponse())
	}

	return response.Success(c, "Pending case files retrieved", out)
}

// ============================================================
// Transition endpoints
// ============================================================

// HandOver moves a new case file to in-progress
// @Summary Hand over case file
// @Description Director hands the case file over to credit administration
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/hand-over [put]
func (h *CaseFileHandler) HandOver(c *fiber.Ctx) error {
	var req ActionRequest
	_ = c.BodyParser(&req)

	cf, err := h.caseFileService.HandOver(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Note)
	if err != nil {
		return h.mapError(c, err, "Failed to hand over case file")
	}

	return response.Success(c, "Case file handed over", cf.ToResponse())
}

// BoardReject rejects a new case file outright
// @Summary Board-reject case file
// @Description Director rejects the case file before handover
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Param body body RejectRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/board-reject [put]
func (h *CaseFileHandler) BoardReject(c *fiber.Ctx) error {
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	cf, err := h.caseFileService.RejectByBoard(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Reason)
	if err != nil {
		return h.mapError(c, err, "Failed to reject case file")
	}

	return response.Success(c, "Case file rejected", cf.ToResponse())
}

// Accept confirms credit administration received the case file
// @Summary Accept case file
// @Description Credit administration confirms receipt of a handed-over case file
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/accept [put]
func (h *CaseFileHandler) Accept(c *fiber.Ctx) error {
	var req ActionRequest
	_ = c.BodyParser(&req)

	cf, err := h.caseFileService.Accept(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Note)
	if err != nil {
		return h.mapError(c, err, "Failed to accept case file")
	}

	return response.Success(c, "Case file accepted", cf.ToResponse())
}

// CreditReject rejects an in-flight case file
// @Summary Credit-reject case file
// @Description Credit administration rejects a case file in flight
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Param body body RejectRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/credit-reject [put]
func (h *CaseFileHandler) CreditReject(c *fiber.Ctx) error {
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	cf, err := h.caseFileService.RejectByCreditAdmin(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Reason)
	if err != nil {
		return h.mapError(c, err, "Failed to reject case file")
	}

	return response.Success(c, "Case file rejected", cf.ToResponse())
}

// Return hands the documents back to the relationship manager
// @Summary Return case file
// @Description Credit administration returns the physical documents
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/return [put]
func (h *CaseFileHandler) Return(c *fiber.Ctx) error {
	var req ActionRequest
	_ = c.BodyParser(&req)

	cf, err := h.caseFileService.Return(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Note)
	if err != nil {
		return h.mapError(c, err, "Failed to return case file")
	}

	return response.Success(c, "Case file returned", cf.ToResponse())
}

// ConfirmDocuments confirms document receipt and completes the case file
// @Summary Confirm documents
// @Description Relationship manager confirms receipt of returned documents
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/confirm-documents [put]
func (h *CaseFileHandler) ConfirmDocuments(c *fiber.Ctx) error {
	var req ActionRequest
	_ = c.BodyParser(&req)

	cf, err := h.caseFileService.ConfirmDocuments(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Note)
	if err != nil {
		return h.mapError(c, err, "Failed to confirm documents")
	}

	return response.Success(c, "Case file completed", cf.ToResponse())
}

// DeclineDocuments records a refused document return
// @Summary Decline documents
// @Description Relationship manager declines the returned documents
// @Tags CaseFiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Case file ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /cases/{id}/decline-documents [put]
func (h *CaseFileHandler) DeclineDocuments(c *fiber.Ctx) error {
	var req ActionRequest
	_ = c.BodyParser(&req)

	cf, err := h.caseFileService.DeclineDocuments(c.Context(), c.Params("id"), actorRole(c), actor(c), req.Note)
	if err != nil {
		return h.mapError(c, err, "Failed to decline documents")
	}

	return response.Success(c, "Document return declined", cf.ToResponse())
}

// mapError maps domain errors to HTTP responses
func (h *CaseFileHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	var verr *domain.ValidationError
	var terr *domain.TransitionError
	var rerr *domain.RoleError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Case file not found")
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, "Case file was modified concurrently, please retry")
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Error())
	case errors.As(err, &terr):
		return response.UnprocessableEntity(c, terr.Error())
	case errors.As(err, &rerr):
		return response.Forbidden(c, rerr.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

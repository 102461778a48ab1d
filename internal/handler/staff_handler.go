package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/response"
	"github.com/lakeshorecc/classreg-backend/internal/service"
	"github.com/lakeshorecc/classreg-backend/internal/validator"
)

// StaffHandler handles staff-only account lifecycle endpoints.
type StaffHandler struct {
	accountService *service.AccountService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(accountService *service.AccountService) *StaffHandler {
	return &StaffHandler{accountService: accountService}
}

// SetRegistrantStatus godoc
// PUT /api/v1/staff/registrants/:kind/:id/status
// Activates or deactivates a member or non-member account. Deactivation
// voids the account's registrations and notifies through the cancellation
// ledger.
func (h *StaffHandler) SetRegistrantStatus(c *gin.Context) {
	kind, err := model.ParseRegistrantKind(c.Param("kind"))
	if err != nil || kind == model.KindDependent {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.SetStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ref := model.RegistrantRef{Kind: kind, ID: id}
	if err := h.accountService.SetStatus(c.Request.Context(), ref, req.Status); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

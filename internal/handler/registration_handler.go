package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lakeshorecc/classreg-backend/internal/middleware"
	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/response"
	"github.com/lakeshorecc/classreg-backend/internal/service"
	"github.com/lakeshorecc/classreg-backend/internal/validator"
)

// RegistrationHandler handles the caller's own registrations.
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register godoc
// POST /api/v1/registrations
// Registers the caller for a class.
func (h *RegistrationHandler) Register(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reg, err := h.registrationService.Register(c.Request.Context(), claims.Ref(), req.ClassID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"registration": reg})
}

// Unregister godoc
// DELETE /api/v1/registrations/:classId
// Destroys the caller's registration for a class and frees the seat.
func (h *RegistrationHandler) Unregister(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, ok := paramID(c, "classId")
	if !ok {
		return
	}

	if err := h.registrationService.Unregister(c.Request.Context(), claims.Ref(), classID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ListMine godoc
// GET /api/v1/registrations
// Lists the caller's registrations with class details.
func (h *RegistrationHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	details, err := h.registrationService.ListMine(c.Request.Context(), claims.Ref())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"registrations": details})
}

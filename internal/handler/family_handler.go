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

// FamilyHandler handles the family surface. Every route requires a member
// token; ownership checks happen in the service.
type FamilyHandler struct {
	familyService       *service.FamilyService
	registrationService *service.RegistrationService
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService *service.FamilyService, registrationService *service.RegistrationService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, registrationService: registrationService}
}

// memberClaims rejects non-member tokens; dependents and families hang off
// member accounts only.
func memberClaims(c *gin.Context) (*service.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	if claims.Kind != model.KindMember {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return nil, false
	}
	return claims, true
}

// Create godoc
// POST /api/v1/family
// Opens a family owned by the calling member.
func (h *FamilyHandler) Create(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	family, err := h.familyService.Create(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"family": family})
}

// Get godoc
// GET /api/v1/family
// Returns the caller's family with members and dependents.
func (h *FamilyHandler) Get(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	detail, err := h.familyService.GetMine(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"family": detail})
}

// Delete godoc
// DELETE /api/v1/family
// Deletes the caller's family, its dependents and their registrations.
func (h *FamilyHandler) Delete(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	if err := h.familyService.Delete(c.Request.Context(), claims.UserID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// AddMember godoc
// POST /api/v1/family/members
// Links an existing member, by email, to the caller's family.
func (h *FamilyHandler) AddMember(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	var req model.AddFamilyMemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	member, err := h.familyService.AddMember(c.Request.Context(), claims.UserID, req.Email)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"member": member})
}

// RemoveMember godoc
// DELETE /api/v1/family/members/:memberId
// Unlinks a non-owner member from the caller's family.
func (h *FamilyHandler) RemoveMember(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	memberID, ok := paramID(c, "memberId")
	if !ok {
		return
	}

	if err := h.familyService.RemoveMember(c.Request.Context(), claims.UserID, memberID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// AddDependent godoc
// POST /api/v1/family/dependents
// Adds a dependent, enforcing the age ceiling at add time.
func (h *FamilyHandler) AddDependent(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	var req model.AddDependentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	dep, err := h.familyService.AddDependent(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"dependent": dep})
}

// RemoveDependent godoc
// DELETE /api/v1/family/dependents/:dependentId
// Removes a dependent and voids the dependent's registrations.
func (h *FamilyHandler) RemoveDependent(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	dependentID, ok := paramID(c, "dependentId")
	if !ok {
		return
	}

	if err := h.familyService.RemoveDependent(c.Request.Context(), claims.UserID, dependentID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// RegisterDependent godoc
// POST /api/v1/family/dependents/:dependentId/registrations
// Registers a dependent for a class on the owner's authority. Conflict and
// uniqueness checks run against the dependent's own schedule.
func (h *FamilyHandler) RegisterDependent(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	dependentID, ok := paramID(c, "dependentId")
	if !ok {
		return
	}

	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ref, err := h.familyService.ResolveDependent(c.Request.Context(), claims.UserID, dependentID)
	if err != nil {
		failFromService(c, err)
		return
	}

	reg, err := h.registrationService.Register(c.Request.Context(), ref, req.ClassID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"registration": reg})
}

// UnregisterDependent godoc
// DELETE /api/v1/family/dependents/:dependentId/registrations/:classId
// Destroys a dependent's registration on the owner's authority.
func (h *FamilyHandler) UnregisterDependent(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	dependentID, ok := paramID(c, "dependentId")
	if !ok {
		return
	}
	classID, ok := paramID(c, "classId")
	if !ok {
		return
	}

	ref, err := h.familyService.ResolveDependent(c.Request.Context(), claims.UserID, dependentID)
	if err != nil {
		failFromService(c, err)
		return
	}

	if err := h.registrationService.Unregister(c.Request.Context(), ref, classID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ListDependentRegistrations godoc
// GET /api/v1/family/dependents/:dependentId/registrations
// Lists a dependent's registrations for the family owner.
func (h *FamilyHandler) ListDependentRegistrations(c *gin.Context) {
	claims, ok := memberClaims(c)
	if !ok {
		return
	}

	dependentID, ok := paramID(c, "dependentId")
	if !ok {
		return
	}

	ref, err := h.familyService.ResolveDependent(c.Request.Context(), claims.UserID, dependentID)
	if err != nil {
		failFromService(c, err)
		return
	}

	details, err := h.registrationService.ListMine(c.Request.Context(), ref)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"registrations": details})
}

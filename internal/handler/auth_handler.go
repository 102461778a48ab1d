package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lakeshorecc/classreg-backend/internal/middleware"
	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/response"
	"github.com/lakeshorecc/classreg-backend/internal/service"
	"github.com/lakeshorecc/classreg-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	noticeService  *service.NoticeService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, accountService *service.AccountService, noticeService *service.NoticeService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		noticeService:  noticeService,
	}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password against both account tables, returns JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, creds, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// Pending cancellation notices ride along with the session so the
	// person learns about involuntary changes on their next login.
	notices, err := h.noticeService.ListUndelivered(c.Request.Context(), creds.Ref)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"registrant": gin.H{
			"kind":     creds.Ref.Kind,
			"id":       creds.Ref.ID,
			"is_staff": creds.IsStaff,
		},
		"pending_notices": notices,
	})
}

// Signup godoc
// POST /api/v1/auth/signup
// Creates a member or non-member account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ref, err := h.accountService.Signup(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"registrant": ref,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Invalidates the caller's active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.Ref()); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated registrant.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	switch claims.Kind {
	case model.KindMember:
		m, err := h.accountService.GetMember(c.Request.Context(), claims.UserID)
		if err != nil {
			failFromService(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"member": m})
	case model.KindNonMember:
		n, err := h.accountService.GetNonMember(c.Request.Context(), claims.UserID)
		if err != nil {
			failFromService(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"non_member": n})
	default:
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	}
}

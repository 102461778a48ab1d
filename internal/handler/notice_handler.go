package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lakeshorecc/classreg-backend/internal/middleware"
	"github.com/lakeshorecc/classreg-backend/internal/response"
	"github.com/lakeshorecc/classreg-backend/internal/service"
)

// NoticeHandler handles the cancellation-notice surface.
type NoticeHandler struct {
	noticeService *service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler(noticeService *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

// List godoc
// GET /api/v1/notices
// Lists the caller's cancellation notices, newest first.
func (h *NoticeHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	notices, undelivered, err := h.noticeService.List(c.Request.Context(), claims.Ref())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"notices":     notices,
		"undelivered": undelivered,
	})
}

// MarkDelivered godoc
// PUT /api/v1/notices/delivered
// Flags all of the caller's undelivered notices as read.
func (h *NoticeHandler) MarkDelivered(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	marked, err := h.noticeService.MarkDelivered(c.Request.Context(), claims.Ref())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": marked})
}

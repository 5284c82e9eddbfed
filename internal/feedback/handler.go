package feedback

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
	// DevMode exposes the recent-feedback listing, which has no auth story
	// beyond "operators only".
	DevMode bool
}

func NewHandler(svc *Service, devMode bool) *Handler {
	return &Handler{Svc: svc, DevMode: devMode}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/feedback", h.submit)
	if h.DevMode {
		rg.GET("/feedback", h.list)
	}
}

type submitRequest struct {
	FileID  string `json:"fileId"`
	Message string `json:"message"`
}

func (h *Handler) submit(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	fb, err := h.Svc.Submit(c.Request.Context(), userID, req.FileID, req.Message)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", []map[string]string{
				{"field": "message", "issue": "required"},
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record feedback", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": fb.ID, "createdAt": fb.CreatedAt})
}

func (h *Handler) list(c *gin.Context) {
	entries, err := h.Svc.ListRecent(c.Request.Context(), 50)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list feedback", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": entries})
}

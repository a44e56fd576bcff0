package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/reports"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
)

// Handler exposes the analysis trigger and retrieval endpoints.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/analyze", h.analyze)
	rg.GET("/resumes/:id/analysis", h.getAnalysis)
}

type analyzeRequest struct {
	JobDescription string `json:"job_description"`
	Provider       string `json:"provider"`
}

type analyzeResponse struct {
	TaskID   string `json:"taskId"`
	ResumeID string `json:"resumeId"`
	Status   string `json:"status"`
}

func (h *Handler) analyze(c *gin.Context) {
	resumeID := c.Param("id")
	if !h.authorize(c, resumeID) {
		return
	}

	var req analyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	taskID, err := h.Svc.Trigger(c.Request.Context(), resumeID, req.JobDescription, req.Provider, middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownProvider):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, ErrEnqueue):
			respond.Error(c, http.StatusBadGateway, "queue_unavailable", "failed to enqueue analysis", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to trigger analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusAccepted, analyzeResponse{
		TaskID:   taskID,
		ResumeID: resumeID,
		Status:   "queued",
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	resumeID := c.Param("id")
	if !h.authorize(c, resumeID) {
		return
	}

	report, err := h.Svc.GetReport(c.Request.Context(), resumeID)
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		return
	}
	respond.JSON(c, http.StatusOK, report)
}

// authorize enforces that the caller owns the resume or is an admin. A
// missing resume and a foreign resume answer the same way.
func (h *Handler) authorize(c *gin.Context, resumeID string) bool {
	resume, err := h.Svc.Resumes.GetByID(c.Request.Context(), resumeID)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		return false
	}
	if middleware.RoleFromContext(c) != middleware.RoleAdmin && resume.UserID != middleware.UserIDFromContext(c) {
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		return false
	}
	return true
}

package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// IdentitySync persists the authenticated identity so resume ownership can be
// resolved to an email address later. Failures are non-fatal; the request
// proceeds either way.
func (h *Handler) IdentitySync() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Svc != nil {
			user := User{
				ID:       middleware.UserIDFromContext(c),
				Email:    middleware.UserEmailFromContext(c),
				Role:     middleware.RoleFromContext(c),
				FullName: middleware.UserNameFromContext(c),
			}
			if user.ID != "" {
				_ = h.Svc.UpsertFromToken(c.Request.Context(), user)
			}
		}
		c.Next()
	}
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if err == ErrNotFound {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
		"role":     user.Role,
	})
}

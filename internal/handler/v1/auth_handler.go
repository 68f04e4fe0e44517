package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/domain"
	"github.com/oncolab/sampletrack/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pair)
}

// AuditLister is the slice of the audit store the admin panel needs.
type AuditLister interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
}

type AdminHandler struct {
	audit AuditLister
	users *service.UserService
	log   *zap.Logger
}

func NewAdminHandler(audit AuditLister, users *service.UserService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{audit: audit, users: users, log: log}
}

// SystemLogs returns the most recent system log entries.
func (h *AdminHandler) SystemLogs(c *gin.Context) {
	caller := callerClaims(c)
	if caller.Role != domain.RoleAdmin {
		respondServiceError(c, service.ErrForbidden)
		return
	}

	limit := parseQueryInt(c, "limit", 200)
	entries, err := h.audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entries)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), callerClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, users)
}

type permissionsRequest struct {
	Permissions []domain.Permission `json:"permissions"`
}

func (h *AdminHandler) UpdatePermissions(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req permissionsRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.SetPermissions(c.Request.Context(), id, req.Permissions, callerClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, user)
}

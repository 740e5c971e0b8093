package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/response"
)

// SettingsHandler serves the access-management surface: who can edit the
// team's data and the invite lifecycle behind it.
type SettingsHandler struct {
	invites *services.InviteService
	teams   *services.TeamService
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(invites *services.InviteService, teams *services.TeamService) *SettingsHandler {
	return &SettingsHandler{invites: invites, teams: teams}
}

// GET /api/settings/access
func (h *SettingsHandler) AccessOverview(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	overview, err := h.invites.Overview(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

type createInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/settings/invites
func (h *SettingsHandler) CreateInvite(c *gin.Context) {
	var req createInviteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	ctx := requestContext(c)

	teamName := ""
	if team, err := h.teams.GetByOwner(ctx, userID); err == nil && team != nil {
		teamName = team.Name
	}

	invite, link, err := h.invites.Create(ctx, userID, userID, req.Email, teamName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"invite": invite,
		"link":   link,
	})
}

// DELETE /api/settings/invites/:id
func (h *SettingsHandler) DeleteInvite(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	if err := h.invites.Delete(requestContext(c), c.Param("id"), userID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/invites/:token
func (h *SettingsHandler) InviteInfo(c *gin.Context) {
	invite, err := h.invites.Info(requestContext(c), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"email":      invite.Email,
		"team_name":  invite.TeamName,
		"expires_at": invite.ExpiresAt,
	})
}

// POST /api/invites/:token/accept
func (h *SettingsHandler) AcceptInvite(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	email := c.GetString(middleware.CtxUserEmailKey)

	accepted, err := h.invites.Accept(requestContext(c), c.Param("token"), userID, email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"owner_id":      accepted.OwnerID,
		"team_name":     accepted.TeamName,
		"already_admin": accepted.AlreadyAdmin,
	})
}

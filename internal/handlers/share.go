package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/response"
)

// ShareHandler issues the read-only public link for the caller's team.
type ShareHandler struct {
	shares  *services.ShareService
	owners  *services.OwnerService
	baseURL string
}

// NewShareHandler constructs a ShareHandler. baseURL prefixes the returned
// public link, matching what the frontend renders to visitors.
func NewShareHandler(shares *services.ShareService, owners *services.OwnerService, baseURL string) *ShareHandler {
	return &ShareHandler{shares: shares, owners: owners, baseURL: strings.TrimRight(baseURL, "/")}
}

// GET /api/share
func (h *ShareHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	ctx := requestContext(c)

	ownerID, err := h.owners.EffectiveOwnerID(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.shares.GetOrCreate(ctx, ownerID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if token == "" {
		// Caller has no standing over this owner's data; nothing to share.
		response.Success(c, http.StatusOK, gin.H{"token": nil})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"url":   h.baseURL + "/t/" + token,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/response"
)

// PlayerHandler manages the roster endpoints.
type PlayerHandler struct {
	players *services.PlayerService
	matches *services.MatchService
	owners  *services.OwnerService
}

// NewPlayerHandler constructs a PlayerHandler.
func NewPlayerHandler(players *services.PlayerService, matches *services.MatchService, owners *services.OwnerService) *PlayerHandler {
	return &PlayerHandler{players: players, matches: matches, owners: owners}
}

type playerRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Position string `json:"position" validate:"omitempty,max=40"`
	WhatsApp string `json:"whatsapp" validate:"omitempty,max=20"`
}

func (h *PlayerHandler) effectiveOwner(c *gin.Context) (string, bool) {
	ownerID, err := h.owners.EffectiveOwnerID(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return ownerID, true
}

// GET /api/players
func (h *PlayerHandler) List(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	players, err := h.players.List(requestContext(c), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, players)
}

// POST /api/players
func (h *PlayerHandler) Create(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req playerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	player, err := h.players.Create(requestContext(c), ownerID, services.PlayerInput{
		Name:     req.Name,
		Position: req.Position,
		WhatsApp: req.WhatsApp,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, player)
}

// PUT /api/players/:id
func (h *PlayerHandler) Update(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req playerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	player, err := h.players.Update(requestContext(c), ownerID, c.Param("id"), services.PlayerInput{
		Name:     req.Name,
		Position: req.Position,
		WhatsApp: req.WhatsApp,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, player)
}

// DELETE /api/players/:id
func (h *PlayerHandler) Delete(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	if err := h.players.Delete(requestContext(c), ownerID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/players/stats
func (h *PlayerHandler) Stats(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}
	ctx := requestContext(c)

	players, err := h.players.List(ctx, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	matches, err := h.matches.List(ctx, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	lineups, err := h.matches.Lineups(ctx, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.matches.Events(ctx, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats := services.BuildPlayerStats(players, lineups, events, matches)
	response.Success(c, http.StatusOK, stats)
}

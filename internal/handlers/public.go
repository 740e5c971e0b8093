package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/response"
)

// PublicHandler serves the read-only share pages. Every route resolves the
// path token first and answers 404 when it does not match a stored token, so
// visitors cannot probe which teams exist.
type PublicHandler struct {
	shares    *services.ShareService
	teams     *services.TeamService
	matches   *services.MatchService
	players   *services.PlayerService
	opponents *services.OpponentService
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(shares *services.ShareService, teams *services.TeamService, matches *services.MatchService, players *services.PlayerService, opponents *services.OpponentService) *PublicHandler {
	return &PublicHandler{shares: shares, teams: teams, matches: matches, players: players, opponents: opponents}
}

func (h *PublicHandler) resolve(c *gin.Context) (string, bool) {
	ownerID, err := h.shares.ResolveOwner(requestContext(c), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return ownerID, true
}

// GET /t/:token?semester=YYYY-H
func (h *PublicHandler) Overview(c *gin.Context) {
	ownerID, ok := h.resolve(c)
	if !ok {
		return
	}
	ctx := requestContext(c)

	team, err := h.teams.GetByOwner(ctx, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	dash, err := buildDashboard(ctx, h.matches, h.players, ownerID, c.Query("semester"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{
		"semester":  dash.Semester,
		"semesters": dash.Semesters,
		"overview":  dash.Overview,
	}
	if team != nil {
		payload["team"] = gin.H{"name": team.Name, "slug": team.Slug}
	}
	response.Success(c, http.StatusOK, payload)
}

// GET /t/:token/players
func (h *PublicHandler) Players(c *gin.Context) {
	ownerID, ok := h.resolve(c)
	if !ok {
		return
	}
	ctx := requestContext(c)

	roster, err := h.players.List(ctx, ownerID)
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

	response.Success(c, http.StatusOK, services.BuildPlayerStats(roster, lineups, events, matches))
}

// GET /t/:token/matches?semester=YYYY-H
func (h *PublicHandler) Matches(c *gin.Context) {
	ownerID, ok := h.resolve(c)
	if !ok {
		return
	}
	ctx := requestContext(c)

	dates, err := h.matches.Dates(ctx, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sem := resolveSemester(c.Query("semester"), dates)
	scoped, err := h.matches.ListSemester(ctx, ownerID, sem)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"semester": sem.String(),
		"matches":  toMatchDTOs(scoped),
	})
}

// GET /t/:token/opponents
func (h *PublicHandler) Opponents(c *gin.Context) {
	ownerID, ok := h.resolve(c)
	if !ok {
		return
	}

	opponents, err := h.opponents.List(requestContext(c), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, opponents)
}

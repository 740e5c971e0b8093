package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/internal/services"
	appErrors "github.com/dgarcez/rachao/pkg/errors"
	"github.com/dgarcez/rachao/pkg/response"
)

const matchDateLayout = "2006-01-02"

// MatchHandler manages match CRUD plus lineup editing.
type MatchHandler struct {
	matches *services.MatchService
	lineups *services.LineupService
	owners  *services.OwnerService
}

// NewMatchHandler constructs a MatchHandler.
func NewMatchHandler(matches *services.MatchService, lineups *services.LineupService, owners *services.OwnerService) *MatchHandler {
	return &MatchHandler{matches: matches, lineups: lineups, owners: owners}
}

type matchRequest struct {
	OpponentID   string `json:"opponent_id" validate:"required,uuid4"`
	MatchDate    string `json:"match_date" validate:"required,datetime=2006-01-02"`
	GoalsFor     int    `json:"goals_for" validate:"min=0"`
	GoalsAgainst int    `json:"goals_against" validate:"min=0"`
}

type matchDTO struct {
	ID           string           `json:"id"`
	OpponentID   string           `json:"opponent_id"`
	Opponent     *models.Opponent `json:"opponent,omitempty"`
	MatchDate    string           `json:"match_date"`
	GoalsFor     int              `json:"goals_for"`
	GoalsAgainst int              `json:"goals_against"`
}

func toMatchDTO(m *models.Match) matchDTO {
	return matchDTO{
		ID:           m.ID,
		OpponentID:   m.OpponentID,
		Opponent:     m.Opponent,
		MatchDate:    m.Date().Format(matchDateLayout),
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
	}
}

func toMatchDTOs(matches []models.Match) []matchDTO {
	out := make([]matchDTO, 0, len(matches))
	for i := range matches {
		out = append(out, toMatchDTO(&matches[i]))
	}
	return out
}

func (h *MatchHandler) effectiveOwner(c *gin.Context) (string, bool) {
	ownerID, err := h.owners.EffectiveOwnerID(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return ownerID, true
}

func (h *MatchHandler) parseInput(req matchRequest) (services.MatchInput, error) {
	date, err := time.ParseInLocation(matchDateLayout, req.MatchDate, time.UTC)
	if err != nil {
		return services.MatchInput{}, appErrors.NewBadRequest("match_date must be formatted as YYYY-MM-DD")
	}
	return services.MatchInput{
		OpponentID:   req.OpponentID,
		MatchDate:    date,
		GoalsFor:     req.GoalsFor,
		GoalsAgainst: req.GoalsAgainst,
	}, nil
}

// GET /api/matches
func (h *MatchHandler) List(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	matches, err := h.matches.List(requestContext(c), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toMatchDTOs(matches))
}

// POST /api/matches
func (h *MatchHandler) Create(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req matchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	input, err := h.parseInput(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	match, err := h.matches.Create(requestContext(c), ownerID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toMatchDTO(match))
}

// PUT /api/matches/:id
func (h *MatchHandler) Update(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req matchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	input, err := h.parseInput(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	match, err := h.matches.Update(requestContext(c), ownerID, c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toMatchDTO(match))
}

// DELETE /api/matches/:id
func (h *MatchHandler) Delete(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	if err := h.matches.Delete(requestContext(c), ownerID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type lineupRequest struct {
	Entries []services.LineupEntry `json:"entries" validate:"required,dive"`
	Goals   []services.GoalEntry   `json:"goals" validate:"dive"`
}

// PUT /api/matches/:id/lineup
func (h *MatchHandler) SaveLineup(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req lineupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	callerID := c.GetString(middleware.CtxUserIDKey)
	written, err := h.lineups.Save(requestContext(c), c.Param("id"), ownerID, callerID, req.Entries, req.Goals)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events_written": written})
}

// GET /api/matches/:id/lineup
func (h *MatchHandler) GetLineup(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	lineup, err := h.lineups.Get(requestContext(c), c.Param("id"), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, lineup)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/internal/semester"
	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/response"
)

// DashboardHandler serves the semester-scoped aggregate view.
type DashboardHandler struct {
	matches *services.MatchService
	players *services.PlayerService
	owners  *services.OwnerService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(matches *services.MatchService, players *services.PlayerService, owners *services.OwnerService) *DashboardHandler {
	return &DashboardHandler{matches: matches, players: players, owners: owners}
}

type dashboardResponse struct {
	Semester  string            `json:"semester"`
	Semesters []string          `json:"semesters"`
	Overview  services.Overview `json:"overview"`
}

func resolveSemester(param string, dates []time.Time) semester.Semester {
	return semester.Resolve(param, dates, time.Now())
}

// buildDashboard assembles the overview for one owner scoped to the semester
// named by param (or the default semester when param is empty or unknown).
func buildDashboard(ctx context.Context, matches *services.MatchService, players *services.PlayerService, ownerID, param string, now time.Time) (*dashboardResponse, error) {
	dates, err := matches.Dates(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sem := semester.Resolve(param, dates, now)
	available := semester.WithMatches(dates)
	names := make([]string, 0, len(available))
	for _, s := range available {
		names = append(names, s.String())
	}

	scoped, err := matches.ListSemester(ctx, ownerID, sem)
	if err != nil {
		return nil, err
	}

	inSemester := make(map[string]struct{}, len(scoped))
	for i := range scoped {
		inSemester[scoped[i].ID] = struct{}{}
	}

	allEvents, err := matches.Events(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	events := make([]models.MatchEvent, 0, len(allEvents))
	for _, ev := range allEvents {
		if _, ok := inSemester[ev.MatchID]; ok {
			events = append(events, ev)
		}
	}

	roster, err := players.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &dashboardResponse{
		Semester:  sem.String(),
		Semesters: names,
		Overview:  services.BuildOverview(scoped, events, roster),
	}, nil
}

// GET /api/dashboard?semester=YYYY-H
func (h *DashboardHandler) Overview(c *gin.Context) {
	ownerID, err := h.owners.EffectiveOwnerID(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := buildDashboard(requestContext(c), h.matches, h.players, ownerID, c.Query("semester"), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

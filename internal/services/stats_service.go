package services

import (
	"math"
	"sort"

	"github.com/dgarcez/rachao/internal/models"
)

// negotiationWindow is how many recent matches a player must miss in a row
// before the roster view flags them, and also the minimum sample size.
const negotiationWindow = 5

// RecordSummary aggregates a set of matches into a campaign record.
type RecordSummary struct {
	TotalMatches   int `json:"total_matches"`
	Wins           int `json:"wins"`
	Draws          int `json:"draws"`
	Losses         int `json:"losses"`
	Points         int `json:"points"`
	Utilization    int `json:"utilization"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
}

// RankingEntry is one row of a leaderboard.
type RankingEntry struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// RecentMatch is a compact match summary for the dashboard.
type RecentMatch struct {
	ID           string `json:"id"`
	OpponentName string `json:"opponent_name"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	MatchDate    string `json:"match_date"`
}

// Overview is the dashboard read model.
type Overview struct {
	Record        RecordSummary  `json:"record"`
	TopScorers    []RankingEntry `json:"top_scorers"`
	TopAssists    []RankingEntry `json:"top_assists"`
	YellowCards   []RankingEntry `json:"yellow_cards"`
	RedCards      []RankingEntry `json:"red_cards"`
	RecentMatches []RecentMatch  `json:"recent_matches"`
}

// PlayerStats is the per-player roster read model.
type PlayerStats struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Position       string `json:"position"`
	WhatsApp       string `json:"whatsapp,omitempty"`
	MatchesPlayed  int    `json:"matches_played"`
	MatchesStarter int    `json:"matches_starter"`
	TotalMatches   int    `json:"total_matches"`
	Goals          int    `json:"goals"`
	Assists        int    `json:"assists"`
	YellowCards    int    `json:"yellow_cards"`
	RedCards       int    `json:"red_cards"`
	InNegotiation  bool   `json:"in_negotiation"`
}

// BuildOverview computes the dashboard aggregates from already-scoped rows.
// The same function serves full-history and semester-filtered inputs; callers
// filter matches and events before aggregating.
func BuildOverview(matches []models.Match, events []models.MatchEvent, players []models.Player) Overview {
	record := buildRecord(matches)

	nameByID := make(map[string]string, len(players))
	for _, p := range players {
		nameByID[p.ID] = p.Name
	}

	goals := newTally(nameByID)
	assists := newTally(nameByID)
	yellows := newTally(nameByID)
	reds := newTally(nameByID)

	for _, ev := range events {
		switch ev.EventType {
		case models.EventGoal:
			goals.add(ev.PlayerID)
			if ev.AssistantID != nil && *ev.AssistantID != "" {
				assists.add(*ev.AssistantID)
			}
		case models.EventAssist:
			// Legacy standalone assist rows add to the same tally as
			// goal-linked assistants; the two sources are additive.
			assists.add(ev.PlayerID)
		case models.EventYellowCard:
			yellows.add(ev.PlayerID)
		case models.EventRedCard:
			reds.add(ev.PlayerID)
		}
	}

	sorted := sortMatchesByDateDesc(matches)
	recent := make([]RecentMatch, 0, negotiationWindow)
	for _, m := range sorted {
		if len(recent) == negotiationWindow {
			break
		}
		opponentName := ""
		if m.Opponent != nil {
			opponentName = m.Opponent.Name
		}
		recent = append(recent, RecentMatch{
			ID:           m.ID,
			OpponentName: opponentName,
			GoalsFor:     m.GoalsFor,
			GoalsAgainst: m.GoalsAgainst,
			MatchDate:    m.Date().Format("2006-01-02"),
		})
	}

	return Overview{
		Record:        record,
		TopScorers:    goals.ranking(),
		TopAssists:    assists.ranking(),
		YellowCards:   yellows.ranking(),
		RedCards:      reds.ranking(),
		RecentMatches: recent,
	}
}

// BuildPlayerStats computes the roster view with per-player participation and
// event counts plus the negotiation flag.
func BuildPlayerStats(players []models.Player, matchPlayers []models.MatchPlayer, events []models.MatchEvent, matches []models.Match) []PlayerStats {
	totalMatches := len(matches)

	sorted := sortMatchesByDateDesc(matches)
	recentIDs := make(map[string]struct{}, negotiationWindow)
	for i, m := range sorted {
		if i == negotiationWindow {
			break
		}
		recentIDs[m.ID] = struct{}{}
	}
	enoughHistory := totalMatches >= negotiationWindow

	playedRecently := make(map[string]struct{})
	played := make(map[string]int)
	started := make(map[string]int)
	for _, mp := range matchPlayers {
		played[mp.PlayerID]++
		if mp.Starter {
			started[mp.PlayerID]++
		}
		if _, recent := recentIDs[mp.MatchID]; recent {
			playedRecently[mp.PlayerID] = struct{}{}
		}
	}

	goals := make(map[string]int)
	assists := make(map[string]int)
	yellows := make(map[string]int)
	reds := make(map[string]int)
	for _, ev := range events {
		switch ev.EventType {
		case models.EventGoal:
			goals[ev.PlayerID]++
			if ev.AssistantID != nil && *ev.AssistantID != "" {
				assists[*ev.AssistantID]++
			}
		case models.EventAssist:
			assists[ev.PlayerID]++
		case models.EventYellowCard:
			yellows[ev.PlayerID]++
		case models.EventRedCard:
			reds[ev.PlayerID]++
		}
	}

	stats := make([]PlayerStats, 0, len(players))
	for _, p := range players {
		_, active := playedRecently[p.ID]
		stats = append(stats, PlayerStats{
			ID:             p.ID,
			Name:           p.Name,
			Position:       p.Position,
			WhatsApp:       p.WhatsApp,
			MatchesPlayed:  played[p.ID],
			MatchesStarter: started[p.ID],
			TotalMatches:   totalMatches,
			Goals:          goals[p.ID],
			Assists:        assists[p.ID],
			YellowCards:    yellows[p.ID],
			RedCards:       reds[p.ID],
			InNegotiation:  enoughHistory && !active,
		})
	}
	return stats
}

func buildRecord(matches []models.Match) RecordSummary {
	record := RecordSummary{TotalMatches: len(matches)}
	for _, m := range matches {
		record.GoalsFor += m.GoalsFor
		record.GoalsAgainst += m.GoalsAgainst
		switch {
		case m.GoalsFor > m.GoalsAgainst:
			record.Wins++
		case m.GoalsFor == m.GoalsAgainst:
			record.Draws++
		default:
			record.Losses++
		}
	}
	record.GoalDifference = record.GoalsFor - record.GoalsAgainst
	record.Points = record.Wins*3 + record.Draws

	if record.TotalMatches > 0 {
		possible := float64(record.TotalMatches * 3)
		record.Utilization = int(math.Round(float64(record.Points) / possible * 100))
	}
	return record
}

// tally accumulates event counts per player while preserving the order in
// which players first appear, so leaderboard ties keep encounter order.
type tally struct {
	nameByID map[string]string
	counts   map[string]int
	order    []string
}

func newTally(nameByID map[string]string) *tally {
	return &tally{
		nameByID: nameByID,
		counts:   make(map[string]int),
	}
}

func (t *tally) add(playerID string) {
	if _, seen := t.counts[playerID]; !seen {
		t.order = append(t.order, playerID)
	}
	t.counts[playerID]++
}

func (t *tally) ranking() []RankingEntry {
	entries := make([]RankingEntry, 0, len(t.order))
	for _, id := range t.order {
		name := t.nameByID[id]
		if name == "" {
			name = "Desconhecido"
		}
		entries = append(entries, RankingEntry{PlayerID: id, Name: name, Count: t.counts[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func sortMatchesByDateDesc(matches []models.Match) []models.Match {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date().Before(sorted[i].Date())
	})
	return sorted
}

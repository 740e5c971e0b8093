package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgarcez/rachao/internal/handlers/testutil"
)

func shareToken(t *testing.T, env *testutil.Env, token string) string {
	t.Helper()

	w := env.Request(http.MethodGet, "/api/share", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &data)
	require.NotEmpty(t, data.Token)
	require.Equal(t, "https://rachao.test/t/"+data.Token, data.URL)
	return data.Token
}

func TestShareLinkIsStableAcrossRequests(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Register("dono@example.com", "supersecret", "")

	first := shareToken(t, env, owner.Token)
	second := shareToken(t, env, owner.Token)
	require.Equal(t, first, second)
}

func TestPublicPagesServeAnonymousVisitors(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Register("dono@example.com", "supersecret", "Galáticos")
	opponent := env.CreateOpponent(owner.ID, "Rivais FC")
	env.CreatePlayer(owner.ID, "Zico")
	env.CreateMatch(owner.ID, opponent.ID, "2026-02-07", 2, 1)

	token := shareToken(t, env, owner.Token)

	overview := env.Request(http.MethodGet, "/t/"+token, nil, "")
	require.Equal(t, http.StatusOK, overview.Code, overview.Body.String())

	var overviewData struct {
		Semester string `json:"semester"`
		Team     struct {
			Name string `json:"name"`
		} `json:"team"`
		Overview struct {
			Record struct {
				Wins int `json:"wins"`
			} `json:"record"`
		} `json:"overview"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, overview).Data, &overviewData)
	require.Equal(t, "2026-1", overviewData.Semester)
	require.Equal(t, "Galáticos", overviewData.Team.Name)
	require.Equal(t, 1, overviewData.Overview.Record.Wins)

	players := env.Request(http.MethodGet, "/t/"+token+"/players", nil, "")
	require.Equal(t, http.StatusOK, players.Code)
	var roster []struct {
		Name string `json:"name"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, players).Data, &roster)
	require.Len(t, roster, 1)

	matches := env.Request(http.MethodGet, "/t/"+token+"/matches", nil, "")
	require.Equal(t, http.StatusOK, matches.Code)
	var matchData struct {
		Semester string `json:"semester"`
		Matches  []struct {
			MatchDate string `json:"match_date"`
		} `json:"matches"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, matches).Data, &matchData)
	require.Len(t, matchData.Matches, 1)
	require.Equal(t, "2026-02-07", matchData.Matches[0].MatchDate)

	opponents := env.Request(http.MethodGet, "/t/"+token+"/opponents", nil, "")
	require.Equal(t, http.StatusOK, opponents.Code)
}

func TestPublicPagesFailClosed(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Register("dono@example.com", "supersecret", "")
	env.CreatePlayer(owner.ID, "Zico")

	for _, path := range []string{
		"/t/deadbeefdeadbeefdeadbeefdeadbeef",
		"/t/deadbeefdeadbeefdeadbeefdeadbeef/players",
		"/t/deadbeefdeadbeefdeadbeefdeadbeef/matches",
		"/t/deadbeefdeadbeefdeadbeefdeadbeef/opponents",
	} {
		w := env.Request(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgarcez/rachao/internal/handlers/testutil"
)

func TestInviteLifecycleOverHTTP(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Register("dono@example.com", "supersecret", "Galáticos")
	guest := env.Register("convidado@example.com", "supersecret", "")

	// Owner issues the invite.
	created := env.Request(http.MethodPost, "/api/settings/invites", map[string]string{
		"email": "convidado@example.com",
	}, owner.Token)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var createdData struct {
		Link   string `json:"link"`
		Invite struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"invite"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, created).Data, &createdData)
	require.Equal(t, "convidado@example.com", createdData.Invite.Email)
	require.Contains(t, createdData.Link, "https://rachao.test/auth/aceitar-convite?token=")

	token := createdData.Link[strings.LastIndex(createdData.Link, "=")+1:]

	// Anonymous preview shows who the invite is for.
	info := env.Request(http.MethodGet, "/api/invites/"+token, nil, "")
	require.Equal(t, http.StatusOK, info.Code)
	var infoData struct {
		Email    string `json:"email"`
		TeamName string `json:"team_name"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, info).Data, &infoData)
	require.Equal(t, "convidado@example.com", infoData.Email)
	require.Equal(t, "Galáticos", infoData.TeamName)

	// The invited account accepts.
	accepted := env.Request(http.MethodPost, "/api/invites/"+token+"/accept", nil, guest.Token)
	require.Equal(t, http.StatusOK, accepted.Code, accepted.Body.String())
	var acceptedData struct {
		OwnerID      string `json:"owner_id"`
		TeamName     string `json:"team_name"`
		AlreadyAdmin bool   `json:"already_admin"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, accepted).Data, &acceptedData)
	require.Equal(t, owner.ID, acceptedData.OwnerID)
	require.False(t, acceptedData.AlreadyAdmin)

	// Consumed: preview now misses.
	gone := env.Request(http.MethodGet, "/api/invites/"+token, nil, "")
	require.Equal(t, http.StatusNotFound, gone.Code)

	// The guest now sees the owner's data.
	env.CreatePlayer(owner.ID, "Zico")
	players := env.Request(http.MethodGet, "/api/players", nil, guest.Token)
	require.Equal(t, http.StatusOK, players.Code)
	var roster []struct {
		Name string `json:"name"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, players).Data, &roster)
	require.Len(t, roster, 1)
	require.Equal(t, "Zico", roster[0].Name)

	// Access overview lists both accounts and no pending invites.
	access := env.Request(http.MethodGet, "/api/settings/access", nil, owner.Token)
	require.Equal(t, http.StatusOK, access.Code)
	var overview struct {
		Users []struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"users"`
		Pending []struct {
			ID string `json:"id"`
		} `json:"pending_invites"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, access).Data, &overview)
	require.Len(t, overview.Users, 2)
	require.Equal(t, "owner", overview.Users[0].Role)
	require.Equal(t, "admin", overview.Users[1].Role)
	require.Equal(t, "convidado@example.com", overview.Users[1].Email)
	require.Empty(t, overview.Pending)
}

func TestInviteAcceptWrongAccountOverHTTP(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Register("dono@example.com", "supersecret", "")
	stranger := env.Register("intruso@example.com", "supersecret", "")

	created := env.Request(http.MethodPost, "/api/settings/invites", map[string]string{
		"email": "convidado@example.com",
	}, owner.Token)
	require.Equal(t, http.StatusCreated, created.Code)

	var createdData struct {
		Link string `json:"link"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, created).Data, &createdData)
	token := createdData.Link[strings.LastIndex(createdData.Link, "=")+1:]

	w := env.Request(http.MethodPost, "/api/invites/"+token+"/accept", nil, stranger.Token)
	require.Equal(t, http.StatusForbidden, w.Code)

	resp := testutil.DecodeResponse(t, w)
	require.NotNil(t, resp.Error)
	require.Contains(t, resp.Error.Message, "convidado@example.com")
}

func TestInviteDeleteOverHTTP(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.Register("dono@example.com", "supersecret", "")

	created := env.Request(http.MethodPost, "/api/settings/invites", map[string]string{
		"email": "convidado@example.com",
	}, owner.Token)
	require.Equal(t, http.StatusCreated, created.Code)

	var createdData struct {
		Invite struct {
			ID string `json:"id"`
		} `json:"invite"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, created).Data, &createdData)

	deleted := env.Request(http.MethodDelete, "/api/settings/invites/"+createdData.Invite.ID, nil, owner.Token)
	require.Equal(t, http.StatusOK, deleted.Code)

	again := env.Request(http.MethodDelete, "/api/settings/invites/"+createdData.Invite.ID, nil, owner.Token)
	require.Equal(t, http.StatusNotFound, again.Code)
}

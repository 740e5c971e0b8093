package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/api"
	"github.com/dgarcez/rachao/internal/app"
	iauth "github.com/dgarcez/rachao/internal/auth"
	"github.com/dgarcez/rachao/internal/database"
	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/pkg/response"
)

// Env is a fully wired API instance backed by an in-memory database.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAll(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	jwtSecret := "test-suite-super-secret-key-32-bytes!!"
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         jwtSecret,
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	cfg := &app.Config{
		Server: app.ServerConfig{
			BaseURL: "https://rachao.test",
		},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: jwtSecret,
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Monitoring: app.MonitoringConfig{
			Health: app.HealthConfig{Enabled: true},
		},
	}

	router, err := api.NewRouter(db, jwtSvc, cfg, nil)
	require.NoError(t, err)

	return &Env{T: t, DB: db, Router: router, JWT: jwtSvc}
}

// Account bundles a registered user with its bearer token.
type Account struct {
	ID    string
	Email string
	Token string
}

// Register signs up an account through the API and returns it with its token.
func (e *Env) Register(email, password, teamName string) Account {
	e.T.Helper()

	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	if teamName != "" {
		payload["team_name"] = teamName
	}

	w := e.Request(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	DecodeInto(e.T, resp.Data, &data)
	require.NotEmpty(e.T, data.Token)

	return Account{ID: data.User.ID, Email: data.User.Email, Token: data.Token}
}

// CreatePlayer inserts a roster row directly.
func (e *Env) CreatePlayer(ownerID, name string) *models.Player {
	e.T.Helper()

	player := &models.Player{OwnerID: ownerID, Name: name}
	require.NoError(e.T, e.DB.Create(player).Error)
	return player
}

// CreateOpponent inserts an opponent row directly.
func (e *Env) CreateOpponent(ownerID, name string) *models.Opponent {
	e.T.Helper()

	opponent := &models.Opponent{OwnerID: ownerID, Name: name}
	require.NoError(e.T, e.DB.Create(opponent).Error)
	return opponent
}

// CreateMatch inserts a match row directly. Date uses the YYYY-MM-DD form.
func (e *Env) CreateMatch(ownerID, opponentID, date string, goalsFor, goalsAgainst int) *models.Match {
	e.T.Helper()

	parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	require.NoError(e.T, err)

	match := &models.Match{
		OwnerID:      ownerID,
		OpponentID:   opponentID,
		MatchDate:    datatypes.Date(parsed),
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
	}
	require.NoError(e.T, e.DB.Create(match).Error)
	return match
}

// APIResponse is the canonical envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the standard API envelope from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes a request against the test router with JSON encoding and
// bearer auth applied.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

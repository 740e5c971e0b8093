package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/dgarcez/rachao/internal/auth"
	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/services"
	appErrors "github.com/dgarcez/rachao/pkg/errors"
	"github.com/dgarcez/rachao/pkg/metrics"
	"github.com/dgarcez/rachao/pkg/response"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	users *services.UserService
	teams *services.TeamService
	jwt   *iauth.JWTService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *services.UserService, teams *services.TeamService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, teams: teams, jwt: jwt}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	TeamName string `json:"team_name" validate:"omitempty,max=80"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userDTO     `json:"user"`
	Team  interface{} `json:"team,omitempty"`
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)
	user, team, err := h.users.Register(ctx, services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		TeamName: req.TeamName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusCreated, authResponse{
		Token: token,
		User:  userDTO{ID: user.ID, Email: user.Email},
		Team:  team,
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}
	metrics.AuthAttempts.WithLabelValues("success").Inc()

	token, err := h.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, authResponse{
		Token: token,
		User:  userDTO{ID: user.ID, Email: user.Email},
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.users.FindByID(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	team, err := h.teams.GetByOwner(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": userDTO{ID: user.ID, Email: user.Email},
		"team": team,
	})
}

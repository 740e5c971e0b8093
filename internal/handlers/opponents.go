package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/response"
)

// OpponentHandler manages the opposing-team catalogue endpoints.
type OpponentHandler struct {
	opponents *services.OpponentService
	owners    *services.OwnerService
}

// NewOpponentHandler constructs an OpponentHandler.
func NewOpponentHandler(opponents *services.OpponentService, owners *services.OwnerService) *OpponentHandler {
	return &OpponentHandler{opponents: opponents, owners: owners}
}

type opponentRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

func (h *OpponentHandler) effectiveOwner(c *gin.Context) (string, bool) {
	ownerID, err := h.owners.EffectiveOwnerID(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return ownerID, true
}

// GET /api/opponents
func (h *OpponentHandler) List(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
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

// POST /api/opponents
func (h *OpponentHandler) Create(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req opponentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	opponent, err := h.opponents.Create(requestContext(c), ownerID, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, opponent)
}

// PUT /api/opponents/:id
func (h *OpponentHandler) Update(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	var req opponentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	opponent, err := h.opponents.Update(requestContext(c), ownerID, c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, opponent)
}

// DELETE /api/opponents/:id
func (h *OpponentHandler) Delete(c *gin.Context) {
	ownerID, ok := h.effectiveOwner(c)
	if !ok {
		return
	}

	if err := h.opponents.Delete(requestContext(c), ownerID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

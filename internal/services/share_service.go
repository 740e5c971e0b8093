package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/pkg/crypto"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
	"github.com/dgarcez/rachao/pkg/logger"
	"github.com/dgarcez/rachao/pkg/metrics"
)

const shareTokenBytes = 16

// ErrShareNotFound is the only outcome for tokens that do not resolve; the
// public views have no other gate, so resolution fails closed.
var ErrShareNotFound = apperrors.New("SHARE_NOT_FOUND", "Page not found", http.StatusNotFound)

// ShareService mints and resolves anonymous public read tokens.
type ShareService struct {
	db     *gorm.DB
	owners *OwnerService
}

// NewShareService constructs a ShareService.
func NewShareService(db *gorm.DB, owners *OwnerService) (*ShareService, error) {
	if db == nil {
		return nil, errors.New("share service: db is required")
	}
	if owners == nil {
		return nil, errors.New("share service: owner service is required")
	}
	return &ShareService{db: db, owners: owners}, nil
}

// GetOrCreate returns the owner's share token, minting it on first request.
// Callers without owner or admin access get an empty token, not an error;
// absence of a link is the failure signal. Tokens are never rotated.
func (s *ShareService) GetOrCreate(ctx context.Context, ownerID, callerID string) (string, error) {
	allowed, err := s.owners.IsOwnerOrAdmin(ctx, callerID, ownerID)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", nil
	}

	var share models.TeamShare
	err = s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&share).Error
	if err == nil {
		return share.Token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("share service: find share: %w", err)
	}

	token, err := crypto.RandomHex(shareTokenBytes)
	if err != nil {
		return "", fmt.Errorf("share service: generate token: %w", err)
	}

	share = models.TeamShare{OwnerID: ownerID, Token: token}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race with a concurrent first request; return the winner.
			var existing models.TeamShare
			if lookupErr := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&existing).Error; lookupErr == nil {
				return existing.Token, nil
			}
		}
		return "", fmt.Errorf("share service: create share: %w", err)
	}

	logger.WithModule("share").Info("share token minted", zap.String("owner_id", ownerID))
	return share.Token, nil
}

// ResolveOwner maps a public token to the owner account it exposes.
func (s *ShareService) ResolveOwner(ctx context.Context, token string) (string, error) {
	if token == "" {
		metrics.ShareViews.WithLabelValues("not_found").Inc()
		return "", ErrShareNotFound
	}

	var share models.TeamShare
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ShareViews.WithLabelValues("not_found").Inc()
		return "", ErrShareNotFound
	}
	if err != nil {
		return "", fmt.Errorf("share service: resolve token: %w", err)
	}

	metrics.ShareViews.WithLabelValues("ok").Inc()
	return share.OwnerID, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/pkg/crypto"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
	"github.com/dgarcez/rachao/pkg/logger"
	"github.com/dgarcez/rachao/pkg/mail"
	"github.com/dgarcez/rachao/pkg/metrics"
)

const (
	defaultInviteExpiry     = 7 * 24 * time.Hour
	defaultInviteTokenBytes = 32
)

var (
	// ErrInviteInvalid covers unknown and expired invite tokens alike, so a
	// probing caller cannot distinguish the two.
	ErrInviteInvalid = apperrors.New("INVITE_INVALID", "Invite is invalid or has expired", http.StatusNotFound)
	// ErrAlreadyInvited signals a pending invite already exists for the email.
	ErrAlreadyInvited = apperrors.New("INVITE_DUPLICATE", "This email has already been invited", http.StatusConflict)
	// ErrInviteNotOwner rejects invite management by anyone but the account owner.
	ErrInviteNotOwner = apperrors.New("INVITE_NOT_OWNER", "Only the team owner can manage admin invites", http.StatusForbidden)
	// ErrInvitesNotMigrated turns a missing table into a setup instruction.
	ErrInvitesNotMigrated = apperrors.New("INVITES_NOT_MIGRATED", "The invites table is missing; run the database migrations and try again", http.StatusInternalServerError)
)

// InviteOption customises InviteService behaviour.
type InviteOption func(*InviteService)

// WithInviteBaseURL configures the base URL used to build invite hyperlinks.
func WithInviteBaseURL(url string) InviteOption {
	return func(s *InviteService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithInviteExpiry overrides the invite token lifetime.
func WithInviteExpiry(d time.Duration) InviteOption {
	return func(s *InviteService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithInviteClock injects a custom clock primarily for testing.
func WithInviteClock(clock func() time.Time) InviteOption {
	return func(s *InviteService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// AcceptedInvite reports the outcome of a successful invite acceptance.
type AcceptedInvite struct {
	OwnerID  string
	TeamName string
	// AlreadyAdmin is true when the grant existed before this acceptance;
	// accepting twice is success both times.
	AlreadyAdmin bool
}

// AccessUser is one account holding access to an owner's data.
type AccessUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // owner | admin
	GrantedAt time.Time `json:"granted_at"`
}

// AccessOverview is the settings read model: who has access plus what is
// still pending.
type AccessOverview struct {
	Users   []AccessUser           `json:"users"`
	Pending []models.PendingInvite `json:"pending_invites"`
}

// InviteService manages the admin-delegation invite lifecycle.
type InviteService struct {
	db      *gorm.DB
	owners  *OwnerService
	users   *UserService
	mailer  mail.Mailer
	baseURL string
	expiry  time.Duration
	now     func() time.Time
}

// NewInviteService constructs an InviteService with the provided dependencies.
func NewInviteService(db *gorm.DB, owners *OwnerService, users *UserService, mailer mail.Mailer, opts ...InviteOption) (*InviteService, error) {
	if db == nil {
		return nil, errors.New("invite service: db is required")
	}
	if owners == nil {
		return nil, errors.New("invite service: owner service is required")
	}
	if users == nil {
		return nil, errors.New("invite service: user service is required")
	}

	service := &InviteService{
		db:     db,
		owners: owners,
		users:  users,
		mailer: mailer,
		expiry: defaultInviteExpiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Create issues a pending invite for the email address and returns the invite
// together with the acceptance link. Only the account owner may invite.
func (s *InviteService) Create(ctx context.Context, ownerID, callerID, email, teamName string) (*models.PendingInvite, string, error) {
	if err := s.requireOwner(ctx, ownerID, callerID); err != nil {
		return nil, "", err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", apperrors.NewBadRequest("email is required")
	}

	token, err := crypto.RandomHex(defaultInviteTokenBytes)
	if err != nil {
		return nil, "", fmt.Errorf("invite service: generate token: %w", err)
	}

	invite := &models.PendingInvite{
		OwnerID:   ownerID,
		Email:     email,
		Token:     token,
		TeamName:  strings.TrimSpace(teamName),
		ExpiresAt: s.now().Add(s.expiry),
	}

	if err := s.db.WithContext(ctx).Create(invite).Error; err != nil {
		switch {
		case isUniqueConstraintError(err):
			return nil, "", ErrAlreadyInvited
		case isMissingTableError(err):
			return nil, "", ErrInvitesNotMigrated.WithInternal(err)
		default:
			return nil, "", fmt.Errorf("invite service: create invite: %w", err)
		}
	}

	metrics.InvitesIssued.Inc()
	link := s.inviteLink(token)

	if s.mailer != nil {
		message := mail.Message{
			To:      []string{email},
			Subject: "Convite para administrar um time no Rachão",
			Body:    s.inviteBody(link, invite.TeamName),
		}
		if mailErr := s.mailer.Send(ctx, message); mailErr != nil && !errors.Is(mailErr, mail.ErrSMTPDisabled) {
			// The link is still returned to the owner, so a mail outage
			// degrades to manual link sharing.
			logger.WithModule("invites").Warn("invite email delivery failed",
				zap.String("owner_id", ownerID), zap.Error(mailErr))
		}
	}

	return invite, link, nil
}

// Info returns the public preview of a non-expired invite.
func (s *InviteService) Info(ctx context.Context, token string) (*models.PendingInvite, error) {
	return s.findValid(ctx, token)
}

// Accept consumes the invite for the authenticated viewer. The invite email
// must match the viewer's email case-insensitively. An existing grant makes
// acceptance idempotent: the invite is consumed and success reported.
func (s *InviteService) Accept(ctx context.Context, token, viewerID, viewerEmail string) (*AcceptedInvite, error) {
	invite, err := s.findValid(ctx, token)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(invite.Email, strings.TrimSpace(viewerEmail)) {
		return nil, apperrors.New("INVITE_WRONG_ACCOUNT",
			fmt.Sprintf("This invite was sent to %s", invite.Email),
			http.StatusForbidden)
	}

	result := &AcceptedInvite{OwnerID: invite.OwnerID, TeamName: invite.TeamName}
	if result.TeamName == "" {
		result.TeamName = defaultTeamName
	}

	grant := &models.TeamAdmin{OwnerID: invite.OwnerID, AdminID: viewerID}
	if err := s.db.WithContext(ctx).Create(grant).Error; err != nil {
		if !isUniqueConstraintError(err) {
			return nil, fmt.Errorf("invite service: create grant: %w", err)
		}
		result.AlreadyAdmin = true
	}

	// Consume the invite whether the grant was new or already present.
	if err := s.db.WithContext(ctx).
		Where("token = ?", invite.Token).
		Delete(&models.PendingInvite{}).Error; err != nil {
		return nil, fmt.Errorf("invite service: consume invite: %w", err)
	}

	outcome := "granted"
	if result.AlreadyAdmin {
		outcome = "already_admin"
	}
	metrics.InvitesAccepted.WithLabelValues(outcome).Inc()

	return result, nil
}

// Delete cancels a pending invite. Only the owner may cancel, and no expiry
// check applies since this is an explicit action.
func (s *InviteService) Delete(ctx context.Context, inviteID, ownerID, callerID string) error {
	if err := s.requireOwner(ctx, ownerID, callerID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", inviteID, ownerID).
		Delete(&models.PendingInvite{})
	if result.Error != nil {
		return fmt.Errorf("invite service: delete invite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Overview assembles the settings read model: everyone with access and the
// still-pending invites. Invites whose email already belongs to the owner or
// to a grant holder are purged as a side effect of the read, so an invite
// consumed through another path never lingers as pending. Enrichment
// failures degrade silently; the overview still renders.
func (s *InviteService) Overview(ctx context.Context, ownerID string) (*AccessOverview, error) {
	overview := &AccessOverview{Users: []AccessUser{}, Pending: []models.PendingInvite{}}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	overview.Users = append(overview.Users, AccessUser{
		ID:        owner.ID,
		Email:     owner.Email,
		Role:      "owner",
		GrantedAt: owner.CreatedAt,
	})

	var grants []models.TeamAdmin
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&grants).Error; err != nil {
		if isMissingTableError(err) {
			return nil, ErrInvitesNotMigrated.WithInternal(err)
		}
		return nil, fmt.Errorf("invite service: list grants: %w", err)
	}

	adminIDs := make([]string, 0, len(grants))
	for _, g := range grants {
		adminIDs = append(adminIDs, g.AdminID)
	}

	accessEmails := map[string]struct{}{strings.ToLower(owner.Email): {}}
	adminEmails, err := s.users.EmailsByIDs(ctx, adminIDs)
	if err != nil {
		// Emails are display enrichment only; admins still show without them.
		logger.WithModule("invites").Warn("admin email lookup failed", zap.Error(err))
		adminEmails = map[string]string{}
	}
	for _, g := range grants {
		email := adminEmails[g.AdminID]
		if email != "" {
			accessEmails[strings.ToLower(email)] = struct{}{}
		}
		overview.Users = append(overview.Users, AccessUser{
			ID:        g.AdminID,
			Email:     email,
			Role:      "admin",
			GrantedAt: g.CreatedAt,
		})
	}

	var pending []models.PendingInvite
	if err := s.db.WithContext(ctx).
		Where("owner_id = ? AND expires_at > ?", ownerID, s.now()).
		Order("created_at").
		Find(&pending).Error; err != nil {
		if isMissingTableError(err) {
			return nil, ErrInvitesNotMigrated.WithInternal(err)
		}
		return nil, fmt.Errorf("invite service: list pending: %w", err)
	}

	for _, invite := range pending {
		if _, consumed := accessEmails[strings.ToLower(invite.Email)]; consumed {
			if err := s.db.WithContext(ctx).Delete(&models.PendingInvite{}, "id = ?", invite.ID).Error; err != nil {
				logger.WithModule("invites").Warn("stale invite cleanup failed",
					zap.String("invite_id", invite.ID), zap.Error(err))
			}
			continue
		}
		overview.Pending = append(overview.Pending, invite)
	}

	return overview, nil
}

// SweepExpired deletes invites past their expiry. Read paths already treat
// expired rows as nonexistent; the sweep keeps the table from accumulating.
func (s *InviteService) SweepExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now()).
		Delete(&models.PendingInvite{})
	if result.Error != nil {
		return 0, fmt.Errorf("invite service: sweep expired: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *InviteService) requireOwner(ctx context.Context, ownerID, callerID string) error {
	if callerID != ownerID {
		return ErrInviteNotOwner
	}
	resolved, err := s.owners.EffectiveOwnerID(ctx, callerID)
	if err != nil {
		return err
	}
	if resolved != callerID {
		return ErrInviteNotOwner
	}
	return nil
}

func (s *InviteService) findValid(ctx context.Context, token string) (*models.PendingInvite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInviteInvalid
	}

	var invite models.PendingInvite
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, s.now()).
		First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInviteInvalid
	}
	if err != nil {
		if isMissingTableError(err) {
			return nil, ErrInvitesNotMigrated.WithInternal(err)
		}
		return nil, fmt.Errorf("invite service: find invite: %w", err)
	}
	return &invite, nil
}

func (s *InviteService) inviteLink(token string) string {
	if s.baseURL == "" {
		return "/auth/aceitar-convite?token=" + token
	}
	return fmt.Sprintf("%s/auth/aceitar-convite?token=%s", s.baseURL, token)
}

func (s *InviteService) inviteBody(link, teamName string) string {
	if teamName == "" {
		teamName = defaultTeamName
	}
	return fmt.Sprintf("Olá,\n\nVocê foi convidado para administrar o time %s no Rachão. Use o link abaixo para aceitar o convite:\n%s\n\nO convite expira em 7 dias.\n", teamName, link)
}

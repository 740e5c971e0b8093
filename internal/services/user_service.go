package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/pkg/crypto"
	apperrors "github.com/dgarcez/rachao/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrEmailInUse signals an account already exists for the email address.
	ErrEmailInUse = apperrors.New("EMAIL_IN_USE", "An account already exists for this email", http.StatusConflict)
)

// RegisterInput captures the signup payload.
type RegisterInput struct {
	Email    string
	Password string
	TeamName string
}

// UserService handles account registration and credential checks.
type UserService struct {
	db    *gorm.DB
	teams *TeamService
	now   func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, teams *TeamService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if teams == nil {
		return nil, errors.New("user service: team service is required")
	}
	return &UserService{db: db, teams: teams, now: time.Now}, nil
}

// Register creates an account and its team record in one step.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, *models.Team, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, nil, apperrors.NewBadRequest("email is required")
	}
	if len(input.Password) < 8 {
		return nil, nil, apperrors.NewBadRequest("password must be at least 8 characters")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{Email: email, Password: hashed}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, nil, ErrEmailInUse
		}
		return nil, nil, fmt.Errorf("user service: create user: %w", err)
	}

	team, err := s.teams.GetOrCreate(ctx, user.ID, input.TeamName)
	if err != nil {
		return nil, nil, err
	}

	return user, team, nil
}

// Authenticate verifies the credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: find user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err == nil {
		user.LastLoginAt = &now
	}

	return &user, nil
}

// FindByID loads a user by primary key.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: find user: %w", err)
	}
	return &user, nil
}

// FindByEmail loads a user by email, returning nil when absent.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user service: find user by email: %w", err)
	}
	return &user, nil
}

// EmailsByIDs returns a map of user id to email for the given ids. Lookup
// failures for display enrichment are the caller's choice to swallow.
func (s *UserService) EmailsByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: load emails: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Email
	}
	return out, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/models"
	"github.com/dgarcez/rachao/pkg/crypto"
)

const (
	defaultTeamName = "Meu Time"
	maxSlugLength   = 40
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// TeamService manages the one-team-per-owner display record.
type TeamService struct {
	db *gorm.DB
}

// NewTeamService constructs a TeamService.
func NewTeamService(db *gorm.DB) (*TeamService, error) {
	if db == nil {
		return nil, errors.New("team service: db is required")
	}
	return &TeamService{db: db}, nil
}

// GetOrCreate returns the owner's team, creating it from the signup team
// name when missing. Slug collisions retry once with a random suffix.
func (s *TeamService) GetOrCreate(ctx context.Context, ownerID, name string) (*models.Team, error) {
	var existing models.Team
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("team service: find team: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultTeamName
	}

	team := &models.Team{OwnerID: ownerID, Name: name, Slug: Slugify(name)}
	if err := s.db.WithContext(ctx).Create(team).Error; err == nil {
		return team, nil
	} else if !isUniqueConstraintError(err) {
		return nil, fmt.Errorf("team service: create team: %w", err)
	}

	// Slug taken by another owner; retry once with a random suffix.
	suffix, err := crypto.RandomHex(2)
	if err != nil {
		return nil, fmt.Errorf("team service: slug suffix: %w", err)
	}
	team = &models.Team{OwnerID: ownerID, Name: name, Slug: Slugify(name) + "-" + suffix}
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		return nil, fmt.Errorf("team service: create team: %w", err)
	}
	return team, nil
}

// GetByOwner loads the team record for an owner, returning nil when the
// account has never completed signup naming.
func (s *TeamService) GetByOwner(ctx context.Context, ownerID string) (*models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("team service: find team: %w", err)
	}
	return &team, nil
}

// Slugify lowercases the name, strips accents and squeezes everything that is
// not alphanumeric into single dashes.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		plain = strings.ToLower(name)
	}

	slug := slugStrip.ReplaceAllString(plain, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "meu-time"
	}
	return slug
}

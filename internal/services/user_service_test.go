package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/dgarcez/rachao/pkg/errors"
)

func newUserFixture(t *testing.T, db *gorm.DB) *UserService {
	t.Helper()

	teams, err := NewTeamService(db)
	require.NoError(t, err)
	svc, err := NewUserService(db, teams)
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesUserAndTeam(t *testing.T) {
	db := openTestDB(t)
	svc := newUserFixture(t, db)

	user, team, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Novo@Example.COM ",
		Password: "supersecret",
		TeamName: "Galáticos",
	})
	require.NoError(t, err)
	require.Equal(t, "novo@example.com", user.Email)
	require.NotEqual(t, "supersecret", user.Password)
	require.NotNil(t, team)
	require.Equal(t, "Galáticos", team.Name)
	require.Equal(t, user.ID, team.OwnerID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db := openTestDB(t)
	svc := newUserFixture(t, db)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "novo@example.com",
		Password: "curta",
	})
	require.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	svc := newUserFixture(t, db)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Email: "novo@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Email: "NOVO@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailInUse)
}

func TestAuthenticate(t *testing.T) {
	db := openTestDB(t)
	svc := newUserFixture(t, db)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{Email: "novo@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "novo@example.com", "supersecret")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotNil(t, user.LastLoginAt)

	_, err = svc.Authenticate(ctx, "novo@example.com", "wrongpassword")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown accounts answer identically to wrong passwords.
	_, err = svc.Authenticate(ctx, "ghost@example.com", "supersecret")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestFindByEmailMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	svc := newUserFixture(t, db)

	user, err := svc.FindByEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestEmailsByIDs(t *testing.T) {
	db := openTestDB(t)
	svc := newUserFixture(t, db)
	ctx := context.Background()

	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")

	emails, err := svc.EmailsByIDs(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		a.ID: "a@example.com",
		b.ID: "b@example.com",
	}, emails)

	empty, err := svc.EmailsByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

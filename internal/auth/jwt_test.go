package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarena/platform/internal/domain"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("test-secret-key", 24*time.Hour, 8*time.Hour)
}

func TestGenerateAndValidatePlayerToken(t *testing.T) {
	mgr := newTestJWTManager()
	user := &domain.User{ID: uuid.New(), Username: "raze", Email: "raze@test.com", Role: domain.RolePlayer}

	token, err := mgr.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, domain.RolePlayer, claims.Role)
	assert.Equal(t, "raze@test.com", claims.Email)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestGenerateAndValidateAdminToken(t *testing.T) {
	mgr := newTestJWTManager()
	admin := &domain.User{ID: uuid.New(), Username: "ops", Email: "ops@test.com", Role: domain.RoleAdmin}

	token, err := mgr.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestStaffTokensExpireSooner(t *testing.T) {
	mgr := newTestJWTManager()
	player := &domain.User{ID: uuid.New(), Role: domain.RolePlayer}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	playerToken, err := mgr.GenerateToken(player)
	require.NoError(t, err)
	adminToken, err := mgr.GenerateToken(admin)
	require.NoError(t, err)

	playerClaims, err := mgr.ValidateToken(playerToken)
	require.NoError(t, err)
	adminClaims, err := mgr.ValidateToken(adminToken)
	require.NoError(t, err)

	assert.True(t, adminClaims.ExpiresAt.Before(playerClaims.ExpiresAt.Time))
}

func TestInvalidSecretRejected(t *testing.T) {
	mgr1 := NewJWTManager("secret-1", 24*time.Hour, 8*time.Hour)
	mgr2 := NewJWTManager("secret-2", 24*time.Hour, 8*time.Hour)

	token, err := mgr1.GenerateToken(&domain.User{ID: uuid.New(), Role: domain.RolePlayer})
	require.NoError(t, err)

	_, err = mgr2.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	mgr := NewJWTManager("secret", 1*time.Millisecond, 1*time.Millisecond)

	token, err := mgr.GenerateToken(&domain.User{ID: uuid.New(), Role: domain.RolePlayer})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestUnknownRoleRejected(t *testing.T) {
	mgr := newTestJWTManager()

	token, err := mgr.GenerateToken(&domain.User{ID: uuid.New(), Role: domain.Role("superuser")})
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

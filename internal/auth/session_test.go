// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damas-online/damas/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	Init()

	want := models.Identity{UserID: uuid.New(), Username: "alice", AvatarURL: "https://cdn.example/a.png"}
	token, err := CreateJWT(want)
	require.NoError(t, err)

	got, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJWTRejectsGarbage(t *testing.T) {
	Init()

	_, err := AuthenticateJWT("not-a-token")
	assert.Error(t, err)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	Init()
	token, err := CreateJWT(models.Identity{UserID: uuid.New(), Username: "bruno"})
	require.NoError(t, err)

	// Rotating the key pair invalidates previously issued tokens.
	Init()
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}

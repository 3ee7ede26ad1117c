package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invogen/internal/domain"
	"invogen/internal/session"
)

func testProfile() domain.CompanyProfile {
	return domain.CompanyProfile{
		Name:           "Acme Traders",
		Email:          "billing@acme.test",
		GSTRatePercent: 18,
		InvoiceRange:   domain.InvoiceIDRange{Lower: 100, Upper: 500},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := session.NewStore(time.Hour)

	sess := store.Create(testProfile())
	require.NotEqual(t, uuid.Nil, sess.ID)
	assert.Equal(t, "Acme Traders", sess.Profile.Name)
	assert.True(t, sess.ExpiresAt.After(sess.CreatedAt))

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestStore_GetUnknownID(t *testing.T) {
	store := session.NewStore(time.Hour)

	_, err := store.Get(uuid.New())

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_GetExpired(t *testing.T) {
	store := session.NewStore(-time.Minute)

	sess := store.Create(testProfile())

	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestStore_Delete(t *testing.T) {
	store := session.NewStore(time.Hour)
	sess := store.Create(testProfile())

	store.Delete(sess.ID)

	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting again is a no-op
	store.Delete(sess.ID)
}

func TestStore_SetLogoKey(t *testing.T) {
	store := session.NewStore(time.Hour)
	sess := store.Create(testProfile())

	old, err := store.SetLogoKey(sess.ID, "logos/a/first.png")
	require.NoError(t, err)
	assert.Empty(t, old)

	old, err = store.SetLogoKey(sess.ID, "logos/a/second.png")
	require.NoError(t, err)
	assert.Equal(t, "logos/a/first.png", old)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "logos/a/second.png", got.LogoKey)

	_, err = store.SetLogoKey(uuid.New(), "logos/b/x.png")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_Sweep(t *testing.T) {
	expired := session.NewStore(-time.Minute)
	expired.Create(testProfile())
	expired.Create(testProfile())

	assert.Equal(t, 2, expired.Len())
	assert.Equal(t, 2, expired.Sweep())
	assert.Equal(t, 0, expired.Len())

	live := session.NewStore(time.Hour)
	live.Create(testProfile())
	assert.Equal(t, 0, live.Sweep())
	assert.Equal(t, 1, live.Len())
}

func TestStore_StartSweeper(t *testing.T) {
	store := session.NewStore(-time.Minute)
	store.Create(testProfile())

	stop := make(chan struct{})
	defer close(stop)
	store.StartSweeper(10*time.Millisecond, stop)

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

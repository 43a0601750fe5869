package session

import (
	"context"
	"testing"
	"time"

	"github.com/grocerlane/gateway/pkg/enums"
	redisclient "github.com/grocerlane/gateway/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(sessionID string) string { return "gl:session:" + sessionID }

func testManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: 10 * time.Minute}
}

func testRecord() Record {
	return Record{
		UserID:        2,
		Name:          "Customer",
		Email:         "customer@grocery.dev",
		ContactNumber: "8888888888",
		Address:       "Customer Lane",
		Role:          enums.UserRoleCustomer,
		Status:        enums.AccountStatusActive,
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	store := newFakeStore()
	mgr := testManager(store)

	sessionID, err := mgr.Create(context.Background(), testRecord())
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, 10*time.Minute, store.ttls["gl:session:"+sessionID])

	rec, err := mgr.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.UserID)
	assert.Equal(t, enums.AccountStatusActive, rec.Status)
}

func TestManagerCreateRequiresUserID(t *testing.T) {
	mgr := testManager(newFakeStore())
	_, err := mgr.Create(context.Background(), Record{})
	require.Error(t, err)
}

func TestManagerGetMissing(t *testing.T) {
	mgr := testManager(newFakeStore())
	_, err := mgr.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = mgr.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerUpdateAndRevoke(t *testing.T) {
	store := newFakeStore()
	mgr := testManager(store)

	sessionID, err := mgr.Create(context.Background(), testRecord())
	require.NoError(t, err)

	updated := testRecord()
	updated.Status = enums.AccountStatusDeactivated
	require.NoError(t, mgr.Update(context.Background(), sessionID, updated))

	rec, err := mgr.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusDeactivated, rec.Status)

	require.NoError(t, mgr.Revoke(context.Background(), sessionID))
	_, err = mgr.Get(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

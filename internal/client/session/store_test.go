package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/carrental-client/internal/client/storage/memory"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStorage wraps memory storage and fails writes on demand.
type failingStorage struct {
	*memory.Store
	failWrites bool
}

var errWrite = errors.New("disk full")

func (f *failingStorage) Set(ctx context.Context, k string, v []byte) error {
	if f.failWrites {
		return errWrite
	}
	return f.Store.Set(ctx, k, v)
}

func (f *failingStorage) SetMany(ctx context.Context, m map[string][]byte) error {
	if f.failWrites {
		return errWrite
	}
	return f.Store.SetMany(ctx, m)
}

func (f *failingStorage) Delete(ctx context.Context, keys ...string) error {
	if f.failWrites {
		return errWrite
	}
	return f.Store.Delete(ctx, keys...)
}

func newStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	mem := memory.New()
	return NewStore(mem, logging.NewNop()), mem
}

func TestSetAuth_InitialProfile(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, StatusActive, s.Status())
	assert.Equal(t, &Profile{UserID: 42, Username: "bob"}, s.User())
	assert.Equal(t, EncodeCredential("bob", "pw"), s.Credential())
}

func TestSetAuth_WritesThrough(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	cred, ok, err := mem.Get(ctx, KeyCredentials)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, string(EncodeCredential("bob", "pw")), string(cred))

	user, ok, err := mem.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"userId":42,"username":"bob"}`, string(user))
}

func TestClearAuth_Idempotent(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	require.NoError(t, s.ClearAuth(ctx))
	once := []any{s.IsAuthenticated(), s.Status(), s.User(), s.Credential(), mem.Len()}

	require.NoError(t, s.ClearAuth(ctx))
	twice := []any{s.IsAuthenticated(), s.Status(), s.User(), s.Credential(), mem.Len()}

	assert.Equal(t, once, twice)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Equal(t, 0, mem.Len())
}

func TestUpdateUser_NoSessionIsNoop(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateUser(ctx, map[string]any{"x": "v"}))

	assert.Nil(t, s.User())
	assert.Equal(t, 0, mem.Len())
}

func TestUpdateUser_MergesAndPersists(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	require.NoError(t, s.UpdateUser(ctx, map[string]any{"x": "v", "firstName": "Bob"}))

	u := s.User()
	assert.Equal(t, int64(42), u.UserID)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, "Bob", u.FirstName)
	assert.Equal(t, "v", u.Extra["x"])

	raw, _, err := mem.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":42,"username":"bob","firstName":"Bob","x":"v"}`, string(raw))
}

func TestUser_ReturnsCopy(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	u := s.User()
	u.Username = "mallory"

	assert.Equal(t, "bob", s.User().Username)
}

func TestLoad_ReconstructsAfterReload(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()

	first := NewStore(mem, logging.NewNop())
	require.NoError(t, first.SetAuth(ctx, "bob", "pw", 42))
	require.NoError(t, first.UpdateUser(ctx, map[string]any{"lastName": "Builder"}))

	reloaded := NewStore(mem, logging.NewNop())
	require.NoError(t, reloaded.Load(ctx))

	assert.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, first.Credential(), reloaded.Credential())
	assert.Equal(t, first.User(), reloaded.User())
	assert.Equal(t, StatusPending, reloaded.Status())

	p, err := reloaded.ConfirmUser(ctx, reloaded.Credential(), nil)
	require.NoError(t, err)
	assert.Equal(t, first.User(), p)
	assert.Equal(t, StatusActive, reloaded.Status())
}

func TestConfirmUser_OtherCredentialIsNoop(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))
	stale := s.Credential()

	require.NoError(t, s.ClearAuth(ctx))
	require.NoError(t, s.SetAuth(ctx, "alice", "pw2", 7))

	p, err := s.ConfirmUser(ctx, stale, map[string]any{"userId": 42, "username": "bob"})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, &Profile{UserID: 7, Username: "alice"}, s.User())

	raw, found, err := mem.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"userId":7,"username":"alice"}`, string(raw))
}

func TestConfirmUser_NoProfileIsNoop(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyCredentials, []byte(EncodeCredential("bob", "pw"))))
	require.NoError(t, s.Load(ctx))

	p, err := s.ConfirmUser(ctx, s.Credential(), map[string]any{"userId": 42})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, StatusPending, s.Status())
}

func TestClearAuthIf(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))
	bob := s.Credential()
	require.NoError(t, s.SetAuth(ctx, "alice", "pw2", 7))

	ok, err := s.ClearAuthIf(ctx, bob)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, 2, mem.Len())

	ok, err = s.ClearAuthIf(ctx, s.Credential())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, mem.Len())
}

func TestSnapshot_ConsistentPair(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.SetAuth(context.Background(), "bob", "pw", 42))

	cred, p := s.Snapshot()
	assert.Equal(t, EncodeCredential("bob", "pw"), cred)
	require.NotNil(t, p)
	p.Username = "mutated"
	assert.Equal(t, "bob", s.User().Username)
}

func TestLoad_EmptyStorage(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, StatusAbsent, s.Status())
}

func TestLoad_OrphanProfileDropped(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyUser, []byte(`{"userId":1,"username":"ghost"}`)))

	require.NoError(t, s.Load(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	_, ok, _ := mem.Get(ctx, KeyUser)
	assert.False(t, ok)
}

func TestLoad_CorruptProfileLeavesPending(t *testing.T) {
	s, mem := newStore(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyCredentials, []byte(EncodeCredential("bob", "pw"))))
	require.NoError(t, mem.Set(ctx, KeyUser, []byte(`{not json`)))

	require.NoError(t, s.Load(ctx))

	assert.True(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Equal(t, StatusPending, s.Status())
}

func TestWriteFailure_LeavesMemoryUnchanged(t *testing.T) {
	fs := &failingStorage{Store: memory.New()}
	s := NewStore(fs, logging.NewNop())
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	fs.failWrites = true

	require.ErrorIs(t, s.SetAuth(ctx, "alice", "pw2", 7), errWrite)
	require.ErrorIs(t, s.UpdateUser(ctx, map[string]any{"firstName": "Bob"}), errWrite)
	require.ErrorIs(t, s.ClearAuth(ctx), errWrite)

	assert.Equal(t, &Profile{UserID: 42, Username: "bob"}, s.User())
	assert.True(t, s.IsAuthenticated())
}

func TestMemoryOnlyStore(t *testing.T) {
	s := NewStore(nil, nil)
	ctx := context.Background()

	assert.False(t, s.Durable())
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))
	require.NoError(t, s.UpdateUser(ctx, map[string]any{"firstName": "Bob"}))
	assert.Equal(t, "Bob", s.User().FirstName)
	require.NoError(t, s.ClearAuth(ctx))
	assert.False(t, s.IsAuthenticated())
}

func TestUpdateUser_ConcurrentMergesAreNotLost(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetAuth(ctx, "bob", "pw", 42))

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			_ = s.UpdateUser(ctx, map[string]any{k: true})
		}(k)
	}
	wg.Wait()

	u := s.User()
	for _, k := range keys {
		assert.Equal(t, true, u.Extra[k], k)
	}
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	err     error
	updated backend.UserUpdate
}

func (f *fakeBackend) Login(_ context.Context, username, _ string) (domain.User, string, error) {
	if f.err != nil {
		return domain.User{}, "", f.err
	}
	return domain.User{ID: 3, Username: username, Name: "Budi", Role: domain.RoleFor(username)}, "tok-" + username, nil
}

func (f *fakeBackend) GetUser(_ context.Context, _ string, id int64) (domain.User, error) {
	return domain.User{ID: id, Username: "kasir1", Name: "Budi", Email: "budi@toko.id", Role: domain.RoleStaff}, nil
}

func (f *fakeBackend) UpdateUser(_ context.Context, _ string, id int64, in backend.UserUpdate) (domain.User, error) {
	f.updated = in
	return domain.User{ID: id, Username: in.Username, Name: in.Name, Email: in.Email, Phone: in.Phone, Role: domain.RoleStaff}, nil
}

func setup(t *testing.T) (*Manager, *fakeBackend, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	fb := &fakeBackend{}
	return NewManager(fb, fb, NewRedisStore(client, time.Hour), nil), fb, mr
}

func TestLogin_StoresSession(t *testing.T) {
	m, _, mr := setup(t)
	ctx := context.Background()

	s, err := m.Login(ctx, "admin", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, "tok-admin", s.Token)
	assert.Equal(t, domain.RoleOwner, s.User.Role)
	assert.True(t, mr.Exists("session:"+s.ID))

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Token, got.Token)
	assert.Equal(t, s.User, got.User)
}

func TestLogin_Validation(t *testing.T) {
	m, fb, _ := setup(t)

	_, err := m.Login(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	fb.err = errors.New("login gagal")
	_, err = m.Login(context.Background(), "kasir1", "x")
	assert.ErrorIs(t, err, fb.err)
}

func TestLogout_Teardown(t *testing.T) {
	m, _, _ := setup(t)
	ctx := context.Background()
	s, err := m.Login(ctx, "kasir1", "x")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx, s.ID))

	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	m, _, mr := setup(t)
	ctx := context.Background()
	s, err := m.Login(ctx, "kasir1", "x")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile_KeepsSessionInSync(t *testing.T) {
	m, fb, _ := setup(t)
	ctx := context.Background()
	s, err := m.Login(ctx, "kasir1", "x")
	require.NoError(t, err)

	u, err := m.UpdateProfile(ctx, s, ProfileUpdate{Name: "Budi S", Email: "b@toko.id", Phone: "0812"})
	require.NoError(t, err)

	assert.Equal(t, "kasir1", fb.updated.Username)
	assert.Equal(t, placeholderPassword, fb.updated.Password)
	assert.Equal(t, "Budi S", u.Name)

	stored, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "0812", stored.User.Phone)
	assert.Equal(t, domain.RoleStaff, stored.User.Role)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "x"}
	got, ok := FromContext(WithContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}

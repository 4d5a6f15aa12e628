package session

import (
	"context"
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator is the backend login call.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.User, string, error)
}

type Profiles interface {
	GetUser(ctx context.Context, token string, id int64) (domain.User, error)
	UpdateUser(ctx context.Context, token string, id int64, in backend.UserUpdate) (domain.User, error)
}

// Dipakai backend saat PATCH user kalau password asli tidak diketahui.
const placeholderPassword = "password123"

type Manager struct {
	auth     Authenticator
	profiles Profiles
	store    Store
	log      *zap.Logger
	now      func() time.Time
}

func NewManager(auth Authenticator, profiles Profiles, store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{auth: auth, profiles: profiles, store: store, log: log, now: time.Now}
}

func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidLogin
	}
	user, token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.log.Info("login", zap.String("session_id", s.ID), zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return m.store.Load(ctx, id)
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.log.Info("logout", zap.String("session_id", id))
	return nil
}

// Profile reloads the signed-in user from the backend.
func (m *Manager) Profile(ctx context.Context, s *Session) (domain.User, error) {
	u, err := m.profiles.GetUser(ctx, s.Token, s.User.ID)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = s.User.Role
	return u, nil
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateProfile patches name, email and phone and keeps the stored session
// in sync.
func (m *Manager) UpdateProfile(ctx context.Context, s *Session, in ProfileUpdate) (domain.User, error) {
	u, err := m.profiles.UpdateUser(ctx, s.Token, s.User.ID, backend.UserUpdate{
		Email:    in.Email,
		Username: s.User.Username,
		Password: placeholderPassword,
		Name:     in.Name,
		Phone:    in.Phone,
	})
	if err != nil {
		return domain.User{}, err
	}
	u.Role = s.User.Role
	if u.Username == "" {
		u.Username = s.User.Username
	}
	updated := *s
	updated.User = u
	if err := m.store.Save(ctx, &updated); err != nil {
		return domain.User{}, err
	}
	*s = updated
	return u, nil
}

package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

type AuthService struct {
	Users    repo.UserRepository
	Sessions *SessionManager
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, sessions *SessionManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Logger: logger}
}

// Register creates a user. It does not log the user in.
//
// The username check and the insert are separate statements, so two
// concurrent registrations can both pass the check; the UNIQUE constraint
// then rejects the second insert and it is reported the same way.
func (s *AuthService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	existing, err := s.Users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, usernameTaken(username)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, usernameTaken(username)
		}
		return nil, err
	}
	registrations.Add(1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

// Authenticate checks credentials without touching the session.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrBadPassword
	}
	return u, nil
}

// Login authenticates and establishes a fresh session, discarding the
// session carried by prior (if any).
func (s *AuthService) Login(ctx context.Context, prior, username, password string) (*entity.User, Session, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrAuth) {
			loginFailures.Add(1)
		}
		return nil, Session{}, err
	}
	sess, err := s.Sessions.Establish(ctx, prior, u.ID)
	if err != nil {
		return nil, Session{}, err
	}
	logins.Add(1)
	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return u, sess, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Clear(ctx, token)
}

// CurrentUser resolves token and re-reads the user it names. A valid token
// for a user that no longer exists yields no identity. Only storage
// failures are returned as errors.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	uid, ok := s.Sessions.Resolve(ctx, token)
	if !ok {
		return nil, nil
	}
	u, err := s.Users.GetByID(ctx, uid)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

// RevocationStore remembers session ids that were logged out or replaced.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Session is an issued session token. A zero Expires means no expiry.
type Session struct {
	Token   string
	Expires time.Time
}

// SessionManager maps signed client-held tokens to user ids. All session
// state lives in the token; the server only keeps revoked ids.
type SessionManager struct {
	tokens  *helpers.JWTManager
	revoked RevocationStore
	logger  *logrus.Logger
	newID   func() string
}

func NewSessionManager(tokens *helpers.JWTManager, revoked RevocationStore, logger *logrus.Logger) *SessionManager {
	return &SessionManager{tokens: tokens, revoked: revoked, logger: logger, newID: uuid.NewString}
}

// Establish issues a token for userID. Any token the client already held is
// revoked first so a session cannot be carried across a login.
func (m *SessionManager) Establish(ctx context.Context, prior string, userID int64) (Session, error) {
	if prior != "" {
		if err := m.Clear(ctx, prior); err != nil {
			m.logger.WithError(err).Warn("revoke prior session failed")
		}
	}
	token, exp, err := m.tokens.GenerateSessionToken(userID, m.newID())
	if err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Error("generate session token failed")
		return Session{}, err
	}
	return Session{Token: token, Expires: exp}, nil
}

// Resolve returns the user id carried by token. Missing, forged, expired or
// revoked tokens resolve to no identity. If revocation state cannot be read
// the token is not trusted.
func (m *SessionManager) Resolve(ctx context.Context, token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	claims, err := m.tokens.ParseSessionToken(token)
	if err != nil {
		m.logger.WithError(err).Debug("session token rejected")
		return 0, false
	}
	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			m.logger.WithError(err).Warn("session revocation lookup failed")
			return 0, false
		}
		if revoked {
			return 0, false
		}
	}
	return claims.UserID, true
}

// Clear revokes token. Tokens that do not verify are ignored since they
// already resolve to nothing.
func (m *SessionManager) Clear(ctx context.Context, token string) error {
	if token == "" || m.revoked == nil {
		return nil
	}
	claims, err := m.tokens.ParseSessionToken(token)
	if err != nil {
		return nil
	}
	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return m.revoked.Revoke(ctx, claims.ID, until)
}

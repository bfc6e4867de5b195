package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func TestRegister_RejectsEmptyFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, "", "pw")
	require.ErrorIs(t, err, ErrEmptyUsername)
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.Auth.Register(ctx, "alice", "")
	require.ErrorIs(t, err, ErrEmptyPassword)

	// username is reported first when both are missing
	_, err = env.Auth.Register(ctx, "", "")
	require.ErrorIs(t, err, ErrEmptyUsername)
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1")

	for _, pw := range []string{"pw1", "pw2", "something else"} {
		_, err := env.Auth.Register(context.Background(), "alice", pw)
		require.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "User alice is already registered.", err.Error())
	}
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "alice", "pw1")

	stored, err := env.Auth.Users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
	assert.NotEqual(t, "pw1", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "pw1"))
	assert.False(t, helpers.CompareHashAndPassword(stored.Password, "pw2"))
}

func TestLogin_AfterRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw1")

	u, sess, err := env.Auth.Login(ctx, "", "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	require.NotEmpty(t, sess.Token)
	assert.True(t, sess.Expires.IsZero())

	uid, ok := env.Sessions.Resolve(ctx, sess.Token)
	require.True(t, ok)
	assert.Equal(t, alice.ID, uid)
}

func TestLogin_LongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pw := strings.Repeat("p", 100)
	alice := env.register(t, "alice", pw)

	u, sess, err := env.Auth.Login(ctx, "", "alice", pw)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.NotEmpty(t, sess.Token)

	_, _, err = env.Auth.Login(ctx, "", "alice", pw[:72])
	require.ErrorIs(t, err, ErrBadPassword)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "pw1")

	_, _, err := env.Auth.Login(ctx, "", "alice", "wrong")
	require.ErrorIs(t, err, ErrBadPassword)
	require.ErrorIs(t, err, ErrAuth)

	_, _, err = env.Auth.Login(ctx, "", "bob", "pw1")
	require.ErrorIs(t, err, ErrUnknownUser)
	require.ErrorIs(t, err, ErrAuth)

	_, _, err = env.Auth.Login(ctx, "", "Alice", "pw1")
	require.ErrorIs(t, err, ErrUnknownUser)

	assert.NotEqual(t, Message(ErrBadPassword), Message(ErrUnknownUser))
}

func TestLogin_RevokesPriorSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "pw1")
	bob := env.register(t, "bob", "pw2")

	_, first, err := env.Auth.Login(ctx, "", "alice", "pw1")
	require.NoError(t, err)

	_, second, err := env.Auth.Login(ctx, first.Token, "bob", "pw2")
	require.NoError(t, err)

	_, ok := env.Sessions.Resolve(ctx, first.Token)
	assert.False(t, ok)
	uid, ok := env.Sessions.Resolve(ctx, second.Token)
	require.True(t, ok)
	assert.Equal(t, bob.ID, uid)
}

func TestLogout_OldTokenNoLongerResolves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "pw1")
	_, sess, err := env.Auth.Login(ctx, "", "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, env.Auth.Logout(ctx, sess.Token))

	u, err := env.Auth.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw1")
	_, sess, err := env.Auth.Login(ctx, "", "alice", "pw1")
	require.NoError(t, err)

	u, err := env.Auth.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, alice.ID, u.ID)

	for _, tok := range []string{"", "junk", sess.Token + "x"} {
		u, err := env.Auth.CurrentUser(ctx, tok)
		require.NoError(t, err)
		assert.Nil(t, u, tok)
	}
}

func TestCurrentUser_TokenForMissingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.Sessions.Establish(ctx, "", 4242)
	require.NoError(t, err)

	u, err := env.Auth.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

// fakeUsers simulates storage behaviour the SQLite store cannot be pushed into.
type fakeUsers struct {
	getErr    error
	createErr error
}

func (f *fakeUsers) Create(context.Context, *entity.User) error { return f.createErr }
func (f *fakeUsers) GetByID(context.Context, int64) (*entity.User, error) {
	return nil, f.getErr
}
func (f *fakeUsers) GetByUsername(context.Context, string) (*entity.User, error) {
	return nil, f.getErr
}

func TestRegister_ConcurrentInsertReportsConflict(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(&fakeUsers{getErr: repo.ErrNotFound, createErr: repo.ErrDuplicate}, env.Sessions, helpers.NewNopLogger())

	_, err := svc.Register(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User alice is already registered.", err.Error())
}

func TestStorageFailuresAreNotDomainErrors(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("database is locked")
	svc := NewAuthService(&fakeUsers{getErr: boom}, env.Sessions, helpers.NewNopLogger())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw")
	require.ErrorIs(t, err, boom)
	assert.Empty(t, Message(err))

	_, _, err = svc.Login(ctx, "", "alice", "pw")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAuth)

	sess, err := env.Sessions.Establish(ctx, "", 1)
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, sess.Token)
	require.ErrorIs(t, err, boom)
}

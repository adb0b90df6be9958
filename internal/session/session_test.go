package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/middleware"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSession_SignInFromToken(t *testing.T) {
	id := uuid.New()
	token, err := middleware.NewJWTAuth("secret").GenerateAccessToken(id, "Ada", "ada@example.com", time.Hour)
	require.NoError(t, err)

	s := New(quietLogger())
	user, err := s.SignIn(token)
	require.NoError(t, err)

	assert.Equal(t, User{ID: id, Name: "Ada", Email: "ada@example.com"}, user)
	assert.Equal(t, token, s.Token())

	current, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, user, current)
}

func TestSession_SignInRejectsGarbage(t *testing.T) {
	s := New(quietLogger())

	_, err := s.SignIn("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_SignOut(t *testing.T) {
	s := New(quietLogger())
	s.SignInAs(User{Name: "Ada"})

	current, ok := s.Current()
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, current.ID)

	s.SignOut()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestSession_SubscribeCalledImmediatelyAndOnChange(t *testing.T) {
	s := New(quietLogger())

	var seen []*User
	unsubscribe := s.Subscribe(func(u *User) { seen = append(seen, u) })

	s.SignInAs(User{Name: "Ada"})
	s.SignOut()
	unsubscribe()
	s.SignInAs(User{Name: "Grace"})

	require.Len(t, seen, 3)
	assert.Nil(t, seen[0])
	require.NotNil(t, seen[1])
	assert.Equal(t, "Ada", seen[1].Name)
	assert.Nil(t, seen[2])
}

func TestSession_PanickingObserverIsolated(t *testing.T) {
	s := New(quietLogger())

	var before, after int
	s.Subscribe(func(u *User) { before++ })
	s.Subscribe(func(u *User) {
		if u != nil {
			panic("boom")
		}
	})
	s.Subscribe(func(u *User) { after++ })

	assert.NotPanics(t, func() { s.SignInAs(User{Name: "Ada"}) })
	assert.Equal(t, 2, before)
	assert.Equal(t, 2, after)
}

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("session: invalid identity token")

// User is the signed-in identity as reported by the identity provider.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Observer is told about every sign-in and sign-out. A nil user means signed out.
type Observer func(user *User)

// Session holds the current identity and an explicit list of observers.
// Observers are isolated from one another: a panicking observer is logged
// and the rest still run.
type Session struct {
	mu        sync.Mutex
	user      *User
	token     string
	observers map[int]Observer
	nextID    int
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		observers: make(map[int]Observer),
		logger:    logger,
	}
}

// SignIn adopts the identity carried by an access token. The token is
// verified by the proxy, so only its claims are read here.
func (s *Session) SignIn(token string) (User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	idStr, _ := claims["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return User{}, fmt.Errorf("%w: user_id claim: %v", ErrInvalidToken, err)
	}

	user := User{ID: id}
	user.Name, _ = claims["name"].(string)
	user.Email, _ = claims["email"].(string)

	s.set(&user, token)
	return user, nil
}

// SignInAs adopts user directly, with no token to forward.
func (s *Session) SignInAs(user User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.set(&user, "")
}

func (s *Session) SignOut() {
	s.set(nil, "")
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the bearer token for the current user, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn and immediately calls it with the current state.
// The returned function removes it.
func (s *Session) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	current := copyUser(s.user)
	s.mu.Unlock()

	s.call(fn, current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(user *User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	observers := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range observers {
		s.call(fn, copyUser(user))
	}
}

func (s *Session) call(fn Observer, user *User) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("session observer panicked", "panic", rec)
		}
	}()
	fn(user)
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

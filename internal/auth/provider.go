package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// State is one auth-state change. Email is empty after a sign-out.
type State struct {
	SignedIn bool
	Email    string
	At       time.Time
}

// Provider checks email/password credentials against the configured admin
// account and issues sessions.
type Provider struct {
	email        string
	passwordHash []byte
	ttl          time.Duration
	store        SessionStore
	log          *zap.Logger
	now          func() time.Time

	mu          sync.Mutex
	subscribers map[chan State]struct{}
}

func NewProvider(email, passwordHash string, ttl time.Duration, store SessionStore, log *zap.Logger) *Provider {
	return &Provider{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		store:        store,
		log:          log,
		now:          time.Now,
		subscribers:  make(map[chan State]struct{}),
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if p.email == "" || len(p.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	given := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(given), []byte(p.email)) == 1
	// always run bcrypt so a wrong email costs as much as a wrong password
	pwErr := bcrypt.CompareHashAndPassword(p.passwordHash, []byte(password))
	if !emailOK || pwErr != nil {
		p.log.Info("sign-in rejected", zap.String("email", given))
		return nil, ErrInvalidCredentials
	}

	s := &Session{
		Token:     uuid.NewString(),
		Email:     p.email,
		ExpiresAt: p.now().Add(p.ttl),
	}
	if err := p.store.Save(ctx, s); err != nil {
		return nil, err
	}
	p.publish(State{SignedIn: true, Email: s.Email, At: p.now()})
	return s, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	if _, err := p.store.Get(ctx, token); err != nil {
		return err
	}
	if err := p.store.Delete(ctx, token); err != nil {
		return err
	}
	p.publish(State{SignedIn: false, At: p.now()})
	return nil
}

func (p *Provider) Session(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	s, err := p.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.Expired(p.now()) {
		return nil, ErrInvalidSession
	}
	return s, nil
}

// Subscribe streams auth-state changes until ctx is done, then closes the
// channel. Slow subscribers miss states rather than block sign-ins.
func (p *Provider) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, 8)
	p.mu.Lock()
	p.subscribers[ch] = struct{}{}
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.subscribers, ch)
		close(ch)
		p.mu.Unlock()
	}()
	return ch
}

func (p *Provider) publish(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subscribers {
		select {
		case ch <- s:
		default:
			p.log.Warn("auth state dropped for slow subscriber")
		}
	}
}

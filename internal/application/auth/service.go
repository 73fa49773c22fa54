// Package auth logs users in against the account table and keeps their
// sessions in a short-lived or a long-lived store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/geritapp/gerit/internal/domain/auth"
)

const (
	DefaultTTL         = 12 * time.Hour
	DefaultRememberTTL = 30 * 24 * time.Hour

	// ExpiredGrace is how long stores keep a session past its expiry, so
	// Restore can still report it as expired rather than unknown.
	ExpiredGrace = 24 * time.Hour
)

// NewAccount hashes password for user.
func NewAccount(user domain.User, password string) (domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password for %s: %w", user.Email, err)
	}
	if user.Initials == "" {
		user.Initials = domain.Initials(user.Name)
	}
	return domain.Account{User: user, PasswordHash: hash}, nil
}

// Observer is told about every login attempt.
type Observer interface {
	ObserveLogin(ok bool)
}

type Config struct {
	// Short keeps sessions that end with the browser; Long keeps
	// remembered ones.
	Short       domain.Store
	Long        domain.Store
	TTL         time.Duration
	RememberTTL time.Duration
	Clock       clockwork.Clock
	Logger      *logrus.Logger
	Observer    Observer
}

type Service struct {
	accounts map[string]domain.Account
	short    domain.Store
	long     domain.Store
	ttl      time.Duration
	remember time.Duration
	clock    clockwork.Clock
	observer Observer
	log      *logrus.Entry
}

func NewService(accounts []domain.Account, cfg Config) *Service {
	if cfg.Long == nil {
		cfg.Long = cfg.Short
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = DefaultRememberTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	byEmail := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byEmail[emailKey(a.User.Email)] = a
	}

	return &Service{
		accounts: byEmail,
		short:    cfg.Short,
		long:     cfg.Long,
		ttl:      cfg.TTL,
		remember: cfg.RememberTTL,
		clock:    cfg.Clock,
		observer: cfg.Observer,
		log:      cfg.Logger.WithField("component", "auth"),
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *Service) Login(ctx context.Context, email, password string, remember bool) (domain.Session, error) {
	account, ok := s.accounts[emailKey(email)]
	if !ok || bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		s.observe(false)
		s.log.WithField("email", emailKey(email)).Info("login rejected")
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	store, ttl := s.short, s.ttl
	if remember {
		store, ttl = s.long, s.remember
	}

	session := domain.Session{
		Token:    uuid.NewString(),
		User:     account.User,
		Expiry:   s.clock.Now().Add(ttl).UnixMilli(),
		Remember: remember,
	}
	blob, err := json.Marshal(session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := store.Set(ctx, domain.Key(session.Token), blob, ttl+ExpiredGrace); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}

	s.observe(true)
	s.log.WithFields(logrus.Fields{"user_id": account.User.ID, "remember": remember}).Info("login")
	return session, nil
}

// Restore loads the session behind token. An expired session is removed
// and reported as ErrSessionExpired.
func (s *Service) Restore(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	for _, store := range s.stores() {
		blob, err := store.Get(ctx, domain.Key(token))
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return domain.Session{}, fmt.Errorf("load session: %w", err)
		}

		var session domain.Session
		if err := json.Unmarshal(blob, &session); err != nil {
			_ = store.Delete(ctx, domain.Key(token))
			return domain.Session{}, domain.ErrSessionNotFound
		}
		session.Token = token

		if session.Expired(s.clock.Now()) {
			_ = store.Delete(ctx, domain.Key(token))
			return domain.Session{}, domain.ErrSessionExpired
		}
		return session, nil
	}
	return domain.Session{}, domain.ErrSessionNotFound
}

func (s *Service) Logout(ctx context.Context, token string) error {
	var errs []error
	for _, store := range s.stores() {
		if err := store.Delete(ctx, domain.Key(token)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) stores() []domain.Store {
	if s.long == s.short {
		return []domain.Store{s.short}
	}
	return []domain.Store{s.short, s.long}
}

func (s *Service) observe(ok bool) {
	if s.observer != nil {
		s.observer.ObserveLogin(ok)
	}
}

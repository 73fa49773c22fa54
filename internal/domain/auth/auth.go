package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// KeyPrefix namespaces session blobs in a Store.
const KeyPrefix = "gerit.auth."

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

type Account struct {
	User         User
	PasswordHash []byte
}

// Session is the persisted login: the user plus an absolute expiry in Unix
// milliseconds.
type Session struct {
	Token    string `json:"-"`
	User     User   `json:"user"`
	Expiry   int64  `json:"expiry"`
	Remember bool   `json:"remember"`
}

func (s Session) Expired(now time.Time) bool {
	return now.UnixMilli() >= s.Expiry
}

func (s Session) ExpiresAt() time.Time {
	return time.UnixMilli(s.Expiry)
}

func Key(token string) string {
	return KeyPrefix + token
}

// Store keeps session blobs with a time to live. Get returns
// ErrSessionNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Initials takes the first letter of the first and last words of name.
func Initials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return unicode.IsSpace(r) || r == '-' })
	if len(words) == 0 {
		return ""
	}

	first, _ := utf8.DecodeRuneInString(words[0])
	out := string(unicode.ToUpper(first))
	if len(words) > 1 {
		last, _ := utf8.DecodeRuneInString(words[len(words)-1])
		out += string(unicode.ToUpper(last))
	}
	return out
}

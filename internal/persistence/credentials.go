package persistence

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the explicit auth session: loaded from its backing file
// once at startup, updated on login, cleared on logout. The HTTP client
// reads the bearer token from here instead of from ambient storage.
type Credentials struct {
	path string

	mu    sync.RWMutex
	token string
}

// LoadCredentials builds the session from the backing file. A missing file
// just means nobody is logged in.
func LoadCredentials(path string) *Credentials {
	c := &Credentials{path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
		return c
	}

	c.token = strings.TrimSpace(string(content))
	return c
}

// Token returns the stored bearer credential, if any.
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// Store persists a fresh credential, replacing any previous one.
func (c *Credentials) Store(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(c.path, []byte(token), 0o600); err != nil {
		return err
	}
	c.token = token
	return nil
}

// Clear logs out: the backing file is removed and the in-memory credential
// dropped even if the removal fails.
func (c *Credentials) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Expired reports whether the stored credential is a JWT whose exp claim has
// passed. Tokens without a parsable exp claim are not treated as expired;
// the backend remains the authority on rejection.
func (c *Credentials) Expired() bool {
	token, ok := c.Token()
	if !ok {
		return false
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}

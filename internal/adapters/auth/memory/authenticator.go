// Package memory disponibiliza um registro de usuários em memória, usado como
// colaborador de autenticação enquanto o subsistema real de sessão não existe.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurulost/FitnessForge/internal/core/ports"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type account struct {
	user         ports.User
	passwordHash []byte
}

type Authenticator struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

var _ ports.Authenticator = (*Authenticator)(nil)

// NewAuthenticator uses bcrypt.DefaultCost when cost is zero.
func NewAuthenticator(cost int) *Authenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{
		accounts: make(map[string]account),
		cost:     cost,
	}
}

func (a *Authenticator) Register(_ context.Context, username, password string) (ports.User, error) {
	username = normalize(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ports.User{}, fmt.Errorf("%w: longer than %d bytes", ports.ErrInvalidPassword, maxPasswordBytes)
	}
	if err != nil {
		return ports.User{}, fmt.Errorf("hashing password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.accounts[username]; exists {
		return ports.User{}, ports.ErrUserExists
	}

	user := ports.User{ID: xid.New().String(), Username: username}
	a.accounts[username] = account{user: user, passwordHash: hash}
	return user, nil
}

func (a *Authenticator) Login(_ context.Context, username, password string) (ports.User, error) {
	a.mu.RLock()
	acc, ok := a.accounts[normalize(username)]
	a.mu.RUnlock()
	// registration never stores such a password
	if !ok || len(password) > maxPasswordBytes {
		return ports.User{}, ports.ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ports.User{}, ports.ErrInvalidCredentials
	}
	if err != nil {
		return ports.User{}, fmt.Errorf("comparing password: %w", err)
	}
	return acc.user, nil
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

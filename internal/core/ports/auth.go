package ports

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidPassword    = errors.New("password is not acceptable")
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Authenticator é o colaborador de autenticação consumido pelas rotas de login e registro.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (User, error)
	Login(ctx context.Context, username, password string) (User, error)
}

// Package store owns the local accounts that OAuth identities reconcile into.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica que no existe cuenta con ese username.
var ErrNotFound = errors.New("store: account not found")

// ErrDuplicate indica que ya existe una cuenta con ese username.
var ErrDuplicate = errors.New("store: duplicate username")

// State es el estado de una cuenta local.
type State string

const (
	StateEnabled  State = "enabled"
	StateDisabled State = "disabled"
)

// Account es una cuenta local. Username es la natural key que ata una
// identidad externa a exactamente una cuenta por proveedor.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Locale       string
	State        State
	Provider     string
	ExternalID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore es el colaborador de persistencia de cuentas.
type UserStore interface {
	// ByUsername carga una cuenta. Retorna ErrNotFound si no existe.
	ByUsername(ctx context.Context, username string) (*Account, error)

	// Create inserta una cuenta nueva. Completa ID y timestamps.
	// Retorna ErrDuplicate si el username ya existe.
	Create(ctx context.Context, a *Account) error

	// Save persiste los campos mutables de una cuenta existente.
	Save(ctx context.Context, a *Account) error

	// Close libera recursos del driver.
	Close()
}

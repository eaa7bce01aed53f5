package interfaces

import (
	"context"
	"errors"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
)

// ErrUserNotFound is returned (wrapped) by all repository backends when a
// lookup misses. Callers match it with errors.Is.
var ErrUserNotFound = errors.New("user not found")

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Close() error
}

// UserRepository provides storage operations for user records.
//
// GetByEmail is a scan on file and memory backends; acceptable for the small
// admin-managed user bases this service targets.
type UserRepository interface {
	// GetAll retrieves every stored user record
	GetAll(ctx context.Context) ([]*model.User, error)

	// GetByID retrieves a single user by ID
	GetByID(ctx context.Context, id types.UserID) (*model.User, error)

	// GetByEmail retrieves a single user by normalized email
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Put creates or replaces a user record
	Put(ctx context.Context, user *model.User) error

	// Delete removes a user record
	Delete(ctx context.Context, id types.UserID) error
}

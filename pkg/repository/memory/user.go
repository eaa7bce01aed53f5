package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

// GetAll retrieves all users from memory
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		// Return a deep copy to prevent external modifications
		userCopy := *user
		users = append(users, &userCopy)
	}

	return users, nil
}

// GetByID retrieves a single user by ID
func (r *userRepository) GetByID(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("id", id))
	}

	userCopy := *user
	return &userCopy, nil
}

// GetByEmail retrieves a single user by normalized email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = model.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			userCopy := *user
			return &userCopy, nil
		}
	}

	return nil, goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("email", email))
}

// Put creates or replaces a user record
func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a deep copy to prevent external modifications
	userCopy := *user
	userCopy.Email = model.NormalizeEmail(user.Email)
	r.users[user.ID] = &userCopy

	return nil
}

// Delete removes a user record
func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("id", id))
	}
	delete(r.users, id)

	return nil
}

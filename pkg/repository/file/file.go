package file

import (
	"context"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
)

// Repository is a flat-file repository. The whole store lives in a single
// JSON document keyed by user ID and is rewritten atomically on every
// mutation, so a crash mid-write never leaves a truncated store behind.
type Repository struct {
	user *userRepository
}

var _ interfaces.Repository = &Repository{}

// New opens (or creates) the store at path. A missing or corrupt file is
// replaced by a fresh store holding only the seed record, so a new
// deployment is immediately operable.
func New(ctx context.Context, path string, seed *model.User) (*Repository, error) {
	userRepo, err := newUserRepository(ctx, path, seed)
	if err != nil {
		return nil, err
	}

	return &Repository{user: userRepo}, nil
}

func (r *Repository) User() interfaces.UserRepository {
	return r.user
}

func (r *Repository) Close() error {
	return nil
}

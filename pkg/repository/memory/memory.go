package memory

import (
	"github.com/guideops/guideops/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	user *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user: newUserRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}

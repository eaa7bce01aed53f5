package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/repository/memory"
	"github.com/guideops/guideops/pkg/service/stream"
	"github.com/guideops/guideops/pkg/usecase"
)

// mockChatService is a mock implementation of stream.Service for testing
type mockChatService struct {
	mu sync.Mutex

	upserted     []*stream.Identity
	deleted      []string
	tokensMinted []string

	privacyCalls  []privacyCall
	disabledCalls []disabledCall
	memberCalls   []memberCall
	modCalls      []memberCall

	emailExists bool
	channels    []*stream.ChannelInfo

	upsertErr   error
	tokenErr    error
	deleteErr   error
	emailErr    error
	privacyErr  error
	disabledErr error
	memberErr   error
	modErr      error
	listErr     error
}

type privacyCall struct {
	ch      model.ChannelRef
	private bool
}

type disabledCall struct {
	ch       model.ChannelRef
	disabled bool
}

type memberCall struct {
	ch      model.ChannelRef
	userIDs []string
}

func newMockChatService() *mockChatService {
	return &mockChatService{}
}

func (m *mockChatService) APIKey() string { return "test-api-key" }

func (m *mockChatService) UpsertUser(ctx context.Context, identity *stream.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	cp := *identity
	m.upserted = append(m.upserted, &cp)
	return nil
}

func (m *mockChatService) CreateSessionToken(userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	m.tokensMinted = append(m.tokensMinted, userID)
	return "token-" + userID, nil
}

func (m *mockChatService) DeleteUser(ctx context.Context, userID string, markMessagesDeleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, userID)
	return nil
}

func (m *mockChatService) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailErr != nil {
		return false, m.emailErr
	}
	return m.emailExists, nil
}

func (m *mockChatService) SetChannelPrivacy(ctx context.Context, ch model.ChannelRef, private bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.privacyErr != nil {
		return m.privacyErr
	}
	m.privacyCalls = append(m.privacyCalls, privacyCall{ch: ch, private: private})
	return nil
}

func (m *mockChatService) SetChannelDisabled(ctx context.Context, ch model.ChannelRef, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabledErr != nil {
		return m.disabledErr
	}
	m.disabledCalls = append(m.disabledCalls, disabledCall{ch: ch, disabled: disabled})
	return nil
}

func (m *mockChatService) AddChannelMembers(ctx context.Context, ch model.ChannelRef, userIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.memberErr != nil {
		return m.memberErr
	}
	m.memberCalls = append(m.memberCalls, memberCall{ch: ch, userIDs: userIDs})
	return nil
}

func (m *mockChatService) AddChannelModerators(ctx context.Context, ch model.ChannelRef, userIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modErr != nil {
		return m.modErr
	}
	m.modCalls = append(m.modCalls, memberCall{ch: ch, userIDs: userIDs})
	return nil
}

func (m *mockChatService) ListDisabledChannels(ctx context.Context, channelType string) ([]*stream.ChannelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.channels, nil
}

var _ stream.Service = &mockChatService{}

// newTestUseCases builds use cases over an in-memory store holding the
// master admin and one regular member.
func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory, *mockChatService) {
	t.Helper()

	repo := memory.New()
	chat := newMockChatService()
	ctx := context.Background()

	now := time.Now().UTC()
	admin := &model.User{
		ID:        usecase.DefaultMasterAdminID,
		Name:      "Aurora",
		Email:     "aurora@example.com",
		Role:      types.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	gt.NoError(t, repo.User().Put(ctx, admin)).Required()

	member := &model.User{
		ID:        "casey_0123456789ab",
		Name:      "Casey Lee",
		Email:     "casey@example.com",
		Role:      types.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	gt.NoError(t, repo.User().Put(ctx, member)).Required()

	return usecase.New(repo, chat, opts...), repo, chat
}

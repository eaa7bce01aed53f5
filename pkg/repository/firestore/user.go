package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
)

const usersCollection = "users"

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

// userDoc is the Firestore persistence model
type userDoc struct {
	ID           string    `firestore:"id"`
	Name         string    `firestore:"name"`
	Email        string    `firestore:"email"`
	Role         string    `firestore:"role"`
	PasswordHash []byte    `firestore:"password_hash,omitempty"`
	GoogleID     string    `firestore:"google_id,omitempty"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func (r *userRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + usersCollection)
	}
	return r.client.Collection(usersCollection)
}

func (r *userRepository) toDoc(user *model.User) *userDoc {
	return &userDoc{
		ID:           string(user.ID),
		Name:         user.Name,
		Email:        model.NormalizeEmail(user.Email),
		Role:         string(user.Role),
		PasswordHash: user.PasswordHash,
		GoogleID:     user.GoogleID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r *userRepository) fromDoc(doc *userDoc) *model.User {
	return &model.User{
		ID:           types.UserID(doc.ID),
		Name:         doc.Name,
		Email:        doc.Email,
		Role:         types.Role(doc.Role),
		PasswordHash: doc.PasswordHash,
		GoogleID:     doc.GoogleID,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// GetAll retrieves all users from Firestore
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var d userDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user document", goerr.V("doc", doc.Ref.ID))
		}
		users = append(users, r.fromDoc(&d))
	}

	return users, nil
}

// GetByID retrieves a single user by ID
func (r *userRepository) GetByID(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user document", goerr.V("id", id))
	}

	return r.fromDoc(&d), nil
}

// GetByEmail retrieves a single user by normalized email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)

	iter := r.collection().Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email", goerr.V("email", email))
	}

	var d userDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user document", goerr.V("email", email))
	}

	return r.fromDoc(&d), nil
}

// Put creates or replaces a user record
func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if _, err := r.collection().Doc(string(user.ID)).Set(ctx, r.toDoc(user)); err != nil {
		return goerr.Wrap(err, "failed to put user", goerr.V("id", user.ID))
	}
	return nil
}

// Delete removes a user record
func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	ref := r.collection().Doc(string(id))

	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrUserNotFound, "user not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get user before delete", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("id", id))
	}

	return nil
}

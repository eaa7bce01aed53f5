package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/guideops/guideops/pkg/domain/interfaces"
	"github.com/guideops/guideops/pkg/domain/types"
)

// maxIDAttempts bounds the collision-retry loop of ID generation. The random
// suffix makes a collision vanishingly rare, so hitting the bound means the
// store is misbehaving rather than unlucky.
const maxIDAttempts = 5

// localIDFromName derives an ID for a locally registered account: a
// sanitized first-name prefix plus a short random suffix.
func localIDFromName(name string) types.UserID {
	var first string
	if fields := strings.Fields(name); len(fields) > 0 {
		first = stripNonAlnum(strings.ToLower(fields[0]))
	}
	if len(first) > 15 {
		first = first[:15]
	}
	if first == "" {
		first = "user"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return types.UserID(first + "_" + suffix)
}

// federatedIDFromClaims derives a human-readable ID for a federated account
// from the asserted name, falling back to the email local part.
func federatedIDFromClaims(name, email string) types.UserID {
	base := name
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}

	slug := strings.ToLower(base)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if len(slug) > 20 {
		slug = slug[:20]
	}
	if slug == "" {
		slug = "user"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return types.UserID(slug + "-" + suffix)
}

func stripNonAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}

// newUniqueID draws fresh IDs until one is free in the store. Generation
// is random, so uniqueness is detected by lookup and retried, not assumed.
func newUniqueID(ctx context.Context, repo interfaces.UserRepository, generate func() types.UserID) (types.UserID, error) {
	for range maxIDAttempts {
		id := generate()

		_, err := repo.GetByID(ctx, id)
		if errors.Is(err, interfaces.ErrUserNotFound) {
			return id, nil
		}
		if err != nil {
			return "", goerr.Wrap(err, "failed to check ID for collision", goerr.V("id", id))
		}
		// Taken, draw again
	}

	return "", goerr.New("could not generate a unique user ID", goerr.V("attempts", maxIDAttempts))
}

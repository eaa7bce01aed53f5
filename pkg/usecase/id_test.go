package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/guideops/guideops/pkg/domain/model"
	"github.com/guideops/guideops/pkg/domain/types"
	"github.com/guideops/guideops/pkg/repository/memory"
)

func TestLocalIDFromName(t *testing.T) {
	cases := map[string]struct {
		name   string
		prefix string
	}{
		"simple name":        {name: "Robin Diaz", prefix: "robin_"},
		"single word":        {name: "robin", prefix: "robin_"},
		"punctuation":        {name: "O'Brien Jr.", prefix: "obrien_"},
		"long first name":    {name: "Wolfeschlegelsteinhausen Berg", prefix: "wolfeschlegelst_"},
		"non-latin name":     {name: "北川 景子", prefix: "user_"},
		"whitespace only":    {name: "   ", prefix: "user_"},
		"digits in the name": {name: "Agent 47", prefix: "agent_"},
	}

	for title, tc := range cases {
		t.Run(title, func(t *testing.T) {
			id := localIDFromName(tc.name)
			gt.NoError(t, id.Validate()).Required()
			gt.Bool(t, strings.HasPrefix(id.String(), tc.prefix)).True()
		})
	}
}

func TestFederatedIDFromClaims(t *testing.T) {
	t.Run("slugifies the asserted name", func(t *testing.T) {
		id := federatedIDFromClaims("Fed Erated", "fed@example.com")
		gt.NoError(t, id.Validate()).Required()
		gt.Bool(t, strings.HasPrefix(id.String(), "fed-erated-")).True()
	})

	t.Run("falls back to the email local part", func(t *testing.T) {
		id := federatedIDFromClaims("", "fed@example.com")
		gt.NoError(t, id.Validate()).Required()
		gt.Bool(t, strings.HasPrefix(id.String(), "fed-")).True()
	})

	t.Run("falls back to a generic slug", func(t *testing.T) {
		id := federatedIDFromClaims("---", "@example.com")
		gt.NoError(t, id.Validate()).Required()
		gt.Bool(t, strings.HasPrefix(id.String(), "user-")).True()
	})
}

func TestNewUniqueID(t *testing.T) {
	t.Run("returns a free ID", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		id, err := newUniqueID(ctx, repo.User(), func() types.UserID { return "fresh" })
		gt.NoError(t, err).Required()
		gt.Value(t, id).Equal(types.UserID("fresh"))
	})

	t.Run("gives up after bounded attempts on persistent collision", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		taken := &model.User{ID: "taken", Name: "Taken", Email: "taken@example.com", Role: types.RoleUser}
		gt.NoError(t, repo.User().Put(ctx, taken)).Required()

		_, err := newUniqueID(ctx, repo.User(), func() types.UserID { return "taken" })
		gt.Error(t, err)
	})
}

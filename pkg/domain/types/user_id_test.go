package types_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/guideops/guideops/pkg/domain/types"
)

func TestUserIDValidate(t *testing.T) {
	valid := []types.UserID{
		"aurora",
		"robin_3f2a1b",
		"fed-erated-12ab",
		"4chan",
	}
	for _, id := range valid {
		gt.NoError(t, id.Validate())
	}

	invalid := []types.UserID{
		"",
		"Robin",
		"_leading",
		"-leading",
		"has space",
		"emoji🚀",
		types.UserID(strings.Repeat("a", 65)),
	}
	for _, id := range invalid {
		gt.Error(t, id.Validate())
	}
}

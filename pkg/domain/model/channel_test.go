package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/guideops/guideops/pkg/domain/model"
)

func TestChannelRefValidate(t *testing.T) {
	gt.NoError(t, model.ChannelRef{Type: "team", ID: "general"}.Validate())
	gt.Error(t, model.ChannelRef{Type: "team"}.Validate())
	gt.Error(t, model.ChannelRef{ID: "general"}.Validate())
	gt.Error(t, model.ChannelRef{}.Validate())
}

func TestChannelRefEqual(t *testing.T) {
	general := model.ChannelRef{Type: "team", ID: "general"}
	gt.Bool(t, general.Equal(model.DefaultProtectedChannel)).True()
	gt.Bool(t, general.Equal(model.ChannelRef{Type: "messaging", ID: "general"})).False()
	gt.Bool(t, general.Equal(model.ChannelRef{Type: "team", ID: "offtopic"})).False()
}

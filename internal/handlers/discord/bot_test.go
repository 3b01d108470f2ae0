package discord

import (
	"testing"

	"github.com/KirkDiggler/sealedroll/internal/services/roll/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	svc := mocks.NewMockService(gomock.NewController(t))

	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{RollService: svc})
	assert.Error(t, err, "token is required")

	_, err = New(&Config{Token: "token"})
	assert.Error(t, err, "roll service is required")

	bot, err := New(&Config{Token: "token", ApplicationID: "app", RollService: svc})
	require.NoError(t, err)
	assert.Equal(t, "sealed", bot.sealed.GetName())
	assert.Equal(t, "app", bot.appID())
	assert.Empty(t, bot.commands)
}

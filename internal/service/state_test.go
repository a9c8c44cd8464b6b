package service

import (
	"context"
	"io"
	"testing"
	"time"

	"smartstudio/internal/models"
	"smartstudio/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService(t *testing.T) {
	logger := zerolog.New(io.Discard)
	svc := NewSessionService(repository.NewMemoryStateRepository(time.Hour), &logger)
	ctx := context.Background()

	t.Run("GetSessionCreatesIdleDraft", func(t *testing.T) {
		session, err := svc.GetSession(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, int64(42), session.UserID)
		assert.Equal(t, models.ModeIdle, session.Draft.Mode)
		assert.Equal(t, models.StepNone, session.Draft.Step)
	})

	t.Run("SaveAndReload", func(t *testing.T) {
		session, _ := svc.GetSession(ctx, 42)
		session.Draft.Mode = models.ModeBooking
		session.Draft.Step = models.StepAskGear
		require.NoError(t, svc.SaveSession(ctx, session))

		got, err := svc.GetSession(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, models.StepAskGear, got.Draft.Step)
	})

	t.Run("ClearSession", func(t *testing.T) {
		require.NoError(t, svc.ClearSession(ctx, 42))

		got, err := svc.GetSession(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, models.ModeIdle, got.Draft.Mode)
	})
}

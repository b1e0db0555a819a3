package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		start := now.AddDate(0, 0, 1)
		end := start.AddDate(0, 0, 6)
		days := 7

		session := domain.NewSession(sessionID, now)
		session.Wizard.ActiveStep = domain.StepExperiences
		session.Dates = domain.DateSelection{Start: &start, End: &end, Duration: &days}
		session.Destinations = []string{"kohima", "dzukou"}
		session.Experiences.IDs = []string{"trekking"}
		session.Experiences.TotalCost = 3500
		session.Contact = &domain.ContactDetails{Name: "Asha", Email: "asha@example.com"}

		err := store.Save(ctx, sessionID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, domain.StepExperiences, loaded.Wizard.ActiveStep)
		assert.Equal(t, []string{"kohima", "dzukou"}, loaded.Destinations)
		assert.Equal(t, int64(3500), loaded.Experiences.TotalCost)
		require.NotNil(t, loaded.Dates.Duration)
		assert.Equal(t, 7, *loaded.Dates.Duration)
		require.NotNil(t, loaded.Dates.Start)
		assert.True(t, start.Equal(*loaded.Dates.Start))
		require.NotNil(t, loaded.Contact)
		assert.Equal(t, "asha@example.com", loaded.Contact.Email)
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Destinations = append(loaded.Destinations, "mon")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotContains(t, again.Destinations, "mon")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewSession(sessionID, now))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting a missing session should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1, now))
		_ = store.Save(ctx, id2, domain.NewSession(id2, now))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
	"github.com/siherrmann/meetgraph/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitiesNewEntitiesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewEntitiesDBHandler", func(t *testing.T) {
		entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")
		require.NotNil(t, entitiesDbHandler, "Expected NewEntitiesDBHandler to return a non-nil instance")
		require.NotNil(t, entitiesDbHandler.db, "Expected NewEntitiesDBHandler to have a non-nil database instance")
		require.NotNil(t, entitiesDbHandler.db.Instance, "Expected NewEntitiesDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewEntitiesDBHandler with nil database", func(t *testing.T) {
		_, err := NewEntitiesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating EntitiesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestEntitiesSaveAndLoad(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")

	t.Run("Save and load person", func(t *testing.T) {
		person := &model.Person{
			Base:        model.Base{ID: uuid.New()},
			DisplayName: "Alice Smith",
			Role:        "host",
		}

		err := entitiesDbHandler.Save(person)
		assert.NoError(t, err, "Expected Save to not return an error")
		assert.False(t, person.CreatedAt.IsZero(), "Expected Save to set CreatedAt")

		loaded, err := entitiesDbHandler.Load(person.ID, model.KindPerson)
		assert.NoError(t, err, "Expected Load to not return an error")
		require.NotNil(t, loaded, "Expected Load to return a non-nil entity")

		loadedPerson, ok := loaded.(*model.Person)
		require.True(t, ok, "Expected loaded entity to be a Person")
		assert.Equal(t, person.ID, loadedPerson.ID, "Expected ids to match")
		assert.Equal(t, "Alice Smith", loadedPerson.DisplayName, "Expected display name to round-trip")
		assert.Equal(t, "host", loadedPerson.Role, "Expected role to round-trip")
	})

	t.Run("Save and load meeting with optional references", func(t *testing.T) {
		hostID := uuid.New()
		meeting := &model.Meeting{
			Base:        model.Base{ID: uuid.New()},
			WorkgroupID: uuid.New(),
			MeetingType: model.MeetingTypeWeekly,
			Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			HostID:      &hostID,
			Purpose:     "Quarterly planning",
		}

		err := entitiesDbHandler.Save(meeting)
		assert.NoError(t, err, "Expected Save to not return an error")

		loaded, err := entitiesDbHandler.Load(meeting.ID, model.KindMeeting)
		assert.NoError(t, err, "Expected Load to not return an error")

		loadedMeeting, ok := loaded.(*model.Meeting)
		require.True(t, ok, "Expected loaded entity to be a Meeting")
		assert.Equal(t, meeting.WorkgroupID, loadedMeeting.WorkgroupID, "Expected workgroup id to round-trip")
		assert.True(t, meeting.Date.Equal(loadedMeeting.Date), "Expected date to round-trip")
		require.NotNil(t, loadedMeeting.HostID, "Expected host id to round-trip")
		assert.Equal(t, hostID, *loadedMeeting.HostID, "Expected host id value to match")
	})

	t.Run("Save is an upsert", func(t *testing.T) {
		workgroup := &model.Workgroup{
			Base: model.Base{ID: uuid.New()},
			Name: "Marketing",
		}
		err := entitiesDbHandler.Save(workgroup)
		require.NoError(t, err)

		workgroup.Name = "Marketing Guild"
		err = entitiesDbHandler.Save(workgroup)
		assert.NoError(t, err, "Expected second Save to not return an error")

		loaded, err := entitiesDbHandler.Load(workgroup.ID, model.KindWorkgroup)
		require.NoError(t, err)
		assert.Equal(t, "Marketing Guild", loaded.Label(), "Expected updated name to be persisted")
	})

	t.Run("Load missing entity returns ErrNotFound", func(t *testing.T) {
		_, err := entitiesDbHandler.Load(uuid.New(), model.KindPerson)
		assert.ErrorIs(t, err, store.ErrNotFound, "Expected ErrNotFound for unknown id")
	})
}

func TestEntitiesScanAll(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")

	people := []*model.Person{
		{Base: model.Base{ID: uuid.New()}, DisplayName: "Bob"},
		{Base: model.Base{ID: uuid.New()}, DisplayName: "Carol"},
		{Base: model.Base{ID: uuid.New()}, DisplayName: "Dave"},
	}
	for _, person := range people {
		require.NoError(t, entitiesDbHandler.Save(person))
	}
	workgroup := &model.Workgroup{Base: model.Base{ID: uuid.New()}, Name: "Ops"}
	require.NoError(t, entitiesDbHandler.Save(workgroup))

	t.Run("Scan all returns only the requested kind", func(t *testing.T) {
		persons, err := entitiesDbHandler.ScanAll(model.KindPerson)
		assert.NoError(t, err, "Expected ScanAll to not return an error")
		assert.Len(t, persons, len(people), "Expected all persons to be returned")
		for _, entity := range persons {
			assert.Equal(t, model.KindPerson, entity.EntityKind(), "Expected only persons in result")
		}
	})

	t.Run("Filter scan applies the predicate", func(t *testing.T) {
		filtered, err := entitiesDbHandler.FilterScan(model.KindPerson, func(e model.Entity) bool {
			return e.Label() == "Carol"
		})
		assert.NoError(t, err, "Expected FilterScan to not return an error")
		require.Len(t, filtered, 1, "Expected exactly one match")
		assert.Equal(t, "Carol", filtered[0].Label(), "Expected the matching person")
	})

	t.Run("Scan all of empty kind returns no entities", func(t *testing.T) {
		tags, err := entitiesDbHandler.ScanAll(model.KindTag)
		assert.NoError(t, err, "Expected ScanAll to not return an error")
		assert.Empty(t, tags, "Expected no tags")
	})

	// Cleanup
	for _, person := range people {
		entitiesDbHandler.Delete(person.ID, model.KindPerson)
	}
	entitiesDbHandler.Delete(workgroup.ID, model.KindWorkgroup)
}

func TestEntitiesDelete(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")

	person := &model.Person{Base: model.Base{ID: uuid.New()}, DisplayName: "Eve"}
	require.NoError(t, entitiesDbHandler.Save(person))

	err = entitiesDbHandler.Delete(person.ID, model.KindPerson)
	assert.NoError(t, err, "Expected Delete to not return an error")

	_, err = entitiesDbHandler.Load(person.ID, model.KindPerson)
	assert.ErrorIs(t, err, store.ErrNotFound, "Expected Load to return ErrNotFound after delete")
}

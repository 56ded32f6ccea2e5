package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/meetgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	memStore := NewMemoryStore()

	t.Run("Save touches timestamps", func(t *testing.T) {
		person := &model.Person{Base: model.Base{ID: uuid.New()}, DisplayName: "Alice Smith"}
		require.NoError(t, memStore.Save(person))
		assert.False(t, person.CreatedAt.IsZero())
		assert.False(t, person.UpdatedAt.IsZero())
	})

	t.Run("Load returns the saved entity", func(t *testing.T) {
		person := &model.Person{Base: model.Base{ID: uuid.New()}, DisplayName: "Bob Jones"}
		require.NoError(t, memStore.Save(person))

		loaded, err := memStore.Load(person.ID, model.KindPerson)
		require.NoError(t, err)
		assert.Equal(t, "Bob Jones", loaded.Label())
	})

	t.Run("Save replaces an existing entity", func(t *testing.T) {
		id := uuid.New()
		require.NoError(t, memStore.Save(&model.Person{Base: model.Base{ID: id}, DisplayName: "Carol"}))
		require.NoError(t, memStore.Save(&model.Person{Base: model.Base{ID: id}, DisplayName: "Carol White"}))

		loaded, err := memStore.Load(id, model.KindPerson)
		require.NoError(t, err)
		assert.Equal(t, "Carol White", loaded.Label())
	})

	t.Run("Unknown id returns ErrNotFound", func(t *testing.T) {
		_, err := memStore.Load(uuid.New(), model.KindPerson)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Kinds are isolated", func(t *testing.T) {
		workgroup := &model.Workgroup{Base: model.Base{ID: uuid.New()}, Name: "Marketing Guild"}
		require.NoError(t, memStore.Save(workgroup))

		_, err := memStore.Load(workgroup.ID, model.KindPerson)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStoreScan(t *testing.T) {
	memStore := NewMemoryStore()

	meetingID := uuid.New()
	otherMeetingID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, memStore.Save(&model.AgendaItem{
			Base:      model.Base{ID: uuid.New()},
			MeetingID: meetingID,
			Index:     i,
		}))
	}
	require.NoError(t, memStore.Save(&model.AgendaItem{
		Base:      model.Base{ID: uuid.New()},
		MeetingID: otherMeetingID,
	}))

	t.Run("ScanAll returns every entity of the kind in stable order", func(t *testing.T) {
		entities, err := memStore.ScanAll(model.KindAgendaItem)
		require.NoError(t, err)
		require.Len(t, entities, 4)
		for i := 1; i < len(entities); i++ {
			assert.True(t, strings.Compare(entities[i-1].EntityID().String(), entities[i].EntityID().String()) < 0,
				"Expected entities ordered by id")
		}
	})

	t.Run("FilterScan applies the predicate", func(t *testing.T) {
		entities, err := memStore.FilterScan(model.KindAgendaItem, func(entity model.Entity) bool {
			return entity.(*model.AgendaItem).MeetingID == meetingID
		})
		require.NoError(t, err)
		assert.Len(t, entities, 3)
	})

	t.Run("Empty kind yields empty result", func(t *testing.T) {
		entities, err := memStore.ScanAll(model.KindTag)
		require.NoError(t, err)
		assert.Empty(t, entities)
	})
}

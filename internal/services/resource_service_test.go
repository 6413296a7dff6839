package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/services"
	"github.com/isdelr/mindcare-be/internal/store"
)

func resourceIDs(rs []models.Resource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestResourceList(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	tests := []struct {
		name   string
		filter services.ResourceFilter
		want   []string
	}{
		{"no filter", services.ResourceFilter{}, []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}},
		{"all is no filter", services.ResourceFilter{Category: "all", Type: "all"}, []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}},
		{"search title and description", services.ResourceFilter{Search: "anxiety"}, []string{"r2", "r3"}},
		{"search is case insensitive", services.ResourceFilter{Search: "SLEEP"}, []string{"r1"}},
		{"search tags", services.ResourceFilter{Search: "quick-relief"}, []string{"r3"}},
		{"category", services.ResourceFilter{Category: "Academic Support"}, []string{"r2", "r4", "r8"}},
		{"type", services.ResourceFilter{Type: "video"}, []string{"r3", "r8"}},
		{"category and type", services.ResourceFilter{Category: "Academic Support", Type: "video"}, []string{"r8"}},
		{"no match", services.ResourceFilter{Search: "zebra"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resourceIDs(f.resources.List(tt.filter)))
		})
	}
}

func TestResourceFacets(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	facets := f.resources.Facets()

	assert.Equal(t, []string{"Sleep & Relaxation", "Academic Support", "Stress Management", "Mindfulness", "Life Transitions"}, facets.Categories)
	assert.Equal(t, []models.ResourceType{models.ResourceAudio, models.ResourceArticle, models.ResourceVideo, models.ResourcePodcast}, facets.Types)
}

func TestResourceLibrary(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	lib := f.resources.Library()

	assert.Equal(t, 8, lib.Total)
	assert.Equal(t, 3, lib.ByType[models.ResourceArticle])
	assert.Equal(t, 2, lib.ByType[models.ResourceAudio])
	assert.Equal(t, 2, lib.ByType[models.ResourceVideo])
	assert.Equal(t, 1, lib.ByType[models.ResourcePodcast])
	require.Len(t, lib.Categories, 5)
	assert.Equal(t, "Academic Support", lib.Categories[1].Category)
	assert.Len(t, lib.Categories[1].Resources, 3)
}

func TestCreateResourceAppliesDefaults(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	created, msg, err := f.resources.Create(services.NewResource{
		Title:    "  Journaling Basics ",
		Type:     models.ResourceArticle,
		Category: "Self-Care",
	})
	require.NoError(t, err)

	assert.Equal(t, "Journaling Basics", created.Title)
	assert.Equal(t, "#", created.URL)
	assert.Equal(t, "10 minutes", created.Time)
	assert.Equal(t, []string{"wellness", "support"}, created.Tags)
	assert.Equal(t, "Journaling Basics has been added to the resource library.", msg)
	assert.Len(t, f.store.Snapshot().Resources, 9)

	events, _ := f.events.GetRecentEvents(1)
	require.Len(t, events, 1)
	assert.Equal(t, "resource.create", events[0].Type)
	require.NotNil(t, events[0].SubjectID)
	assert.Equal(t, created.ID, *events[0].SubjectID)
}

func TestCreateResourceParsesTags(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	created, _, err := f.resources.Create(services.NewResource{
		Title:    "Focus Sounds",
		Type:     models.ResourceAudio,
		Category: "Mindfulness",
		Time:     "30 minutes",
		URL:      "https://example.edu/focus",
		Tags:     " calm , ,focus,",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"calm", "focus"}, created.Tags)
	assert.Equal(t, "30 minutes", created.Time)
	assert.Equal(t, "https://example.edu/focus", created.URL)
}

func TestCreateResourceRequiresTitleTypeCategory(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	_, _, err := f.resources.Create(services.NewResource{Title: "   ", Description: "only a description"})

	require.Error(t, err)
	assert.Equal(t, "Please provide at least title, type, and category.", err.Error())
	assert.ElementsMatch(t, []string{"title", "type", "category"}, fieldNames(t, err))
	assert.Len(t, f.store.Snapshot().Resources, 8)
}

func TestCreateResourceRejectsUnknownType(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	_, _, err := f.resources.Create(services.NewResource{Title: "x", Type: "book", Category: "y"})

	assert.Equal(t, []string{"type"}, fieldNames(t, err))
}

func TestDeleteResource(t *testing.T) {
	f := newFixture(t, at("2024-09-20 12:00"))

	msg, err := f.resources.Delete("r5")
	require.NoError(t, err)
	assert.Equal(t, "Mindfulness for Beginners has been removed from the library.", msg)
	assert.Len(t, f.store.Snapshot().Resources, 7)

	_, err = f.resources.Delete("r5")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, f.store.Snapshot().Resources, 7)
}

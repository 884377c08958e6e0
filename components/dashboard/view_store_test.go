package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticViewStoreServesDefaultViews(t *testing.T) {
	store, err := NewStaticViewStore(NewRegistry(), NewJSONSchemaValidator(), DefaultViews()...)
	require.NoError(t, err)

	views, err := store.Views(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, ViewAdmin, views[0].Code)
	assert.Equal(t, ViewCommunity, views[1].Code)
	assert.Equal(t, ViewOperator, views[2].Code)

	for _, role := range []Role{RoleAdmin, RoleCommunity, RoleOperator} {
		view, err := store.View(context.Background(), ViewForRole(role))
		require.NoError(t, err)
		for _, row := range view.Rows {
			total := 0
			for _, w := range row.Widgets {
				total += w.Width
			}
			assert.LessOrEqual(t, total, MaxWidgetWidth, "row of %s overflows", view.Code)
		}
	}

	community, err := store.View(context.Background(), ViewCommunity)
	require.NoError(t, err)
	assert.False(t, community.Contains(WidgetGISMap))
	admin, err := store.View(context.Background(), ViewAdmin)
	require.NoError(t, err)
	assert.True(t, admin.Contains(WidgetGISMap))
}

func TestStaticViewStoreReturnsCopies(t *testing.T) {
	store, err := NewStaticViewStore(NewRegistry(), nil, DefaultViews()...)
	require.NoError(t, err)
	view, err := store.View(context.Background(), ViewAdmin)
	require.NoError(t, err)
	view.Rows[0].Widgets[0].ID = "mutated"

	again, err := store.View(context.Background(), ViewAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin-kpis", again.Rows[0].Widgets[0].ID)

	_, err = store.View(context.Background(), "missing")
	require.ErrorIs(t, err, ErrViewNotFound)
}

func TestValidateViewReportsProblems(t *testing.T) {
	registry := NewRegistry()
	view := ViewDefinition{
		Code: "broken",
		Rows: []LayoutRow{{Widgets: []WidgetInstance{
			{ID: "a", DefinitionID: WidgetKPIs, Width: 30},
			{ID: "a", DefinitionID: WidgetKPIs},
			{DefinitionID: WidgetKPIs},
			{ID: "b", DefinitionID: "carbon.widget.unknown"},
			{ID: "c", DefinitionID: WidgetGISMap, Configuration: map[string]any{"zoom": 0}},
		}}},
	}
	err := ValidateView(registry, NewJSONSchemaValidator(), &view)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateInstance)
	assert.ErrorIs(t, err, ErrMissingInstanceID)
	assert.ErrorIs(t, err, ErrUnknownDefinition)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, MaxWidgetWidth, view.Rows[0].Widgets[0].Width)

	_, err = NewStaticViewStore(nil, nil)
	require.Error(t, err)
	require.Error(t, ValidateView(registry, nil, &ViewDefinition{}))
}

func TestClampWidth(t *testing.T) {
	assert.Equal(t, MaxWidgetWidth, clampWidth(0))
	assert.Equal(t, MaxWidgetWidth, clampWidth(-3))
	assert.Equal(t, MaxWidgetWidth, clampWidth(13))
	assert.Equal(t, 6, clampWidth(6))
}

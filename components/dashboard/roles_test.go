package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-carbon-dashboard/pkg/monitoring"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Operator ")
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, role)

	_, err = ParseRole("mayor")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestViewForRole(t *testing.T) {
	assert.Equal(t, ViewAdmin, ViewForRole(RoleAdmin))
	assert.Equal(t, ViewCommunity, ViewForRole(RoleCommunity))
	assert.Equal(t, ViewOperator, ViewForRole(RoleOperator))
	assert.Equal(t, ViewAdmin, ViewForRole(Role("unknown")))
}

func TestRoleOptionsMarkSelection(t *testing.T) {
	options := RoleOptions(RoleCommunity)
	require.Len(t, options, 3)
	selected := 0
	for _, opt := range options {
		if opt.Selected {
			selected++
			assert.Equal(t, RoleCommunity, opt.Value)
		}
	}
	assert.Equal(t, 1, selected)
}

func TestLanguageToggle(t *testing.T) {
	assert.Equal(t, LanguageHindi, LanguageEnglish.Toggle())
	assert.Equal(t, LanguageEnglish, LanguageHindi.Toggle())

	_, err := ParseLanguage("fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseMapLayer(t *testing.T) {
	for _, layer := range MapLayers() {
		parsed, err := ParseMapLayer(string(layer))
		require.NoError(t, err)
		assert.Equal(t, layer, parsed)
	}
	_, err := ParseMapLayer("satellite")
	require.ErrorIs(t, err, ErrUnknownMapLayer)
}

func TestDefaultUIState(t *testing.T) {
	state := DefaultUIState()
	assert.Equal(t, RoleAdmin, state.Role)
	assert.True(t, state.SidebarOpen)
	assert.Equal(t, LanguageEnglish, state.Language)
	assert.Equal(t, LayerEmissions, state.MapLayer)
	assert.True(t, state.ShowHeatmap)
	assert.True(t, state.ShowRoutes)
}

func TestMenuForRoles(t *testing.T) {
	admin := MenuFor(RoleAdmin)
	require.Len(t, admin, 7)
	assert.Equal(t, "overview", admin[0].ID)
	assert.Equal(t, "reports", admin[6].ID)

	community := MenuFor(RoleCommunity)
	require.Len(t, community, 4)
	assert.Equal(t, "Air Quality", community[0].Label)

	operator := MenuFor(RoleOperator)
	require.Len(t, operator, 6)
	assert.Equal(t, "trips", operator[5].ID)

	assert.Len(t, MenuFor(Role("guest")), 3)

	admin[0].Label = "changed"
	assert.Equal(t, "Overview", MenuFor(RoleAdmin)[0].Label)
}

func TestBuildSidebar(t *testing.T) {
	reported := monitoring.Reported{SensorsOnline: 47, SensorsTotal: 50, DataSync: "Active"}
	open := BuildSidebar(RoleOperator, true, reported)
	assert.Equal(t, SidebarOpenWidth, open.Width)
	assert.Equal(t, SidebarTitle, open.Title)
	require.NotNil(t, open.Status)
	assert.Equal(t, 50, open.Status.SensorsTotal)
	assert.True(t, open.Items[0].ShowLabel)
	assert.Empty(t, open.Items[0].Tooltip)

	collapsed := BuildSidebar(RoleOperator, false, reported)
	assert.Equal(t, SidebarCollapsedWidth, collapsed.Width)
	assert.Empty(t, collapsed.Title)
	assert.Nil(t, collapsed.Status)
	assert.Equal(t, "Overview", collapsed.Items[0].Tooltip)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "24,560", formatNumber(24560))
	assert.Equal(t, "1,466.25", formatNumber(1466.25))
	assert.Equal(t, "172.5", formatNumber(172.50))
	assert.Equal(t, "₹240", formatRupees(240))
}

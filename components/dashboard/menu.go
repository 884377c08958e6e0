package dashboard

import "github.com/goliatone/go-carbon-dashboard/pkg/monitoring"

// MenuItem is a sidebar navigation entry.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var baseMenuItems = []MenuItem{
	{ID: "overview", Label: "Overview", Icon: "bar-chart-3"},
	{ID: "emissions", Label: "Emission Tracking", Icon: "activity"},
	{ID: "gis", Label: "GIS Visualization", Icon: "map"},
}

var roleMenuItems = map[Role][]MenuItem{
	RoleAdmin: withBase(
		MenuItem{ID: "aqi", Label: "AQI Monitoring", Icon: "wind"},
		MenuItem{ID: "credits", Label: "Carbon Credits", Icon: "indian-rupee"},
		MenuItem{ID: "routes", Label: "Route Analytics", Icon: "route"},
		MenuItem{ID: "reports", Label: "ESG Reports", Icon: "file-text"},
	),
	RoleCommunity: {
		{ID: "aqi", Label: "Air Quality", Icon: "wind"},
		{ID: "alerts", Label: "Alerts", Icon: "alert-triangle"},
		{ID: "environment", Label: "Environment", Icon: "leaf"},
		{ID: "reports", Label: "Reports", Icon: "file-text"},
	},
	RoleOperator: withBase(
		MenuItem{ID: "routes", Label: "My Routes", Icon: "route"},
		MenuItem{ID: "efficiency", Label: "Efficiency", Icon: "trending-up"},
		MenuItem{ID: "trips", Label: "Trip History", Icon: "map-pin"},
	),
}

func withBase(extra ...MenuItem) []MenuItem {
	items := make([]MenuItem, 0, len(baseMenuItems)+len(extra))
	items = append(items, baseMenuItems...)
	return append(items, extra...)
}

// MenuFor returns the ordered menu of a role. Unknown roles get the base items.
func MenuFor(role Role) []MenuItem {
	items, ok := roleMenuItems[role]
	if !ok {
		items = baseMenuItems
	}
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}

// Sidebar widths.
const (
	SidebarOpenWidth      = "w-64"
	SidebarCollapsedWidth = "w-16"
)

// SidebarItem is a menu entry prepared for the open or collapsed sidebar.
type SidebarItem struct {
	MenuItem  `yaml:",inline"`
	ShowLabel bool   `json:"show_label"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// SystemStatus is the sensor panel shown at the bottom of the open sidebar.
type SystemStatus struct {
	SensorsOnline int    `json:"sensors_online"`
	SensorsTotal  int    `json:"sensors_total"`
	DataSync      string `json:"data_sync"`
}

// Sidebar is the navigation column of a page.
type Sidebar struct {
	Open   bool          `json:"open"`
	Width  string        `json:"width"`
	Title  string        `json:"title,omitempty"`
	Items  []SidebarItem `json:"items"`
	Status *SystemStatus `json:"status,omitempty"`
}

// SidebarTitle is printed next to the toggle while the sidebar is open.
const SidebarTitle = "Carbon Tracking Dashboard"

// BuildSidebar lays out the role menu for the open or collapsed sidebar.
// Collapsed sidebars hide labels and expose them as tooltips.
func BuildSidebar(role Role, open bool, reported monitoring.Reported) Sidebar {
	menu := MenuFor(role)
	sidebar := Sidebar{
		Open:  open,
		Width: SidebarCollapsedWidth,
		Items: make([]SidebarItem, len(menu)),
	}
	for i, item := range menu {
		entry := SidebarItem{MenuItem: item, ShowLabel: open}
		if !open {
			entry.Tooltip = item.Label
		}
		sidebar.Items[i] = entry
	}
	if open {
		sidebar.Width = SidebarOpenWidth
		sidebar.Title = SidebarTitle
		sidebar.Status = &SystemStatus{
			SensorsOnline: reported.SensorsOnline,
			SensorsTotal:  reported.SensorsTotal,
			DataSync:      reported.DataSync,
		}
	}
	return sidebar
}

package monitoring

// Repository exposes read access to the monitoring dataset. Every accessor
// returns a copy; callers may modify results freely.
type Repository interface {
	Stations(surface Surface) []Station
	Hotspots() []Hotspot
	Emissions() []EmissionSample
	Vehicles() []Vehicle
	Credits() CreditSummary
	Transactions() []Transaction
	RouteEfficiency() []RouteEfficiency
	FuelTrend() []EfficiencyPoint
	TripDistribution() []TripShare
	Suggestions() []RouteSuggestion
	MapRoutes() []MapRoute
	CurrentTrip() Trip
	DayStats() DayStats
	Achievements() []Achievement
	KPIs() []KPI
	Reports() []Report
	AQITrend() []AQIReading
	Reported() Reported
}

// StaticRepository serves an in-memory Dataset.
type StaticRepository struct {
	data Dataset
}

var _ Repository = (*StaticRepository)(nil)

// NewStaticRepository wraps a dataset.
func NewStaticRepository(data Dataset) *StaticRepository {
	return &StaticRepository{data: data}
}

// NewDefaultRepository serves the embedded dataset.
func NewDefaultRepository() (*StaticRepository, error) {
	ds, err := DefaultDataset()
	if err != nil {
		return nil, err
	}
	return NewStaticRepository(ds), nil
}

// Stations returns the stations listed on the surface; an empty surface returns all.
func (r *StaticRepository) Stations(surface Surface) []Station {
	out := make([]Station, 0, len(r.data.Stations))
	for _, station := range r.data.Stations {
		if surface != "" && !station.On(surface) {
			continue
		}
		station.Surfaces = cloneSlice(station.Surfaces)
		out = append(out, station)
	}
	return out
}

func (r *StaticRepository) Hotspots() []Hotspot { return cloneSlice(r.data.Hotspots) }
func (r *StaticRepository) Emissions() []EmissionSample { return cloneSlice(r.data.Emissions) }
func (r *StaticRepository) Vehicles() []Vehicle { return cloneSlice(r.data.Vehicles) }
func (r *StaticRepository) Credits() CreditSummary { return r.data.Credits }
func (r *StaticRepository) Transactions() []Transaction { return cloneSlice(r.data.Transactions) }
func (r *StaticRepository) RouteEfficiency() []RouteEfficiency { return cloneSlice(r.data.RouteEfficiency) }
func (r *StaticRepository) FuelTrend() []EfficiencyPoint { return cloneSlice(r.data.FuelTrend) }
func (r *StaticRepository) TripDistribution() []TripShare { return cloneSlice(r.data.TripDistribution) }
func (r *StaticRepository) Suggestions() []RouteSuggestion { return cloneSlice(r.data.Suggestions) }
func (r *StaticRepository) MapRoutes() []MapRoute { return cloneSlice(r.data.MapRoutes) }
func (r *StaticRepository) CurrentTrip() Trip { return r.data.CurrentTrip }
func (r *StaticRepository) DayStats() DayStats { return r.data.DayStats }
func (r *StaticRepository) Achievements() []Achievement { return cloneSlice(r.data.Achievements) }
func (r *StaticRepository) KPIs() []KPI { return cloneSlice(r.data.KPIs) }
func (r *StaticRepository) Reports() []Report { return cloneSlice(r.data.Reports) }
func (r *StaticRepository) AQITrend() []AQIReading { return cloneSlice(r.data.AQITrend) }
func (r *StaticRepository) Reported() Reported { return r.data.Reported }

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

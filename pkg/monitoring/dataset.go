package monitoring

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

const datasetVersionV1 = "1"

// DatasetVersion is the supported dataset document version.
const DatasetVersion = datasetVersionV1

//go:embed data/dataset.yaml
var embeddedDataset []byte

// Sentinel validation errors.
var (
	ErrDatasetVersion  = errors.New("monitoring: unsupported dataset version")
	ErrDuplicateID     = errors.New("monitoring: duplicate id")
	ErrNegativeReading = errors.New("monitoring: negative reading")
	ErrNoCurrentRoute  = errors.New("monitoring: no current route suggestion")
	ErrMissingLocation = errors.New("monitoring: map station without location")
)

// Dataset is the full static collection rendered by the dashboard.
type Dataset struct {
	Version          string            `json:"version" yaml:"version"`
	Stations         []Station         `json:"stations" yaml:"stations"`
	Hotspots         []Hotspot         `json:"hotspots" yaml:"hotspots"`
	Emissions        []EmissionSample  `json:"emissions" yaml:"emissions"`
	Vehicles         []Vehicle         `json:"vehicles" yaml:"vehicles"`
	Credits          CreditSummary     `json:"credits" yaml:"credits"`
	Transactions     []Transaction     `json:"transactions" yaml:"transactions"`
	RouteEfficiency  []RouteEfficiency `json:"route_efficiency" yaml:"route_efficiency"`
	FuelTrend        []EfficiencyPoint `json:"fuel_trend" yaml:"fuel_trend"`
	TripDistribution []TripShare       `json:"trip_distribution" yaml:"trip_distribution"`
	Suggestions      []RouteSuggestion `json:"suggestions" yaml:"suggestions"`
	MapRoutes        []MapRoute        `json:"map_routes" yaml:"map_routes"`
	CurrentTrip      Trip              `json:"current_trip" yaml:"current_trip"`
	DayStats         DayStats          `json:"day_stats" yaml:"day_stats"`
	Achievements     []Achievement     `json:"achievements" yaml:"achievements"`
	KPIs             []KPI             `json:"kpis" yaml:"kpis"`
	Reports          []Report          `json:"reports" yaml:"reports"`
	AQITrend         []AQIReading      `json:"aqi_trend" yaml:"aqi_trend"`
	Reported         Reported          `json:"reported" yaml:"reported"`
}

var (
	defaultOnce    sync.Once
	defaultDataset Dataset
	defaultErr     error
)

// DefaultDataset returns the embedded dataset, decoded once per process.
func DefaultDataset() (Dataset, error) {
	defaultOnce.Do(func() {
		defaultDataset, defaultErr = LoadDataset(bytes.NewReader(embeddedDataset))
	})
	return defaultDataset, defaultErr
}

// MustDefaultDataset panics when the embedded dataset is invalid.
func MustDefaultDataset() Dataset {
	ds, err := DefaultDataset()
	if err != nil {
		panic(err)
	}
	return ds
}

// LoadDatasetFile decodes and validates a dataset document from disk.
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return Dataset{}, fmt.Errorf("monitoring: open dataset %s: %w", path, err)
	}
	defer f.Close()
	ds, err := LoadDataset(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("monitoring: load dataset %s: %w", path, err)
	}
	return ds, nil
}

// LoadDataset decodes a YAML dataset, rejecting unknown fields.
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("monitoring: decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Validate checks identifiers and readings for consistency.
func (d Dataset) Validate() error {
	if d.Version != datasetVersionV1 {
		return fmt.Errorf("%w %q", ErrDatasetVersion, d.Version)
	}
	var errs []error
	stationIDs := map[int]struct{}{}
	for _, s := range d.Stations {
		if _, dup := stationIDs[s.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: station %d", ErrDuplicateID, s.ID))
		}
		stationIDs[s.ID] = struct{}{}
		if s.AQI < 0 || s.PM25 < 0 || s.PM10 < 0 {
			errs = append(errs, fmt.Errorf("%w: station %d", ErrNegativeReading, s.ID))
		}
		if s.On(SurfaceMap) && s.Location == (Coordinate{}) {
			errs = append(errs, fmt.Errorf("%w: station %d", ErrMissingLocation, s.ID))
		}
	}
	hotspotIDs := map[int]struct{}{}
	for _, h := range d.Hotspots {
		if _, dup := hotspotIDs[h.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: hotspot %d", ErrDuplicateID, h.ID))
		}
		hotspotIDs[h.ID] = struct{}{}
		if h.Value < 0 {
			errs = append(errs, fmt.Errorf("%w: hotspot %d", ErrNegativeReading, h.ID))
		}
	}
	vehicleIDs := map[string]struct{}{}
	for _, v := range d.Vehicles {
		if _, dup := vehicleIDs[v.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: vehicle %s", ErrDuplicateID, v.ID))
		}
		vehicleIDs[v.ID] = struct{}{}
		if v.CO2 < 0 || v.Fuel < 0 || v.Trips < 0 {
			errs = append(errs, fmt.Errorf("%w: vehicle %s", ErrNegativeReading, v.ID))
		}
	}
	routeIDs := map[int]struct{}{}
	for _, r := range d.MapRoutes {
		if _, dup := routeIDs[r.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: map route %d", ErrDuplicateID, r.ID))
		}
		routeIDs[r.ID] = struct{}{}
	}
	if len(d.Suggestions) > 0 {
		if _, ok := d.CurrentSuggestion(); !ok {
			errs = append(errs, ErrNoCurrentRoute)
		}
	}
	return errors.Join(errs...)
}

// CurrentSuggestion returns the suggestion flagged as the route in use.
func (d Dataset) CurrentSuggestion() (RouteSuggestion, bool) {
	for _, s := range d.Suggestions {
		if s.Current {
			return s, true
		}
	}
	return RouteSuggestion{}, false
}

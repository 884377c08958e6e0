package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Map defaults for the coal transport corridor.
const (
	DefaultMapLon  = 86.43589686685833
	DefaultMapLat  = 23.810795924741583
	DefaultMapZoom = 12

	DefaultMapTitle    = "Dhanbad city - Coal Transport Corridor"
	DefaultMapSubtitle = "Gosaidi Coal Block to Hirapur"

	osmTileURL         = "https://{a-c}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	osmTileAttribution = "© OpenStreetMap contributors"

	earthRadius = 6378137.0
)

// TileSource is an XYZ raster tile endpoint.
type TileSource struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// MapOptions configures a map instance.
type MapOptions struct {
	Target    string     `json:"target"`
	Lon       float64    `json:"lon"`
	Lat       float64    `json:"lat"`
	Projected [2]float64 `json:"projected"`
	Zoom      int        `json:"zoom"`
	Tiles     TileSource `json:"tiles"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
}

// DefaultMapOptions centers the map on the corridor and projects the center.
func DefaultMapOptions(target string) MapOptions {
	return MapOptions{
		Target:    target,
		Lon:       DefaultMapLon,
		Lat:       DefaultMapLat,
		Projected: WebMercator(DefaultMapLon, DefaultMapLat),
		Zoom:      DefaultMapZoom,
		Tiles:     TileSource{URL: osmTileURL, Attribution: osmTileAttribution},
		Title:     DefaultMapTitle,
		Subtitle:  DefaultMapSubtitle,
	}
}

// WebMercator projects a lon/lat pair to EPSG:3857 meters.
func WebMercator(lon, lat float64) [2]float64 {
	x := earthRadius * lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return [2]float64{x, y}
}

// CoordinateLabel prints a lat/lon pair truncated to six decimals.
func CoordinateLabel(lat, lon float64) string {
	return fmt.Sprintf("%.6f°%s, %.6f°%s",
		truncate6(math.Abs(lat)), hemisphere(lat, "N", "S"),
		truncate6(math.Abs(lon)), hemisphere(lon, "E", "W"))
}

func truncate6(v float64) float64 {
	return math.Trunc(v*1e6) / 1e6
}

func hemisphere(v float64, pos, neg string) string {
	if v < 0 {
		return neg
	}
	return pos
}

// MapEngine creates client map instances.
type MapEngine interface {
	Init(ctx context.Context, opts MapOptions) (MapInstance, error)
}

// MapInstance is a live map. Dispose releases it; calls after the first are no-ops.
type MapInstance interface {
	ID() string
	Options() MapOptions
	Dispose() error
}

// OpenLayersEngine produces the bootstrap configuration read by the OpenLayers client.
type OpenLayersEngine struct{}

var _ MapEngine = OpenLayersEngine{}

// Init validates the options and allocates an instance id.
func (OpenLayersEngine) Init(ctx context.Context, opts MapOptions) (MapInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Target == "" {
		return nil, errors.New("dashboard: map target element is required")
	}
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultMapZoom
	}
	return &openLayersInstance{id: uuid.NewString(), opts: opts}, nil
}

type openLayersInstance struct {
	id       string
	opts     MapOptions
	disposed atomic.Bool
}

func (m *openLayersInstance) ID() string          { return m.id }
func (m *openLayersInstance) Options() MapOptions { return m.opts }

func (m *openLayersInstance) Dispose() error {
	m.disposed.Store(true)
	return nil
}

// MapMount describes the map mounted for a session.
type MapMount struct {
	InstanceID string     `json:"instance_id"`
	Options    MapOptions `json:"options"`
}

// Map lifecycle limits. Browsers rarely end their session, so mounts that
// stop rendering are reclaimed.
const (
	DefaultMapIdleTTL  = 30 * time.Minute
	DefaultMapCapacity = 1024
)

// MapLifecycle tracks one mounted map per viewer session. Mounts idle for
// longer than the TTL are disposed on the next Mount, and once capacity is
// reached the least recently rendered mount makes room.
type MapLifecycle struct {
	engine   MapEngine
	idleTTL  time.Duration
	capacity int
	now      func() time.Time

	mu     sync.Mutex
	mounts map[string]*liveMap
}

type liveMap struct {
	inst     MapInstance
	lastSeen time.Time
}

// MapLifecycleOption customizes a MapLifecycle.
type MapLifecycleOption func(*MapLifecycle)

// WithMapIdleTTL sets how long an unrendered mount survives. Zero keeps mounts until released.
func WithMapIdleTTL(ttl time.Duration) MapLifecycleOption {
	return func(l *MapLifecycle) {
		l.idleTTL = ttl
	}
}

// WithMapCapacity bounds the number of live mounts. Zero removes the bound.
func WithMapCapacity(n int) MapLifecycleOption {
	return func(l *MapLifecycle) {
		l.capacity = n
	}
}

// NewMapLifecycle builds a lifecycle over engine, defaulting to OpenLayers.
func NewMapLifecycle(engine MapEngine, opts ...MapLifecycleOption) *MapLifecycle {
	if engine == nil {
		engine = OpenLayersEngine{}
	}
	l := &MapLifecycle{
		engine:   engine,
		idleTTL:  DefaultMapIdleTTL,
		capacity: DefaultMapCapacity,
		now:      time.Now,
		mounts:   map[string]*liveMap{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mount initializes the session map. A session already mounted keeps its instance.
func (l *MapLifecycle) Mount(ctx context.Context, session string, opts MapOptions) (MapMount, error) {
	if session == "" {
		return MapMount{}, ErrMissingSession
	}
	now := l.now()
	l.mu.Lock()
	if live, ok := l.mounts[session]; ok {
		live.lastSeen = now
		l.mu.Unlock()
		return MapMount{InstanceID: live.inst.ID(), Options: live.inst.Options()}, nil
	}
	evicted := l.evictLocked(now)
	inst, err := l.engine.Init(ctx, opts)
	if err == nil {
		l.mounts[session] = &liveMap{inst: inst, lastSeen: now}
	}
	l.mu.Unlock()

	disposeErr := disposeAll(evicted)
	if err != nil {
		return MapMount{}, fmt.Errorf("dashboard: mount map: %w", err)
	}
	if disposeErr != nil {
		return MapMount{}, disposeErr
	}
	return MapMount{InstanceID: inst.ID(), Options: inst.Options()}, nil
}

// evictLocked removes idle mounts, then the least recently seen ones until a
// new mount fits.
func (l *MapLifecycle) evictLocked(now time.Time) []MapInstance {
	var evicted []MapInstance
	if l.idleTTL > 0 {
		for session, live := range l.mounts {
			if now.Sub(live.lastSeen) >= l.idleTTL {
				evicted = append(evicted, live.inst)
				delete(l.mounts, session)
			}
		}
	}
	for l.capacity > 0 && len(l.mounts) >= l.capacity {
		oldest := ""
		var seen time.Time
		for session, live := range l.mounts {
			if oldest == "" || live.lastSeen.Before(seen) {
				oldest, seen = session, live.lastSeen
			}
		}
		evicted = append(evicted, l.mounts[oldest].inst)
		delete(l.mounts, oldest)
	}
	return evicted
}

func disposeAll(instances []MapInstance) error {
	var errs []error
	for _, inst := range instances {
		if err := inst.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unmount disposes the session map. It reports whether a map was released.
func (l *MapLifecycle) Unmount(session string) (bool, error) {
	l.mu.Lock()
	live, ok := l.mounts[session]
	delete(l.mounts, session)
	l.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, live.inst.Dispose()
}

// Mounted reports whether the session has a live map.
func (l *MapLifecycle) Mounted(session string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.mounts[session]
	return ok
}

// Len reports the number of live maps.
func (l *MapLifecycle) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.mounts)
}

// Close disposes every mounted map.
func (l *MapLifecycle) Close() error {
	l.mu.Lock()
	instances := make([]MapInstance, 0, len(l.mounts))
	for _, live := range l.mounts {
		instances = append(instances, live.inst)
	}
	l.mounts = map[string]*liveMap{}
	l.mu.Unlock()
	return disposeAll(instances)
}

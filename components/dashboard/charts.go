package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultChartHeight = "300px"
	// DefaultEChartsAssetsHost serves the echarts runtime when no host is configured.
	DefaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

// Chart kinds supported by ChartRenderer.
const (
	ChartLine = "line"
	ChartBar  = "bar"
	ChartPie  = "pie"
)

// ChartSpec describes a chart independently of the echarts object model.
type ChartSpec struct {
	Kind     string        `json:"kind"`
	Title    string        `json:"title,omitempty"`
	Subtitle string        `json:"subtitle,omitempty"`
	XAxis    []string      `json:"x_axis,omitempty"`
	Series   []ChartSeries `json:"series"`
	Height   string        `json:"height,omitempty"`
	Theme    string        `json:"theme,omitempty"`
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
	Dashed bool         `json:"dashed,omitempty"`
	Color  string       `json:"color,omitempty"`
}

// ChartPoint represents an individual value (optionally labeled and colored).
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ChartRenderer turns chart specs into self-contained echarts HTML documents.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the host the echarts scripts load from.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with a five minute cache.
func NewChartRenderer(opts ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache:      NewChartCache(5 * time.Minute),
		theme:      types.ThemeWesteros,
		assetsHost: DefaultEChartsAssetsHost,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.assetsHost != "" {
		r.assetsHost = ensureTrailingSlash(r.assetsHost)
	}
	return r
}

// Render returns the chart HTML, served from cache when key and spec are unchanged.
func (r *ChartRenderer) Render(key string, spec ChartSpec) (string, error) {
	if len(spec.Series) == 0 {
		return "", fmt.Errorf("dashboard: chart %s has no series", key)
	}
	renderFn := func() (string, error) {
		return r.render(spec)
	}
	if r.cache == nil {
		return renderFn()
	}
	return r.cache.GetOrRender(key+":"+contentKey(spec), renderFn)
}

func (r *ChartRenderer) render(spec ChartSpec) (string, error) {
	switch strings.ToLower(spec.Kind) {
	case ChartLine:
		return r.renderLineChart(spec)
	case ChartBar:
		return r.renderBarChart(spec)
	case ChartPie:
		return r.renderPieChart(spec)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", spec.Kind)
	}
}

func (r *ChartRenderer) renderLineChart(spec ChartSpec) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(spec)...)
	line.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		var seriesOpts []charts.SeriesOpts
		if s.Dashed {
			seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
		}
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		line.AddSeries(s.Name, toLineData(s.Points), seriesOpts...)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *ChartRenderer) renderBarChart(spec ChartSpec) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(spec)...)
	bar.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		bar.AddSeries(s.Name, toBarData(s.Points), seriesOpts...)
	}
	return renderChart(bar)
}

func (r *ChartRenderer) renderPieChart(spec ChartSpec) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(spec)...)
	for _, s := range spec.Series {
		pie.AddSeries(s.Name, toPieData(s.Points),
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}),
		)
	}
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(spec ChartSpec) []charts.GlobalOpts {
	theme := spec.Theme
	if theme == "" {
		theme = r.theme
	}
	height := spec.Height
	if height == "" {
		height = defaultChartHeight
	}
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(spec.Series) > 1 || spec.Kind == ChartPie)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{
			Name:  point.Label,
			Value: point.Value,
		}
	}
	return data
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{
			Name:  point.Label,
			Value: point.Value,
		}
		if point.Color != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: point.Color}
		}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{
			Name:  name,
			Value: point.Value,
		}
		if point.Color != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: point.Color}
		}
	}
	return data
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}

// Package metrics records template render outcomes through OpenTelemetry.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const (
	meterName = "github.com/goliatone/go-webtempl"

	RendersTotal   = "templ_renders_total"
	CompilesTotal  = "templ_compiles_total"
	RenderDuration = "templ_render_duration_seconds"
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusCompile  = "compile_error"
	StatusEvaluate = "evaluation_error"
	StatusFailed   = "error"
	CacheHit       = "hit"
	CacheMiss      = "miss"
	CacheBypass    = "bypass"
)

// ErrNoReader is returned by Snapshot on collectors built without a reader.
var ErrNoReader = errors.New("metrics: collector has no reader")

// Collector holds the render instruments.
type Collector struct {
	renders  metric.Int64Counter
	compiles metric.Int64Counter
	duration metric.Float64Histogram
	reader   *sdkmetric.ManualReader
}

// Point is one aggregated data point. Histograms report their sum as Value.
type Point struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      float64           `json:"value"`
	Count      uint64            `json:"count,omitempty"`
}

// Init installs a global SDK meter provider tagged with serviceName and
// returns a collector bound to it. Nothing is exported; the provider is
// read in process through Snapshot.
func Init(serviceName string) (*Collector, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: resource init failed: %w", err)
	}

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	c, err := New(mp)
	if err != nil {
		return nil, err
	}
	c.reader = reader
	return c, nil
}

// New creates a collector from an explicit provider.
func New(provider metric.MeterProvider) (*Collector, error) {
	meter := provider.Meter(meterName)

	renders, err := meter.Int64Counter(RendersTotal,
		metric.WithDescription("Template renders by outcome and cache usage"))
	if err != nil {
		return nil, fmt.Errorf("metrics: counter init failed: %w", err)
	}

	compiles, err := meter.Int64Counter(CompilesTotal,
		metric.WithDescription("Template compilations"))
	if err != nil {
		return nil, fmt.Errorf("metrics: counter init failed: %w", err)
	}

	duration, err := meter.Float64Histogram(RenderDuration,
		metric.WithDescription("Template render latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("metrics: histogram init failed: %w", err)
	}

	return &Collector{renders: renders, compiles: compiles, duration: duration}, nil
}

// ObserveRender records one finished render.
func (c *Collector) ObserveRender(ctx context.Context, status, cache string, took time.Duration) {
	if c == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("cache", cache),
	)
	c.renders.Add(ctx, 1, attrs)
	c.duration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// ObserveCompile records one compilation of the resolved key.
func (c *Collector) ObserveCompile(ctx context.Context, key string) {
	if c == nil {
		return
	}
	c.compiles.Add(ctx, 1, metric.WithAttributes(attribute.String("template", key)))
}

// Snapshot collects the current value of every instrument.
func (c *Collector) Snapshot(ctx context.Context) ([]Point, error) {
	if c == nil || c.reader == nil {
		return nil, ErrNoReader
	}

	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("metrics: collect failed: %w", err)
	}

	var points []Point
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{
						Name:       m.Name,
						Attributes: attributeMap(dp.Attributes),
						Value:      float64(dp.Value),
					})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{
						Name:       m.Name,
						Attributes: attributeMap(dp.Attributes),
						Value:      dp.Sum,
						Count:      dp.Count,
					})
				}
			}
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	return points, nil
}

func attributeMap(set attribute.Set) map[string]string {
	if set.Len() == 0 {
		return nil
	}
	out := make(map[string]string, set.Len())
	for _, kv := range set.ToSlice() {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

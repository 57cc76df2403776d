package schema

import (
	"sort"
	"strings"
)

// Metric is a distance metric for a dimension-configured index.
type Metric string

const (
	MetricCosine     Metric = "cosine"
	MetricEuclidean  Metric = "euclidean"
	MetricDotProduct Metric = "dot-product"
)

// Dimension bounds for dimension-configured indexes.
const (
	MinDimensions = 32
	MaxDimensions = 1536
)

// Preset is a named embedding-model configuration. A preset implies a fixed
// dimensionality and metric on the remote side.
type Preset string

// supportedPresets is the closed set of embedding-model identifiers the
// remote service accepts.
var supportedPresets = map[Preset]bool{
	"@cf/baai/bge-small-en-v1.5":     true,
	"@cf/baai/bge-base-en-v1.5":      true,
	"@cf/baai/bge-large-en-v1.5":     true,
	"openai/text-embedding-ada-002":  true,
	"cohere/embed-multilingual-v2.0": true,
}

// SupportedPresets returns the preset identifiers in sorted order.
func SupportedPresets() []string {
	out := make([]string, 0, len(supportedPresets))
	for p := range supportedPresets {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return m, nil
	default:
		return "", errf("metric", "must be one of cosine, euclidean, dot-product, got %q", s)
	}
}

// ParsePreset validates a preset identifier against the supported set.
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if !supportedPresets[p] {
		return "", errf("preset", "unsupported preset %q, must be one of: %s",
			s, strings.Join(SupportedPresets(), ", "))
	}
	return p, nil
}

// ConfigInput is the raw, union-shaped config parameter of index creation.
// Callers populate whichever fields the agent supplied; ParseIndexConfig
// decides which variant they form.
type ConfigInput struct {
	Dimensions *int
	Metric     *string
	Preset     *string
}

// DimensionConfig is the explicit dimensions/metric variant of IndexConfig.
type DimensionConfig struct {
	Dimensions int
	Metric     Metric
}

// PresetConfig is the embedding-model preset variant of IndexConfig.
type PresetConfig struct {
	Preset Preset
}

// IndexConfig is a tagged union: exactly one of Dimension or Preset is
// non-nil after a successful parse.
type IndexConfig struct {
	Dimension *DimensionConfig
	Preset    *PresetConfig
}

// ParseIndexConfig validates the config union. Variants are tried in a fixed
// order: the dimensions/metric shape first, the preset shape second. The
// first variant whose shape matches is validated and accepted; a shape match
// with a failing constraint reports that variant's field error. When neither
// shape matches, the combined error names both rejected shapes.
func ParseIndexConfig(in ConfigInput) (IndexConfig, error) {
	// Dimensions/metric variant: shape matches when both fields are present.
	if in.Dimensions != nil && in.Metric != nil {
		d := *in.Dimensions
		if d < MinDimensions || d > MaxDimensions {
			return IndexConfig{}, errf("config.dimensions", "must be between %d and %d, got %d",
				MinDimensions, MaxDimensions, d)
		}
		m, err := ParseMetric(*in.Metric)
		if err != nil {
			return IndexConfig{}, errf("config.metric", "%s", err.(*FieldError).Reason)
		}
		return IndexConfig{Dimension: &DimensionConfig{Dimensions: d, Metric: m}}, nil
	}

	// Preset variant.
	if in.Preset != nil {
		p, err := ParsePreset(*in.Preset)
		if err != nil {
			return IndexConfig{}, errf("config.preset", "%s", err.(*FieldError).Reason)
		}
		return IndexConfig{Preset: &PresetConfig{Preset: p}}, nil
	}

	return IndexConfig{}, errf("config",
		"expected either {dimensions, metric} or {preset}; matched neither shape")
}

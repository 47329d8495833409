// Package config loads and validates allocation problem files and turns them
// into the alloc package's Use values.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/fracalloc/alloc"
)

// DefaultSteps is the number of intervals the total is divided into when no
// explicit interval is given.
const DefaultSteps = 100

// Supported file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the top-level allocation problem.
type Config struct {
	PriceUnit     string    `json:"priceUnit" yaml:"priceUnit"`
	QuantityUnit  string    `json:"quantityUnit" yaml:"quantityUnit"`
	TotalQuantity float64   `json:"totalQuantity" yaml:"totalQuantity"`
	Uses          []UseSpec `json:"uses" yaml:"uses"`
}

// UseSpec describes one use. Which pricing fields are required depends on
// Type; pointers distinguish an omitted field from an explicit zero.
type UseSpec struct {
	Name       string   `json:"name" yaml:"name"`
	Multiplier *float64 `json:"multiplier" yaml:"multiplier"`
	Type       string   `json:"type" yaml:"type"`

	// linear
	LinearSlope *float64 `json:"linearSlope,omitempty" yaml:"linearSlope,omitempty"`

	// exponential (power/hyperbolic)
	Coefficient     *float64 `json:"coefficient,omitempty" yaml:"coefficient,omitempty"`
	HorizontalShift *float64 `json:"horizontalShift,omitempty" yaml:"horizontalShift,omitempty"`
	Exponent        *float64 `json:"exponent,omitempty" yaml:"exponent,omitempty"`

	// both
	Offset *float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Load reads an allocation problem from path. Files ending in .yaml or .yml
// are parsed as YAML; everything else as JSON. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format with strict field checking.
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parsing config JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config format %q; valid: json, yaml", format)
	}
	return &cfg, nil
}

// Validate reports every problem in the configuration at once. The returned
// error wraps alloc.ErrConfiguration.
func (c *Config) Validate() error {
	var result *multierror.Error
	if math.IsNaN(c.TotalQuantity) || math.IsInf(c.TotalQuantity, 0) || c.TotalQuantity <= 0 {
		result = multierror.Append(result, fmt.Errorf("totalQuantity must be a finite positive number, got %g", c.TotalQuantity))
	}
	if len(c.Uses) < alloc.MinUses {
		result = multierror.Append(result, fmt.Errorf("at least %d uses required, got %d", alloc.MinUses, len(c.Uses)))
	}
	names := make(map[string]int, len(c.Uses))
	for i := range c.Uses {
		u := &c.Uses[i]
		if prev, dup := names[u.Name]; dup && u.Name != "" {
			result = multierror.Append(result, fmt.Errorf("uses[%d]: name %q already used by uses[%d]", i, u.Name, prev))
		}
		names[u.Name] = i
		result = multierror.Append(result, validateUse(u, i)...)
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", alloc.ErrConfiguration, err)
	}
	return nil
}

func validateUse(u *UseSpec, idx int) []error {
	prefix := fmt.Sprintf("uses[%d]", idx)
	var errs []error
	if u.Name == "" {
		errs = append(errs, fmt.Errorf("%s: name is required", prefix))
	} else {
		prefix = fmt.Sprintf("uses[%d] %q", idx, u.Name)
	}
	errs = append(errs, requireFinite(prefix, "multiplier", u.Multiplier)...)

	switch u.Type {
	case alloc.KindLinear:
		errs = append(errs, requireFinite(prefix, "linearSlope", u.LinearSlope)...)
		errs = append(errs, requireFinite(prefix, "offset", u.Offset)...)
		errs = append(errs, forbid(prefix, u.Type, "coefficient", u.Coefficient)...)
		errs = append(errs, forbid(prefix, u.Type, "horizontalShift", u.HorizontalShift)...)
		errs = append(errs, forbid(prefix, u.Type, "exponent", u.Exponent)...)
	case alloc.KindExponential:
		errs = append(errs, requireFinite(prefix, "coefficient", u.Coefficient)...)
		errs = append(errs, requireFinite(prefix, "horizontalShift", u.HorizontalShift)...)
		errs = append(errs, requireFinite(prefix, "exponent", u.Exponent)...)
		errs = append(errs, requireFinite(prefix, "offset", u.Offset)...)
		errs = append(errs, forbid(prefix, u.Type, "linearSlope", u.LinearSlope)...)
	default:
		errs = append(errs, fmt.Errorf("%s: unknown type %q; valid: linear, exponential", prefix, u.Type))
	}
	return errs
}

func requireFinite(prefix, field string, v *float64) []error {
	if v == nil {
		return []error{fmt.Errorf("%s: %s is required", prefix, field)}
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return []error{fmt.Errorf("%s: %s must be a finite number, got %g", prefix, field, *v)}
	}
	return nil
}

func forbid(prefix, kind, field string, v *float64) []error {
	if v != nil {
		return []error{fmt.Errorf("%s: %s is not valid for type %s", prefix, field, kind)}
	}
	return nil
}

// Uses validates the configuration and builds one alloc.Use per entry, in
// file order.
func (c *Config) Uses() ([]alloc.Use, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	uses := make([]alloc.Use, len(c.Uses))
	for i, u := range c.Uses {
		var model alloc.PriceModel
		switch u.Type {
		case alloc.KindLinear:
			model = alloc.Linear{Slope: *u.LinearSlope, Offset: *u.Offset}
		case alloc.KindExponential:
			model = alloc.Power{
				Coefficient: *u.Coefficient,
				Shift:       *u.HorizontalShift,
				Exponent:    *u.Exponent,
				Offset:      *u.Offset,
			}
		}
		uses[i] = alloc.Use{Name: u.Name, Multiplier: *u.Multiplier, Price: model}
	}
	return uses, nil
}

// Interval returns the enumeration step for dividing the total into steps
// intervals. Non-positive steps fall back to DefaultSteps.
func (c *Config) Interval(steps int) float64 {
	if steps <= 0 {
		steps = DefaultSteps
	}
	return c.TotalQuantity / float64(steps)
}

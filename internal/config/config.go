package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Range is a closed interval
type Range struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

// Clear holds the values render targets are cleared to each frame
type Clear struct {
	Color [4]float32 `yaml:"color" toml:"color"`
	Depth float64    `yaml:"depth" toml:"depth"`
}

// Distance holds the orbit distance limits and zoom speed (units/s)
type Distance struct {
	Min      float64 `yaml:"min" toml:"min"`
	Max      float64 `yaml:"max" toml:"max"`
	Velocity float64 `yaml:"velocity" toml:"velocity"`
}

// Projection holds the perspective parameters. FieldOfView is vertical, in radians.
type Projection struct {
	FieldOfView float64 `yaml:"fieldOfView" toml:"fieldOfView"`
	Z           struct {
		Near float64 `yaml:"near" toml:"near"`
		Far  float64 `yaml:"far" toml:"far"`
	} `yaml:"z" toml:"z"`
}

// Grid holds the instance grid dimensions and spacing between cells
type Grid struct {
	N       int     `yaml:"n" toml:"n"`
	M       int     `yaml:"m" toml:"m"`
	L       int     `yaml:"l" toml:"l"`
	Spacing float64 `yaml:"spacing" toml:"spacing"`
}

// Light is the fixed ambient + directional pair
type Light struct {
	Ambient     [3]float32 `yaml:"ambient" toml:"ambient"`
	Directional struct {
		Color     [3]float32 `yaml:"color" toml:"color"`
		Direction [3]float32 `yaml:"direction" toml:"direction"`
	} `yaml:"directional" toml:"directional"`
}

// Window holds the initial window geometry
type Window struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
}

// Config is the viewer configuration record
type Config struct {
	Clear             Clear      `yaml:"clear" toml:"clear"`
	Distance          Distance   `yaml:"distance" toml:"distance"`
	Elevation         Range      `yaml:"elevation" toml:"elevation"`
	AzimuthVelocity   float64    `yaml:"azimuthVelocity" toml:"azimuthVelocity"`
	ElevationVelocity float64    `yaml:"elevationVelocity" toml:"elevationVelocity"`
	RotationVelocity  float64    `yaml:"rotationVelocity" toml:"rotationVelocity"`
	Projection        Projection `yaml:"projection" toml:"projection"`
	Grid              Grid       `yaml:"grid" toml:"grid"`
	Light             Light      `yaml:"light" toml:"light"`
	Window            Window     `yaml:"window" toml:"window"`

	// FPSLimit caps the tick rate; 0 leaves pacing to vsync
	FPSLimit int  `yaml:"fpsLimit" toml:"fpsLimit"`
	VSync    bool `yaml:"vsync" toml:"vsync"`
	Overlay  bool `yaml:"overlay" toml:"overlay"`
	// OverlayFont references a TrueType or OpenType file; empty uses the built-in face
	OverlayFont     string  `yaml:"overlayFont" toml:"overlayFont"`
	OverlayFontSize float64 `yaml:"overlayFontSize" toml:"overlayFontSize"`
	// MaxStep bounds the seconds integrated in one tick
	MaxStep float64 `yaml:"maxStep" toml:"maxStep"`
}

// Default returns the built-in configuration used when no file is given
func Default() Config {
	c := Config{
		Clear:             Clear{Color: [4]float32{0, 0, 0, 1}, Depth: 1},
		Distance:          Distance{Min: 1, Max: 100, Velocity: 10},
		Elevation:         Range{Min: -math.Pi / 2, Max: math.Pi / 2},
		AzimuthVelocity:   0.25 * math.Pi, // 0.125 Hz
		ElevationVelocity: 0.25 * math.Pi,
		RotationVelocity:  0.5 * math.Pi, // 0.25 Hz
		Grid:              Grid{N: 3, M: 4, L: 5, Spacing: 2},
		Window:            Window{Width: 900, Height: 600, Title: "gridview"},
		VSync:             true,
		Overlay:           true,
		OverlayFontSize:   14,
		MaxStep:           0.25,
	}
	c.Projection.FieldOfView = 0.5 * math.Pi
	c.Projection.Z.Near = 0.1
	c.Projection.Z.Far = 200
	c.Light.Ambient = [3]float32{0.25, 0.25, 0.25}
	c.Light.Directional.Color = [3]float32{0.75, 0.25, 0.25}
	c.Light.Directional.Direction = [3]float32{0, 1, 0}
	return c
}

// Format names a configuration syntax
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the syntax from a file name. JSON is read as YAML.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported configuration file %q", name)
}

// Parse decodes data over the defaults and validates the result.
// Keys absent from data keep their default values.
func Parse(data []byte, format Format) (Config, error) {
	c := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("could not decode configuration: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("could not decode configuration: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported configuration format %q", format)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses a configuration file
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read configuration file: %w", err)
	}
	return Parse(data, format)
}

// Validate rejects ranges and dimensions the viewer cannot run with
func (c Config) Validate() error {
	if name := c.firstNonFinite(); name != "" {
		return fmt.Errorf("%w: %s is not a finite number", ErrInvalid, name)
	}
	switch {
	case c.Distance.Min <= 0 || c.Distance.Min > c.Distance.Max:
		return fmt.Errorf("%w: distance range [%g, %g]", ErrInvalid, c.Distance.Min, c.Distance.Max)
	case c.Elevation.Min > c.Elevation.Max || c.Elevation.Min < -math.Pi/2 || c.Elevation.Max > math.Pi/2:
		return fmt.Errorf("%w: elevation range [%g, %g]", ErrInvalid, c.Elevation.Min, c.Elevation.Max)
	case c.Projection.FieldOfView <= 0 || c.Projection.FieldOfView >= math.Pi:
		return fmt.Errorf("%w: field of view %g", ErrInvalid, c.Projection.FieldOfView)
	case c.Projection.Z.Near <= 0 || c.Projection.Z.Near >= c.Projection.Z.Far:
		return fmt.Errorf("%w: z range [%g, %g]", ErrInvalid, c.Projection.Z.Near, c.Projection.Z.Far)
	case c.Grid.N <= 0 || c.Grid.M <= 0 || c.Grid.L <= 0:
		return fmt.Errorf("%w: grid %dx%dx%d", ErrInvalid, c.Grid.N, c.Grid.M, c.Grid.L)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.FPSLimit < 0:
		return fmt.Errorf("%w: fps limit %d", ErrInvalid, c.FPSLimit)
	case c.OverlayFont != "" && c.OverlayFontSize <= 0:
		return fmt.Errorf("%w: overlay font size %g", ErrInvalid, c.OverlayFontSize)
	case c.MaxStep <= 0:
		return fmt.Errorf("%w: max step %g", ErrInvalid, c.MaxStep)
	}
	return nil
}

func (c Config) firstNonFinite() string {
	scalars := []struct {
		name string
		v    float64
	}{
		{"clear.depth", c.Clear.Depth},
		{"distance.min", c.Distance.Min},
		{"distance.max", c.Distance.Max},
		{"distance.velocity", c.Distance.Velocity},
		{"elevation.min", c.Elevation.Min},
		{"elevation.max", c.Elevation.Max},
		{"azimuthVelocity", c.AzimuthVelocity},
		{"elevationVelocity", c.ElevationVelocity},
		{"rotationVelocity", c.RotationVelocity},
		{"projection.fieldOfView", c.Projection.FieldOfView},
		{"projection.z.near", c.Projection.Z.Near},
		{"projection.z.far", c.Projection.Z.Far},
		{"grid.spacing", c.Grid.Spacing},
		{"overlayFontSize", c.OverlayFontSize},
		{"maxStep", c.MaxStep},
	}
	for _, s := range scalars {
		if !finite(s.v) {
			return s.name
		}
	}

	vectors := []struct {
		name string
		v    []float32
	}{
		{"clear.color", c.Clear.Color[:]},
		{"light.ambient", c.Light.Ambient[:]},
		{"light.directional.color", c.Light.Directional.Color[:]},
		{"light.directional.direction", c.Light.Directional.Direction[:]},
	}
	for _, vec := range vectors {
		for _, v := range vec.v {
			if !finite(float64(v)) {
				return vec.name
			}
		}
	}
	return ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

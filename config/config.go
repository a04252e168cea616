// Package config loads viewer settings from defaults, an optional file,
// EFIELD_* environment variables and command-line flags, in rising precedence
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/vmath"
)

// EnvPrefix namespaces environment overrides, e.g. EFIELD_FIELD_PERMITTIVITY
const EnvPrefix = "EFIELD"

// Evaluator names accepted by field.evaluator
const (
	EvaluatorDirect    = "direct"
	EvaluatorBarnesHut = "barneshut"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("config: invalid")

// GridConfig holds lattice settings
type GridConfig struct {
	Width   int     `mapstructure:"width"`
	Height  int     `mapstructure:"height"`
	Spacing float64 `mapstructure:"spacing"`
}

// FieldConfig holds evaluator settings
type FieldConfig struct {
	Permittivity float64 `mapstructure:"permittivity"`
	Evaluator    string  `mapstructure:"evaluator"`
	Theta        float64 `mapstructure:"theta"`
}

// LineConfig holds tracer settings
type LineConfig struct {
	Angle float64 `mapstructure:"angle"`
}

// ViewConfig holds terminal view settings
type ViewConfig struct {
	Scale       float64 `mapstructure:"scale"`
	ShowGrid    bool    `mapstructure:"showGrid"`
	ShowVectors bool    `mapstructure:"showVectors"`
	ShowLine    bool    `mapstructure:"showLine"`
}

// LogConfig holds log file settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
	File  string `mapstructure:"file"`
}

// AudioConfig holds cue playback settings
type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Volume     float64 `mapstructure:"volume"`
	SampleRate int     `mapstructure:"sampleRate"`
}

// ExportConfig holds snapshot settings
type ExportConfig struct {
	Path string `mapstructure:"path"`
}

// ChargeSeed seeds one charge at startup; Q is in microcoulombs
type ChargeSeed struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Q float64 `mapstructure:"q"`
}

// Config is the resolved configuration
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Field   FieldConfig   `mapstructure:"field"`
	Line    LineConfig    `mapstructure:"line"`
	View    ViewConfig    `mapstructure:"view"`
	Tick    time.Duration `mapstructure:"tick"`
	Log     LogConfig     `mapstructure:"log"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Export  ExportConfig  `mapstructure:"export"`
	Charges []ChargeSeed  `mapstructure:"charges"`
}

// flagKeys maps command-line flag names to configuration keys
var flagKeys = map[string]string{
	"grid-width":   "grid.width",
	"grid-height":  "grid.height",
	"grid-spacing": "grid.spacing",
	"permittivity": "field.permittivity",
	"evaluator":    "field.evaluator",
	"theta":        "field.theta",
	"angle":        "line.angle",
	"scale":        "view.scale",
	"tick":         "tick",
	"log-level":    "log.level",
	"log-dir":      "log.dir",
	"audio":        "audio.enabled",
	"volume":       "audio.volume",
	"export":       "export.path",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.width", parameter.DefaultGridWidth)
	v.SetDefault("grid.height", parameter.DefaultGridHeight)
	v.SetDefault("grid.spacing", parameter.DefaultGridSpacing)

	v.SetDefault("field.permittivity", parameter.DefaultPermittivity)
	v.SetDefault("field.evaluator", EvaluatorDirect)
	v.SetDefault("field.theta", parameter.DefaultBarnesHutTheta)

	v.SetDefault("line.angle", 0.0)

	v.SetDefault("view.scale", parameter.DefaultViewScale)
	v.SetDefault("view.showGrid", true)
	v.SetDefault("view.showVectors", true)
	v.SetDefault("view.showLine", false)

	v.SetDefault("tick", parameter.DefaultTick)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "./logs")
	v.SetDefault("log.file", "efield.log")

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", parameter.DefaultAudioVolume)
	v.SetDefault("audio.sampleRate", parameter.AudioSampleRate)

	v.SetDefault("export.path", "")
	v.SetDefault("charges", []any{})
}

// Flags returns the command-line flag set understood by Load
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "configuration file (toml, yaml or json)")

	fs.Int("grid-width", parameter.DefaultGridWidth, "field grid columns")
	fs.Int("grid-height", parameter.DefaultGridHeight, "field grid rows")
	fs.Float64("grid-spacing", parameter.DefaultGridSpacing, "field grid spacing in simulation units")

	fs.Float64("permittivity", parameter.DefaultPermittivity, "relative permittivity εr")
	fs.String("evaluator", EvaluatorDirect, "field evaluator: direct or barneshut")
	fs.Float64("theta", parameter.DefaultBarnesHutTheta, "Barnes-Hut opening angle")

	fs.Float64("angle", 0, "field line start angle in radians")
	fs.Float64("scale", parameter.DefaultViewScale, "terminal columns per simulation unit")
	fs.Duration("tick", parameter.DefaultTick, "simulation tick interval")

	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-dir", "./logs", "log directory")

	fs.Bool("audio", true, "play audio cues")
	fs.Float64("volume", parameter.DefaultAudioVolume, "audio volume in [0, 1]")

	fs.String("export", "", "render one frame to this PDF and exit")
	return fs
}

// Load resolves configuration; path and flags are optional
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "config: bind --%s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	cfg.Field.Evaluator = strings.ToLower(strings.TrimSpace(cfg.Field.Evaluator))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width < 0 || c.Grid.Height < 0:
		return errors.Wrapf(ErrInvalidConfig, "grid size %dx%d", c.Grid.Width, c.Grid.Height)
	case !positive(c.Grid.Spacing):
		return errors.Wrapf(ErrInvalidConfig, "grid.spacing %g", c.Grid.Spacing)
	case !positive(c.Field.Permittivity):
		return errors.Wrapf(ErrInvalidConfig, "field.permittivity %g", c.Field.Permittivity)
	case c.Field.Evaluator != EvaluatorDirect && c.Field.Evaluator != EvaluatorBarnesHut:
		return errors.Wrapf(ErrInvalidConfig, "field.evaluator %q", c.Field.Evaluator)
	case !vmath.IsFinite(c.Field.Theta) || c.Field.Theta < 0:
		return errors.Wrapf(ErrInvalidConfig, "field.theta %g", c.Field.Theta)
	case !vmath.IsFinite(c.Line.Angle):
		return errors.Wrapf(ErrInvalidConfig, "line.angle %g", c.Line.Angle)
	case !positive(c.View.Scale):
		return errors.Wrapf(ErrInvalidConfig, "view.scale %g", c.View.Scale)
	case c.Tick <= 0:
		return errors.Wrapf(ErrInvalidConfig, "tick %s", c.Tick)
	case !vmath.IsFinite(c.Audio.Volume) || c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return errors.Wrapf(ErrInvalidConfig, "audio.volume %g", c.Audio.Volume)
	case c.Audio.SampleRate <= 0:
		return errors.Wrapf(ErrInvalidConfig, "audio.sampleRate %d", c.Audio.SampleRate)
	}

	for i, ch := range c.Charges {
		if !vmath.IsFinite(ch.X) || !vmath.IsFinite(ch.Y) || !vmath.IsFinite(ch.Q) {
			return errors.Wrapf(ErrInvalidConfig, "charges[%d] (%g, %g) q=%g", i, ch.X, ch.Y, ch.Q)
		}
	}
	return nil
}

func positive(f float64) bool {
	return vmath.IsFinite(f) && f > 0
}

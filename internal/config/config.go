// Package config loads settings from defaults, an optional TOML file, the
// environment and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/logger"
	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	Name      = "pixltouch"
	EnvPrefix = "PIXLTOUCH"
)

var ErrInvalid = errors.New("invalid configuration")

// EnvKeyReplacer turns config keys into environment variable suffixes.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and environment bindings on v and reads
// pixltouch.toml from the first of dirs that has one. A missing file is
// not an error.
func Setup(v *viper.Viper, fs afero.Fs, dirs ...string) error {
	v.SetConfigName(Name)
	v.SetConfigType("toml")
	v.SetFs(fs)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.SetTypeByDefaultValue(true)
	for name, field := range Default {
		v.SetDefault(name, field.Value)
		if err := v.BindEnv(name); err != nil {
			return fmt.Errorf("bind env %s: %w", name, err)
		}
	}

	if len(dirs) == 0 {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Config is the typed, validated view of every setting.
type Config struct {
	SkipStep     float64       `validate:"gt=0"`
	SkipDebounce time.Duration `validate:"gt=0"`

	RateLadder           []float64     `validate:"min=1,dive,gt=0"`
	RateEscalateInterval time.Duration `validate:"gte=0"`

	ScrubStep           float64 `validate:"gte=0"`
	ScrubPanSensitivity float64 `validate:"gt=0"`

	RippleAnimation time.Duration `validate:"gt=0"`
	RippleFadeOut   time.Duration `validate:"gte=0"`
	RippleLeftEdge  float64       `validate:"gt=0,lt=1"`
	RippleRightEdge float64       `validate:"gtefield=RippleLeftEdge,lt=1"`

	DismissMode                string  `validate:"oneof=rotation vertical none"`
	DismissActivation          float64 `validate:"gt=0"`
	DismissVelocity            float64 `validate:"gt=0"`
	DismissDeceleration        float64 `validate:"gt=0,lte=1"`
	DismissVerticalMinDuration float64 `validate:"gt=0"`

	ZoomMin float64 `validate:"gt=0"`
	ZoomMax float64 `validate:"gtefield=ZoomMin"`

	ClockTickHz int `validate:"gt=0,lte=240"`

	PlayerBackend     string        `validate:"oneof=sim mpv"`
	PlayerMpvPath     string        `validate:"required_if=PlayerBackend mpv"`
	PlayerSimDuration time.Duration `validate:"gt=0"`

	LogsWrite bool
	LogsPath  string `validate:"required_if=LogsWrite true"`
	LogsLevel string `validate:"oneof=panic fatal error warn info debug trace"`
	LogsJSON  bool
}

var validate = validator.New()

// Load reads every field from v and validates the result.
func Load(v *viper.Viper) (Config, error) {
	ladder, err := parseLadder(v.GetStringSlice(RateLadder))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalid, RateLadder, err)
	}

	cfg := Config{
		SkipStep:                   v.GetFloat64(SkipStep),
		SkipDebounce:               v.GetDuration(SkipDebounce),
		RateLadder:                 ladder,
		RateEscalateInterval:       v.GetDuration(RateEscalateInterval),
		ScrubStep:                  v.GetFloat64(ScrubStep),
		ScrubPanSensitivity:        v.GetFloat64(ScrubPanSensitivity),
		RippleAnimation:            v.GetDuration(RippleAnimation),
		RippleFadeOut:              v.GetDuration(RippleFadeOut),
		RippleLeftEdge:             v.GetFloat64(RippleLeftEdge),
		RippleRightEdge:            v.GetFloat64(RippleRightEdge),
		DismissMode:                strings.ToLower(v.GetString(DismissMode)),
		DismissActivation:          v.GetFloat64(DismissActivation),
		DismissVelocity:            v.GetFloat64(DismissVelocity),
		DismissDeceleration:        v.GetFloat64(DismissDeceleration),
		DismissVerticalMinDuration: v.GetFloat64(DismissVerticalMinDuration),
		ZoomMin:                    v.GetFloat64(ZoomMin),
		ZoomMax:                    v.GetFloat64(ZoomMax),
		ClockTickHz:                v.GetInt(ClockTickHz),
		PlayerBackend:              strings.ToLower(v.GetString(PlayerBackend)),
		PlayerMpvPath:              v.GetString(PlayerMpvPath),
		PlayerSimDuration:          v.GetDuration(PlayerSimDuration),
		LogsWrite:                  v.GetBool(LogsWrite),
		LogsPath:                   v.GetString(LogsPath),
		LogsLevel:                  strings.ToLower(v.GetString(LogsLevel)),
		LogsJSON:                   v.GetBool(LogsJSON),
	}

	if err := validate.Struct(cfg); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			names := lo.Map(fields, func(fe validator.FieldError, _ int) string {
				return fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
			})
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(names, ", "))
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

func parseLadder(raw []string) ([]float64, error) {
	// "1,2,4" from the environment arrives as a single element.
	parts := lo.FlatMap(raw, func(s string, _ int) []string {
		return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	})
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Player converts the settings into the coordinator configuration.
func (c Config) Player() player.Config {
	pc := player.DefaultConfig()
	pc.SkipStep = c.SkipStep
	pc.SkipWindow = c.SkipDebounce
	pc.RateLadder = c.RateLadder
	pc.EscalateInterval = c.RateEscalateInterval
	pc.ScrubStep = c.ScrubStep
	pc.PanSensitivity = c.ScrubPanSensitivity
	pc.RippleAnimation = c.RippleAnimation
	pc.RippleFadeOut = c.RippleFadeOut
	pc.RippleLeftEdge = c.RippleLeftEdge
	pc.RippleRightEdge = c.RippleRightEdge
	pc.Dismiss.Mode = player.ParseDismissMode(c.DismissMode)
	pc.Dismiss.Activation = c.DismissActivation
	pc.Dismiss.Velocity = c.DismissVelocity
	pc.Dismiss.Deceleration = c.DismissDeceleration
	pc.Dismiss.VerticalMin = c.DismissVerticalMinDuration
	pc.ZoomMin = c.ZoomMin
	pc.ZoomMax = c.ZoomMax
	pc.TickInterval = time.Second / time.Duration(c.ClockTickHz)
	return pc
}

func (c Config) Logger() logger.Options {
	return logger.Options{
		Write: c.LogsWrite,
		Path:  c.LogsPath,
		Level: c.LogsLevel,
		JSON:  c.LogsJSON,
	}
}

// Sim describes the simulated item.
func (c Config) Sim() media.SimConfig {
	return media.SimConfig{
		Duration:         c.PlayerSimDuration.Seconds(),
		FPS:              30,
		KeyframeInterval: 2,
	}
}

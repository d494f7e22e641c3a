// Package config assembles a run configuration from defaults, a TOML file and the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/vi-composer/audio"
	"github.com/lixenwraith/vi-composer/composer"
	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/parameter"
	"github.com/lixenwraith/vi-composer/scale"
)

var (
	ErrInvalidFile = errors.New("invalid config file")
	ErrInvalidEnv  = errors.New("invalid environment variable")
)

// Config is everything one invocation needs
type Config struct {
	Composer     composer.Config
	Audio        audio.Config
	Measures     int
	TopK         int
	Coefficients *composer.Coefficients
	Mood         *composer.Mood
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Composer:     composer.DefaultConfig(),
		Audio:        audio.DefaultConfig(),
		Measures:     parameter.DefaultMeasures,
		TopK:         parameter.GATopK,
		Coefficients: composer.DefaultCoefficients(),
	}
}

// file mirrors the TOML layout; pointers mark keys that were present
type file struct {
	Run          runSection                    `toml:"run"`
	Audio        audioSection                  `toml:"audio"`
	Coefficients map[string]coefficientSection `toml:"coefficients"`
	Mood         *composer.Mood                `toml:"mood"`
}

type runSection struct {
	Key            *string  `toml:"key"`
	Low            any      `toml:"low"`
	High           any      `toml:"high"`
	Meter          *string  `toml:"meter"`
	BaseDuration   *float64 `toml:"base_duration"`
	Population     *int     `toml:"population"`
	Generations    *int     `toml:"generations"`
	MutationRate   *float64 `toml:"mutation_rate"`
	CrossoverRate  *float64 `toml:"crossover_rate"`
	TournamentSize *int     `toml:"tournament_size"`
	Seed           *uint64  `toml:"seed"`
	Workers        *int     `toml:"workers"`
	Measures       *int     `toml:"measures"`
	TopK           *int     `toml:"top_k"`
}

type audioSection struct {
	SampleRate *int     `toml:"sample_rate"`
	BPM        *float64 `toml:"bpm"`
	Wave       *string  `toml:"wave"`
	Volume     *float64 `toml:"volume"`
}

type coefficientSection struct {
	Mu     *float64 `toml:"mu"`
	Sigma  *float64 `toml:"sigma"`
	Weight *float64 `toml:"weight"`
}

// Load reads defaults, then the file at path when non-empty, then VI_COMPOSER_* variables
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file onto cfg; unknown keys are rejected
func (c *Config) LoadFile(path string) error {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidFile, strings.Join(keys, ", "))
	}
	return c.apply(f)
}

func (c *Config) apply(f file) error {
	run := &c.Composer
	set(&run.Key, f.Run.Key)
	set(&run.BaseDuration, f.Run.BaseDuration)
	set(&run.PopulationSize, f.Run.Population)
	set(&run.Generations, f.Run.Generations)
	set(&run.MutationRate, f.Run.MutationRate)
	set(&run.CrossoverRate, f.Run.CrossoverRate)
	set(&run.TournamentSize, f.Run.TournamentSize)
	set(&run.Seed, f.Run.Seed)
	set(&run.Workers, f.Run.Workers)
	set(&c.Measures, f.Run.Measures)
	set(&c.TopK, f.Run.TopK)

	if f.Run.Low != nil {
		b, err := scale.BoundFrom(f.Run.Low)
		if err != nil {
			return fmt.Errorf("%w: run.low: %w", ErrInvalidFile, err)
		}
		run.LowPitch = b
	}
	if f.Run.High != nil {
		b, err := scale.BoundFrom(f.Run.High)
		if err != nil {
			return fmt.Errorf("%w: run.high: %w", ErrInvalidFile, err)
		}
		run.HighPitch = b
	}
	if f.Run.Meter != nil {
		m, err := ParseMeter(*f.Run.Meter)
		if err != nil {
			return fmt.Errorf("%w: run.meter: %w", ErrInvalidFile, err)
		}
		run.Meter = m
	}

	set(&c.Audio.SampleRate, f.Audio.SampleRate)
	set(&c.Audio.BPM, f.Audio.BPM)
	set(&c.Audio.Volume, f.Audio.Volume)
	if f.Audio.Wave != nil {
		w, err := audio.ParseWave(*f.Audio.Wave)
		if err != nil {
			return fmt.Errorf("%w: audio.wave: %w", ErrInvalidFile, err)
		}
		c.Audio.Wave = w
	}

	// Mood first so explicit per-metric mu values win
	if f.Mood != nil {
		if err := c.Coefficients.ApplyMood(*f.Mood); err != nil {
			return fmt.Errorf("%w: mood: %w", ErrInvalidFile, err)
		}
		mood := *f.Mood
		c.Mood = &mood
	}

	names := make([]string, 0, len(f.Coefficients))
	for name := range f.Coefficients {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := c.applyCoefficient(name, f.Coefficients[name]); err != nil {
			return fmt.Errorf("%w: coefficients.%s: %w", ErrInvalidFile, name, err)
		}
	}
	return nil
}

func (c *Config) applyCoefficient(name string, s coefficientSection) error {
	if !composer.IsMetric(name) {
		return composer.ErrUnknownMetric
	}
	if s.Mu != nil {
		if err := c.Coefficients.Reconfigure(map[string]float64{name: *s.Mu}); err != nil {
			return err
		}
	}
	if s.Sigma != nil {
		if err := c.Coefficients.SetTolerance(name, *s.Sigma); err != nil {
			return err
		}
	}
	if s.Weight != nil {
		if err := c.Coefficients.SetWeight(name, *s.Weight); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays VI_COMPOSER_* variables and stops at the first malformed value
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("VI_COMPOSER_KEY"); ok && v != "" {
		c.Composer.Key = v
	}
	if v, ok := lookup("VI_COMPOSER_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("VI_COMPOSER_SEED", v)
		}
		c.Composer.Seed = seed
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"VI_COMPOSER_POPULATION", &c.Composer.PopulationSize},
		{"VI_COMPOSER_GENERATIONS", &c.Composer.Generations},
		{"VI_COMPOSER_WORKERS", &c.Composer.Workers},
		{"VI_COMPOSER_MEASURES", &c.Measures},
		{"VI_COMPOSER_SAMPLE_RATE", &c.Audio.SampleRate},
	}
	for _, e := range ints {
		if err := envInt(lookup, e.name, e.dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("VI_COMPOSER_BPM"); ok {
		bpm, err := strconv.ParseFloat(v, 64)
		if err != nil || !(bpm > 0) {
			return envError("VI_COMPOSER_BPM", v)
		}
		c.Audio.BPM = bpm
	}

	// Volume is given as 0-100
	if v, ok := lookup("VI_COMPOSER_VOLUME"); ok {
		vol, err := strconv.Atoi(v)
		if err != nil || vol < 0 || vol > 100 {
			return envError("VI_COMPOSER_VOLUME", v)
		}
		c.Audio.Volume = float64(vol) / 100.0
	}

	if v, ok := lookup("VI_COMPOSER_WAVE"); ok {
		w, err := audio.ParseWave(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("%w: VI_COMPOSER_WAVE: %w", ErrInvalidEnv, err)
		}
		c.Audio.Wave = w
	}
	return nil
}

func envError(name, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, name, value)
}

// Validate checks the parts not covered by the composer and audio constructors
func (c Config) Validate() error {
	if c.Measures < 1 {
		return fmt.Errorf("%w: measures %d", composer.ErrInvalidConfig, c.Measures)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: top-k %d", composer.ErrInvalidConfig, c.TopK)
	}
	return c.RenderConfig().Validate()
}

// RenderConfig is the audio configuration on the composer's rhythmic grid
func (c Config) RenderConfig() audio.Config {
	a := c.Audio
	a.BaseDuration = c.Composer.BaseDuration
	return a
}

// ParseMeter reads "num/den"
func ParseMeter(s string) (melody.Meter, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return melody.Meter{}, fmt.Errorf("%w: %q", melody.ErrInvalidMeter, s)
	}
	n, errN := strconv.Atoi(strings.TrimSpace(num))
	d, errD := strconv.Atoi(strings.TrimSpace(den))
	if errN != nil || errD != nil {
		return melody.Meter{}, fmt.Errorf("%w: %q", melody.ErrInvalidMeter, s)
	}
	m := melody.Meter{Num: n, Den: d}
	return m, m.Validate()
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func envInt(lookup func(string) (string, bool), name string, dst *int) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return envError(name, v)
	}
	*dst = n
	return nil
}

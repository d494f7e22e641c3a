package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/lixenwraith/vi-composer/audio"
	"github.com/lixenwraith/vi-composer/config"
	"github.com/lixenwraith/vi-composer/scale"
)

// options holds every command-line flag
type options struct {
	configPath string
	outDir     string
	debug      bool
	view       bool
	play       bool
	wav        bool
	plot       bool

	key         string
	low         string
	high        string
	meter       string
	measures    int
	population  int
	generations int
	seed        uint64
	topK        int
	workers     int
	bpm         float64
	wave        string
}

func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("vi-composer", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&opts.outDir, "out", "out", "directory for reports, plots and audio")
	fs.BoolVar(&opts.debug, "debug", false, "write logs to logs/vi-composer.log")
	fs.BoolVar(&opts.view, "view", false, "show progress and the best melody in the terminal")
	fs.BoolVar(&opts.play, "play", false, "play the best melody through a system audio tool")
	fs.BoolVar(&opts.wav, "wav", true, "write the best melody as WAV")
	fs.BoolVar(&opts.plot, "plot", true, "write the fitness history as PNG")

	fs.StringVar(&opts.key, "key", "", "key, e.g. \"A Minor\" or \"F# Dorian\"")
	fs.StringVar(&opts.low, "low", "", "lowest pitch, a number or a name like A-3")
	fs.StringVar(&opts.high, "high", "", "highest pitch, a number or a name like A-5")
	fs.StringVar(&opts.meter, "meter", "", "time signature, e.g. 3/4")
	fs.IntVar(&opts.measures, "measures", 0, "melody length in measures")
	fs.IntVar(&opts.population, "population", 0, "population size")
	fs.IntVar(&opts.generations, "generations", 0, "number of generations")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 draws one")
	fs.IntVar(&opts.topK, "top", 0, "number of ranked melodies to report")
	fs.IntVar(&opts.workers, "workers", 0, "evaluation workers, 0 uses every CPU")
	fs.Float64Var(&opts.bpm, "bpm", 0, "playback tempo")
	fs.StringVar(&opts.wave, "wave", "", "oscillator: sine, square, saw, triangle")

	return fs
}

// apply overlays only the flags that were given explicitly
func (o *options) apply(fs *flag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "key":
			cfg.Composer.Key = o.key
		case "low":
			cfg.Composer.LowPitch = parseBound(o.low)
		case "high":
			cfg.Composer.HighPitch = parseBound(o.high)
		case "meter":
			cfg.Composer.Meter, err = config.ParseMeter(o.meter)
		case "measures":
			cfg.Measures = o.measures
		case "population":
			cfg.Composer.PopulationSize = o.population
		case "generations":
			cfg.Composer.Generations = o.generations
		case "seed":
			cfg.Composer.Seed = o.seed
		case "top":
			cfg.TopK = o.topK
		case "workers":
			cfg.Composer.Workers = o.workers
		case "bpm":
			cfg.Audio.BPM = o.bpm
		case "wave":
			cfg.Audio.Wave, err = audio.ParseWave(o.wave)
		}
		if err != nil {
			err = fmt.Errorf("flag -%s: %w", f.Name, err)
		}
	})
	return err
}

// parseBound treats all-digit values as pitch numbers and anything else as a note name
func parseBound(s string) scale.Bound {
	if n, err := strconv.Atoi(s); err == nil {
		return scale.Pitch(n)
	}
	return scale.Named(s)
}

package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/vi-composer/composer"
	"github.com/lixenwraith/vi-composer/genetic/tracking"
	"github.com/lixenwraith/vi-composer/scale"
)

// RunDTO is the serializable record of one composition run
type RunDTO struct {
	ID         string                     `toml:"id"`
	Created    time.Time                  `toml:"created"`
	Settings   SettingsDTO                `toml:"settings"`
	Length     int                        `toml:"length"`
	BeatLength int                        `toml:"beat_length"`
	Elapsed    string                     `toml:"elapsed"`
	Melodies   []MelodyDTO                `toml:"melodies"`
	Population map[string]float64         `toml:"population"`
	History    []tracking.GenerationStats `toml:"history"`
}

// SettingsDTO captures the configuration that produced the run
type SettingsDTO struct {
	Key            string  `toml:"key"`
	Low            string  `toml:"low"`
	High           string  `toml:"high"`
	Meter          string  `toml:"meter"`
	BaseDuration   float64 `toml:"base_duration"`
	Population     int     `toml:"population"`
	Generations    int     `toml:"generations"`
	MutationRate   float64 `toml:"mutation_rate"`
	CrossoverRate  float64 `toml:"crossover_rate"`
	TournamentSize int     `toml:"tournament_size"`
	Seed           string  `toml:"seed"` // uint64 does not fit a TOML integer
}

// MelodyDTO is one ranked melody
type MelodyDTO struct {
	Rank     int                `toml:"rank"`
	Fitness  float64            `toml:"fitness"`
	Tokens   []int              `toml:"tokens"`
	Notation string             `toml:"notation"`
	Scores   map[string]float64 `toml:"scores"`
}

// FromResult converts a finished run to its DTO under a fresh run id
func FromResult(res *composer.Result, cfg composer.Config, key scale.Key) RunDTO {
	if res == nil {
		return RunDTO{}
	}

	dto := RunDTO{
		ID:      uuid.NewString(),
		Created: time.Now().UTC().Truncate(time.Second),
		Settings: SettingsDTO{
			Key:            key.String(),
			Low:            cfg.LowPitch.String(),
			High:           cfg.HighPitch.String(),
			Meter:          cfg.Meter.String(),
			BaseDuration:   cfg.BaseDuration,
			Population:     cfg.PopulationSize,
			Generations:    cfg.Generations,
			MutationRate:   cfg.MutationRate,
			CrossoverRate:  cfg.CrossoverRate,
			TournamentSize: cfg.TournamentSize,
			Seed:           formatSeed(res.Seed),
		},
		Length:     res.Length,
		BeatLength: res.BeatLength,
		Elapsed:    res.Elapsed.String(),
		Melodies:   make([]MelodyDTO, len(res.Ranked)),
		Population: res.Population,
		History:    res.History,
	}

	for i, s := range res.Ranked {
		dto.Melodies[i] = MelodyDTO{
			Rank:     s.Rank,
			Fitness:  s.Fitness,
			Tokens:   s.Melody.Ints(),
			Notation: Notation(s.Melody),
			Scores:   s.Scores,
		}
	}

	return dto
}

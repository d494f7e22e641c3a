package parameter

// Genetic Algorithm - Engine Configuration
const (
	// GAPopulationSize is the number of melodies in each generation
	GAPopulationSize = 64

	// GAGenerations is the fixed number of generational replacements per run
	GAGenerations = 50

	// GAMutationRate gates every mutation operator independently (0.0-1.0)
	GAMutationRate = 0.3

	// GACrossoverRate is the probability that a parent pair is recombined (0.0-1.0)
	GACrossoverRate = 0.9

	// GATournamentSize for selection pressure
	GATournamentSize = 4

	// GAParallelism bounds evaluation and breeding workers (0 = runtime.NumCPU)
	GAParallelism = 0

	// GATopK is how many ranked melodies a top-K run returns by default
	GATopK = 12
)

// Genetic Algorithm - Mutation Bounds
const (
	// GAMaxIntervalJump bounds random signed intervals for jumps, transposes and the pitch walk
	GAMaxIntervalJump = 12

	// GAWindowBeatFactor scales meter num/den into the maximum mutation window length
	GAWindowBeatFactor = 8

	// GALongNoteUnits is the run length above which an event counts as a very long note
	GALongNoteUnits = 4

	// GAMaxRepeatSeries is the longest pitch window checked by the repetition metric
	GAMaxRepeatSeries = 4
)

// GAConsonantTransposes are the intervals a copied beat may be shifted by
var GAConsonantTransposes = [...]int{0, 12, 5, 7, -12, -5, -7}

package tracking

// MetricBundle is a generic container for named metrics
// Keys are metric names, values are float64 measurements
type MetricBundle map[string]float64

// Melody metric keys
const (
	MetricDirectionalChanges     = "directional_changes"
	MetricMelodicContour         = "melodic_contour"
	MetricPitchRange             = "pitch_range"
	MetricAveragePitch           = "average_pitch"
	MetricPauseProportion        = "pause_proportion"
	MetricDissonance             = "dissonance"
	MetricLargeIntervals         = "large_intervals"
	MetricScaleConformance       = "scale_conformance"
	MetricChordConformance       = "chord_conformance"
	MetricPitchVariation         = "pitch_variation"
	MetricOddIndexNotes          = "odd_index_notes"
	MetricDiversity              = "diversity"
	MetricDiversityInterval      = "diversity_interval"
	MetricRhythmicDiversity      = "rhythmic_diversity"
	MetricRhythmicAverageValue   = "rhythmic_average_value"
	MetricDeviationRhythmicValue = "deviation_rhythmic_value"
	MetricAverageInterval        = "average_interval"
	MetricScalePlaying           = "scale_playing"
	MetricShortConsecutiveNotes  = "short_consecutive_notes"
	MetricRepetition             = "repetition"
	MetricVeryLongNotes          = "very_long_notes_score"
)

// Collector accumulates metric bundles, one per observed solution
type Collector interface {
	// Collect records the metrics of a single solution
	Collect(metrics MetricBundle)

	// Finalize returns accumulated metrics; the collector can be reset for reuse
	Finalize() MetricBundle

	// Reset clears accumulated state for reuse
	Reset()
}

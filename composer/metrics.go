package composer

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/vi-composer/genetic/fitness"
	"github.com/lixenwraith/vi-composer/genetic/tracking"
	"github.com/lixenwraith/vi-composer/melody"
	"github.com/lixenwraith/vi-composer/parameter"
)

// Analyzer computes the raw metric scores of a melody.
// It holds only read-only context and is safe for concurrent use.
type Analyzer struct {
	scale   melody.PitchSet
	span    float64
	beatLen int

	// log2(4 * expected), the upper end of the rhythmic log range
	logRange float64

	normRange     fitness.NormalizeFunc
	normVariation fitness.NormalizeFunc
	normRhythm    fitness.NormalizeFunc
	normDeviation fitness.NormalizeFunc
}

// NewAnalyzer binds metric computation to a pitch range, scale and rhythmic grid
func NewAnalyzer(allowed, scale melody.PitchSet, beatLen, expected int) *Analyzer {
	span := float64(allowed.Span())
	logRange := math.Log2(4 * float64(max(expected, 1)))
	return &Analyzer{
		scale:         scale,
		span:          span,
		beatLen:       beatLen,
		logRange:      logRange,
		normRange:     fitness.NormalizeCap(span),
		normVariation: fitness.NormalizeCap(span / math.Sqrt(12)),
		normRhythm:    fitness.NormalizeCap(logRange),
		// population std of {0, logRange}
		normDeviation: fitness.NormalizeCap(logRange / 2),
	}
}

// Scores returns every metric by name
func (a *Analyzer) Scores(m melody.Melody) tracking.MetricBundle {
	pitches := m.Pitches()
	intervals := diff(pitches)
	beats := m.Beats(a.beatLen)
	events := m.Events()

	dissonance, large := intervalScores(intervals)
	rhythmMean, rhythmDev := a.logRhythm(events)

	return tracking.MetricBundle{
		tracking.MetricDirectionalChanges:     directionalChanges(intervals),
		tracking.MetricMelodicContour:         melodicContour(intervals, len(pitches)),
		tracking.MetricPitchRange:             a.pitchRange(pitches),
		tracking.MetricAveragePitch:           a.averagePitch(pitches),
		tracking.MetricPauseProportion:        pauseProportion(m),
		tracking.MetricDissonance:             dissonance,
		tracking.MetricLargeIntervals:         large,
		tracking.MetricScaleConformance:       a.scaleConformance(m),
		tracking.MetricChordConformance:       0,
		tracking.MetricPitchVariation:         a.pitchVariation(pitches),
		tracking.MetricOddIndexNotes:          oddIndexNotes(beats),
		tracking.MetricDiversity:              perBeat(beats, noteDiversity),
		tracking.MetricDiversityInterval:      perBeat(beats, intervalDiversity),
		tracking.MetricRhythmicDiversity:      perBeat(beats, rhythmicDiversity),
		tracking.MetricRhythmicAverageValue:   rhythmMean,
		tracking.MetricDeviationRhythmicValue: rhythmDev,
		tracking.MetricAverageInterval:        averageInterval(intervals),
		tracking.MetricScalePlaying:           scalePlaying(m),
		tracking.MetricShortConsecutiveNotes:  shortConsecutive(m),
		tracking.MetricRepetition:             repetition(pitches),
		tracking.MetricVeryLongNotes:          veryLongNotes(events),
	}
}

func diff(values []int) []int {
	if len(values) < 2 {
		return nil
	}
	out := make([]int, len(values)-1)
	for i := range out {
		out[i] = values[i+1] - values[i]
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// directionalChanges counts sign flips between consecutive nonzero intervals
func directionalChanges(intervals []int) float64 {
	moves := make([]int, 0, len(intervals))
	for _, iv := range intervals {
		if iv != 0 {
			moves = append(moves, iv)
		}
	}
	if len(moves) < 2 {
		return 0
	}
	changes := 0
	for i := 1; i < len(moves); i++ {
		if sign(moves[i]) != sign(moves[i-1]) {
			changes++
		}
	}
	return float64(changes) / float64(len(moves)-1)
}

// melodicContour is the ascending share of nonzero intervals, 0.5 when the line never moves
func melodicContour(intervals []int, pitchCount int) float64 {
	if pitchCount < 2 {
		return 0
	}
	up, moving := 0, 0
	for _, iv := range intervals {
		if iv > 0 {
			up++
		}
		if iv != 0 {
			moving++
		}
	}
	if moving == 0 {
		return 0.5
	}
	return float64(up) / float64(moving)
}

func (a *Analyzer) pitchRange(pitches []int) float64 {
	if len(pitches) == 0 {
		return 0
	}
	lo, hi := pitches[0], pitches[0]
	for _, p := range pitches[1:] {
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return a.normRange(float64(hi - lo))
}

// averagePitch is mean/span on absolute pitch numbers, so it saturates for high registers
func (a *Analyzer) averagePitch(pitches []int) float64 {
	if len(pitches) == 0 {
		return 0
	}
	return a.normRange(stat.Mean(floats(pitches), nil))
}

// pauseProportion counts rests and the sustains that extend them
func pauseProportion(m melody.Melody) float64 {
	if len(m) == 0 {
		return 0
	}
	count := 0
	inPause := false
	for _, t := range m {
		if t.IsRest() || (inPause && t.IsSustain()) {
			count++
			inPause = true
		} else {
			inPause = false
		}
	}
	return float64(count) / float64(len(m))
}

// intervalScores returns dissonance over reduced intervals and the share of raw leaps above an octave
func intervalScores(intervals []int) (dissonance, large float64) {
	if len(intervals) == 0 {
		return 0, 0
	}
	var sum float64
	leaps := 0
	for _, iv := range intervals {
		raw := abs(iv)
		if raw > parameter.PitchClasses {
			leaps++
		}
		switch raw % parameter.PitchClasses {
		case 10:
			sum += 0.5
		case 0, 1, 2, 3, 4, 5, 7, 8, 9:
		default:
			sum++
		}
	}
	n := float64(len(intervals))
	return sum / n, float64(leaps) / n
}

// scaleConformance is the in-scale share of every token that is not a sustain
func (a *Analyzer) scaleConformance(m melody.Melody) float64 {
	total, inScale := 0, 0
	for _, t := range m {
		if t.IsSustain() {
			continue
		}
		total++
		if p, ok := t.Pitch(); ok && a.scale.Contains(p) {
			inScale++
		}
	}
	return fitness.Ratio(float64(inScale), float64(total))
}

// pitchVariation is population std against the std of a uniform spread over the span
func (a *Analyzer) pitchVariation(pitches []int) float64 {
	if len(pitches) < 2 {
		return 0
	}
	_, std := stat.PopMeanStdDev(floats(pitches), nil)
	return a.normVariation(std)
}

// oddIndexNotes measures sustains trailing pitches that start on odd positions of a beat.
// The beat length minus 2 denominator is kept as is.
func oddIndexNotes(beats []melody.Melody) float64 {
	if len(beats) == 0 {
		return 0
	}
	var total float64
	for _, beat := range beats {
		adjusted := len(beat) - 2
		if adjusted <= 0 {
			continue
		}
		count := 0
		for i := 1; i < len(beat); i += 2 {
			if beat[i] <= 0 {
				continue
			}
			for j := i + 1; j < len(beat) && beat[j].IsSustain(); j++ {
				count++
			}
		}
		total += fitness.Clamp01(float64(count) / float64(adjusted))
	}
	return total / float64(len(beats))
}

func perBeat(beats []melody.Melody, score func(melody.Melody) float64) float64 {
	if len(beats) == 0 {
		return 0
	}
	var total float64
	for _, beat := range beats {
		total += score(beat)
	}
	return total / float64(len(beats))
}

func noteDiversity(beat melody.Melody) float64 {
	pitches := beat.Pitches()
	if len(pitches) <= 1 {
		return 0
	}
	unique := make(map[int]struct{}, len(pitches))
	for _, p := range pitches {
		unique[p] = struct{}{}
	}
	return float64(len(unique)) / float64(len(pitches))
}

func intervalDiversity(beat melody.Melody) float64 {
	pitches := beat.Pitches()
	if len(pitches) <= 1 {
		return 0
	}
	unique := make(map[int]struct{}, len(pitches))
	for _, iv := range diff(pitches) {
		if a := abs(iv); a <= parameter.GAMaxIntervalJump {
			unique[a] = struct{}{}
		}
	}
	return float64(len(unique)) / float64(len(pitches))
}

// rhythmicDiversity is the distinct share of sustain run lengths inside one beat
func rhythmicDiversity(beat melody.Melody) float64 {
	runs := make([]int, 0, len(beat))
	current := 0
	for _, t := range beat {
		if t.IsSustain() {
			current++
		} else if current > 0 {
			runs = append(runs, current)
			current = 0
		}
	}
	if current > 0 {
		runs = append(runs, current)
	}
	if len(runs) <= 1 {
		return 0
	}
	unique := make(map[int]struct{}, len(runs))
	for _, r := range runs {
		unique[r] = struct{}{}
	}
	return float64(len(unique)) / float64(len(runs))
}

// logRhythm normalises the mean and std of log2 event lengths against [0, log2(4E)]
func (a *Analyzer) logRhythm(events []melody.Event) (mean, deviation float64) {
	if len(events) == 0 {
		return 0, 0
	}
	logs := make([]float64, len(events))
	for i, e := range events {
		logs[i] = math.Log2(float64(e.Length))
	}
	mu, std := stat.PopMeanStdDev(logs, nil)
	return a.normRhythm(mu), a.normDeviation(std)
}

// averageInterval returns -1 when no interval within an octave exists
func averageInterval(intervals []int) float64 {
	var sum, count int
	for _, iv := range intervals {
		if a := abs(iv); a <= parameter.GAMaxIntervalJump {
			sum += a
			count++
		}
	}
	if count == 0 {
		return -1
	}
	return float64(sum) / float64(count) / float64(parameter.PitchClasses)
}

func isStep(iv int) bool {
	return iv != 0 && iv >= -3 && iv <= 3
}

// scalePlaying counts pairs of consecutive steps over every non-sustain token, rests included
func scalePlaying(m melody.Melody) float64 {
	values := make([]int, 0, len(m))
	for _, t := range m {
		if !t.IsSustain() {
			values = append(values, t.Encode())
		}
	}
	intervals := diff(values)
	if len(intervals) == 0 {
		return 0
	}
	count := 0
	for i := 1; i < len(intervals); i++ {
		if isStep(intervals[i-1]) && isStep(intervals[i]) {
			count++
		}
	}
	return float64(count) / float64(len(intervals))
}

// shortConsecutive counts pitch positions at most two steps after the previous pitch position
func shortConsecutive(m melody.Melody) float64 {
	positions := m.PitchIndices()
	if len(positions) == 0 {
		return 0
	}
	count := 0
	for _, gap := range diff(positions) {
		if gap <= 2 {
			count++
		}
	}
	return float64(count) / float64(len(positions))
}

// repetition rewards repeated pitch windows of length 2 to GAMaxRepeatSeries
func repetition(pitches []int) float64 {
	lengths := parameter.GAMaxRepeatSeries - 1
	var total float64
	for l := 2; l <= parameter.GAMaxRepeatSeries; l++ {
		total += repeatedSeries(pitches, l)
	}
	return fitness.Clamp01(total / float64(lengths))
}

func repeatedSeries(pitches []int, length int) float64 {
	usable := len(pitches) - length - 1
	if usable < length {
		return 0
	}
	seen := make(map[[parameter.GAMaxRepeatSeries]int]struct{}, len(pitches))
	var repeats float64
	for i := 0; i+length <= len(pitches); i++ {
		var key [parameter.GAMaxRepeatSeries]int
		constant := true
		for j := 0; j < length; j++ {
			key[j] = pitches[i+j]
			if pitches[i+j] != pitches[i] {
				constant = false
			}
		}
		// pitches are never negative, -1 pads the unused tail
		for j := length; j < len(key); j++ {
			key[j] = -1
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			continue
		}
		if constant {
			repeats += 0.5
		} else {
			repeats++
		}
	}
	return repeats * float64(length) / float64(usable)
}

// veryLongNotes is the share of events longer than GALongNoteUnits base units
func veryLongNotes(events []melody.Event) float64 {
	if len(events) == 0 {
		return 0
	}
	long := 0
	for _, e := range events {
		if e.Length > parameter.GALongNoteUnits {
			long++
		}
	}
	return float64(long) / float64(len(events))
}

package evo

import (
	"math"
	"sort"
	"time"
)

// GenerationStats summarizes the fitness of one finished generation.
type GenerationStats struct {
	Generation int
	Agents     int
	Best       float64
	Mean       float64
	Median     float64
	Stdev      float64
	Elapsed    time.Duration // wall time between the generation's creation and its replacement
	// Stagnant counts the generations, this one included, that ended
	// without raising the high score.
	Stagnant int
}

func summarize(generation int, fitnesses []float64, elapsed time.Duration) GenerationStats {
	return GenerationStats{
		Generation: generation,
		Agents:     len(fitnesses),
		Best:       MaxFloat(fitnesses),
		Mean:       Mean(fitnesses),
		Median:     Median(fitnesses),
		Stdev:      Stdev(fitnesses),
		Elapsed:    elapsed,
	}
}

// Mean calculates the average of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stdev calculates the sample standard deviation.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// MaxFloat returns the largest value, or negative infinity for an empty slice.
func MaxFloat(values []float64) float64 {
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Median returns the middle value, or NaN for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

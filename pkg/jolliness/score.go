// Package jolliness holds the mood arithmetic: clamped score updates, the
// personality tiers Santa is prompted with, the portrait buckets, and the
// one-way victory latch.
package jolliness

const (
	Min          = 0
	Max          = 100
	MaxDelta     = 25
	VictoryScore = 100
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampDelta limits a single option's effect to ±MaxDelta.
func ClampDelta(points int) int {
	return clamp(points, -MaxDelta, MaxDelta)
}

// Clamp pins a score into [Min, Max].
func Clamp(score int) int {
	return clamp(score, Min, Max)
}

// Apply adds an option's points to score. The returned score is always in
// [Min, Max] no matter what the model assigned.
func Apply(score, points int) (delta, newScore int) {
	delta = ClampDelta(points)
	return delta, Clamp(score + delta)
}

// IsVictory reports whether score has reached the win condition.
func IsVictory(score int) bool {
	return score >= VictoryScore
}

// Latch fires once, the first time a winning score is observed, and never
// resets. Start a new session to play again.
type Latch struct {
	fired bool
}

// Observe returns true exactly once per latch.
func (l *Latch) Observe(score int) bool {
	if l.fired || !IsVictory(score) {
		return false
	}
	l.fired = true
	return true
}

func (l *Latch) Fired() bool {
	return l.fired
}

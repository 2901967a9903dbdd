package jolliness

// Tier is a band of the score with the personality Santa should show in it.
type Tier struct {
	Name     string
	Low      int
	High     int
	Guidance string
}

var tiers = []Tier{
	{Name: "Grumpy", Low: 0, High: 20, Guidance: `Short, irritable responses. Barely mention science. "Hmph." "What now?"`},
	{Name: "Warming Up", Low: 21, High: 40, Guidance: "Less grumpy, occasional science facts, starting to soften"},
	{Name: "Friendly", Low: 41, High: 60, Guidance: "Engaged, conversational, share science facts with interest"},
	{Name: "Cheerful", Low: 61, High: 80, Guidance: "Enthusiastic! Make science fun! Use Christmas analogies!"},
	{Name: "Maximum Jolly", Low: 81, High: 100, Guidance: "HO HO HO! Extremely enthusiastic about everything!"},
}

// Tiers returns the tiers from lowest to highest.
func Tiers() []Tier {
	return append([]Tier(nil), tiers...)
}

// TierFor returns the tier containing score. Out-of-range scores are clamped.
func TierFor(score int) Tier {
	score = Clamp(score)
	for _, t := range tiers {
		if score <= t.High {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// Expression names the portrait shown for a score.
type Expression string

const (
	ExpressionGrumpy      Expression = "grumpy"
	ExpressionNeutral     Expression = "neutral"
	ExpressionSlightSmile Expression = "slight-smile"
	ExpressionHappy       Expression = "happy"
	ExpressionJolly       Expression = "jolly"
)

// ExpressionFor buckets the score at 20/40/60/80/100.
func ExpressionFor(score int) Expression {
	switch {
	case score <= 20:
		return ExpressionGrumpy
	case score <= 40:
		return ExpressionNeutral
	case score <= 60:
		return ExpressionSlightSmile
	case score <= 80:
		return ExpressionHappy
	default:
		return ExpressionJolly
	}
}

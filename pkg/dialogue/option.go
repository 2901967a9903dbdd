package dialogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Option is a player-facing dialogue choice. Points is hidden from the
// player and only moves the jolliness score when the option is picked.
type Option struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Reply is the structured payload Santa's model is asked to return.
type Reply struct {
	SantaResponse string   `json:"santaResponse"`
	Options       []Option `json:"options"`
}

var initialOptions = []Option{
	{Text: "Hi Santa! I'd love to learn some science from you!", Points: 18},
	{Text: "Hello there. How are you doing?", Points: 8},
	{Text: "Hey. What's up?", Points: 3},
	{Text: "Ugh, I guess I have to talk to you...", Points: -10},
}

var fallbackOptions = []Option{
	{Text: "Tell me about science!", Points: 12},
	{Text: "How are you feeling?", Points: 8},
	{Text: "Let's talk about something else.", Points: 3},
	{Text: "This isn't working...", Points: -5},
}

// InitialOptions returns the opening choices. They are also restored after
// a failed completion call.
func InitialOptions() []Option {
	return append([]Option(nil), initialOptions...)
}

// FallbackOptions returns the recovery choices offered when a reply could
// not be understood.
func FallbackOptions() []Option {
	return append([]Option(nil), fallbackOptions...)
}

// UnmarshalJSON accepts any JSON number for points. Fractional values are
// rounded; range is left alone.
func (o *Option) UnmarshalJSON(data []byte) error {
	var wire struct {
		Text   string      `json:"text"`
		Points json.Number `json:"points"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	o.Text = wire.Text
	o.Points = 0
	if wire.Points == "" {
		return nil
	}
	if n, err := wire.Points.Int64(); err == nil {
		o.Points = int(n)
		return nil
	}
	f, err := wire.Points.Float64()
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("invalid points %q: %w", wire.Points, err)
	}
	o.Points = saturate(f)
	return nil
}

// saturate rounds f to the nearest int, pinning values outside the int
// range to its bounds so the sign survives.
func saturate(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(math.Round(f))
	}
}

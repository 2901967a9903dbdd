package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/science-santa/pkg/dialogue"
	"github.com/jwebster45206/science-santa/pkg/jolliness"
)

// Greeting is the line Santa opens every session with.
const Greeting = "Ho ho... well, not quite 'ho' yet. I'm Science Santa, and someone's drained all my Christmas spirit with endless questions about particle physics! Help me get back in the jolly mood by having a nice chat with me."

// Speaker is who said a message.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerSanta Speaker = "santa"
)

// Message is one line of the conversation. Messages are never edited once
// appended.
type Message struct {
	ID        uuid.UUID `json:"id"` // UUIDv7, sorts in creation order
	Text      string    `json:"text"`
	Speaker   Speaker   `json:"speaker"`
	Timestamp time.Time `json:"timestamp"`
}

// IsUser reports whether the player sent the message.
func (m Message) IsUser() bool {
	return m.Speaker == SpeakerUser
}

// Session is the whole state of one game. It has a single owner; callers
// that share it across goroutines must serialize access themselves.
type Session struct {
	history []Message
	options []dialogue.Option
	score   int
	loading bool
	victory jolliness.Latch
	now     func() time.Time
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	History      []Message
	Options      []dialogue.Option
	Score        int
	Loading      bool
	VictoryShown bool
}

// New starts a session with Santa's greeting, the opening options and a
// score of zero.
func New() *Session {
	return NewWithClock(time.Now)
}

// NewWithClock is New with a custom time source for message timestamps.
func NewWithClock(now func() time.Time) *Session {
	s := &Session{
		history: make([]Message, 0, 16),
		options: dialogue.InitialOptions(),
		now:     now,
	}
	s.Append(SpeakerSanta, Greeting)
	return s
}

// Append records a new message and returns it.
func (s *Session) Append(speaker Speaker, text string) Message {
	msg := Message{
		ID:        uuid.Must(uuid.NewV7()),
		Text:      text,
		Speaker:   speaker,
		Timestamp: s.now(),
	}
	s.history = append(s.history, msg)
	return msg
}

// History returns every message, oldest first.
func (s *Session) History() []Message {
	return append([]Message(nil), s.history...)
}

// Len is the number of stored messages.
func (s *Session) Len() int {
	return len(s.history)
}

// Window returns the most recent n messages, oldest first. Stored history
// is not truncated.
func (s *Session) Window(n int) []Message {
	if n <= 0 {
		return []Message{}
	}
	start := len(s.history) - n
	if start < 0 {
		start = 0
	}
	return append([]Message(nil), s.history[start:]...)
}

func (s *Session) Options() []dialogue.Option {
	return append([]dialogue.Option(nil), s.options...)
}

// ReplaceOptions swaps in a new option set. Options are never merged.
func (s *Session) ReplaceOptions(options []dialogue.Option) {
	s.options = append([]dialogue.Option(nil), options...)
}

func (s *Session) ClearOptions() {
	s.options = nil
}

func (s *Session) Score() int {
	return s.score
}

// ApplyPoints adds an option's clamped points to the score.
func (s *Session) ApplyPoints(points int) (delta, newScore int) {
	delta, s.score = jolliness.Apply(s.score, points)
	return delta, s.score
}

// ObserveVictory checks the current score against the win condition and
// returns true only the first time it is met.
func (s *Session) ObserveVictory() bool {
	return s.victory.Observe(s.score)
}

func (s *Session) VictoryShown() bool {
	return s.victory.Fired()
}

func (s *Session) Loading() bool {
	return s.loading
}

func (s *Session) SetLoading(loading bool) {
	s.loading = loading
}

// Snapshot copies the session for a presenter.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		History:      s.History(),
		Options:      s.Options(),
		Score:        s.score,
		Loading:      s.loading,
		VictoryShown: s.victory.Fired(),
	}
}

package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/science-santa/internal/logger"
	"github.com/jwebster45206/science-santa/internal/services"
	"github.com/jwebster45206/science-santa/pkg/chat"
	"github.com/jwebster45206/science-santa/pkg/dialogue"
	"github.com/jwebster45206/science-santa/pkg/prompts"
	"github.com/jwebster45206/science-santa/pkg/session"
)

const (
	// FoggyLine replaces Santa's reply when it could not be understood.
	FoggyLine = "*scratches head* Hmm, my brain seems to be a bit foggy. Let's try that again..."
	// ErrorPrefix starts the line shown when the model could not be reached.
	ErrorPrefix = "Oh dear! "

	rawLogLimit = 300
)

// State is where the controller is in a turn.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	if s == StateAwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// ContentFilter rewrites text before it is shown. *textfilter.FamilyFilter
// satisfies it.
type ContentFilter interface {
	Filter(text string) string
}

// Settings tunes a Controller. The zero value uses the default history
// window and no filter.
type Settings struct {
	HistoryLimit int
	Filter       ContentFilter
}

// Controller runs the conversation. It is the only writer of the session.
type Controller struct {
	mu           sync.Mutex
	sess         *session.Session
	generation   int
	llm          services.LLMService
	presenter    Presenter
	filter       ContentFilter
	historyLimit int
	logger       *slog.Logger
}

func NewController(llm services.LLMService, presenter Presenter, log *slog.Logger, settings Settings) *Controller {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	if log == nil {
		log = slog.Default()
	}
	limit := settings.HistoryLimit
	if limit <= 0 {
		limit = prompts.DefaultHistoryLimit
	}
	return &Controller{
		sess:         session.New(),
		llm:          llm,
		presenter:    presenter,
		filter:       settings.Filter,
		historyLimit: limit,
		logger:       log,
	}
}

// State reports whether a completion is in flight.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.Loading() {
		return StateAwaitingResponse
	}
	return StateIdle
}

// Snapshot copies the current session.
func (c *Controller) Snapshot() session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Snapshot()
}

// Restart throws the session away and starts a fresh one. A turn still in
// flight for the old session is dropped when it finishes.
func (c *Controller) Restart() {
	c.mu.Lock()
	c.sess = session.New()
	c.generation++
	snap := c.sess.Snapshot()
	c.mu.Unlock()

	c.logger.Info("Session restarted")
	c.render(snap)
}

// Begin records the player's choice and prepares the completion request.
// The score moves and the victory check runs before the model answers.
// It returns false, changing nothing, while another turn is in flight.
func (c *Controller) Begin(option dialogue.Option) (*Turn, bool) {
	c.mu.Lock()
	if c.sess.Loading() {
		c.mu.Unlock()
		c.logger.Debug("Option ignored while awaiting response", "text", option.Text)
		return nil, false
	}

	// the window is taken before the choice is recorded; the choice
	// travels as the final user turn instead
	window := c.sess.Window(c.historyLimit)
	c.sess.Append(session.SpeakerUser, option.Text)
	c.sess.ClearOptions()
	c.sess.SetLoading(true)
	delta, score := c.sess.ApplyPoints(option.Points)
	victory := c.sess.ObserveVictory()
	snap := c.sess.Snapshot()
	gen := c.generation
	c.mu.Unlock()

	turn := &Turn{
		ID:         uuid.Must(uuid.NewV7()),
		Option:     option,
		generation: gen,
		llm:        c.llm,
	}
	turn.logger = logger.WithTurn(c.logger, turn.ID)
	turn.request, turn.buildErr = prompts.New().
		WithScore(score).
		WithHistory(window).
		WithUserMessage(option.Text).
		WithHistoryLimit(c.historyLimit).
		Build()

	turn.logger.Info("Option selected",
		"text", option.Text,
		"points", option.Points,
		"delta", delta,
		"jolliness", score)

	c.presenter.RenderHistory(snap.History)
	c.presenter.RenderOptions(snap.Options)
	c.presenter.RenderMood(score)
	if victory {
		turn.logger.Info("Maximum jolliness reached")
		c.presenter.ShowVictory()
	}

	return turn, true
}

// Finish applies a turn's outcome: Santa's line or an in-character error
// is appended, options are replaced, and the controller returns to idle.
func (c *Controller) Finish(out Outcome) {
	c.mu.Lock()
	if out.generation != c.generation || !c.sess.Loading() {
		c.mu.Unlock()
		c.logger.Debug("Dropping stale turn outcome", "turn_id", out.TurnID)
		return
	}

	switch out.Kind {
	case OutcomeReply:
		c.sess.Append(session.SpeakerSanta, c.clean(out.Reply.SantaResponse))
		c.sess.ReplaceOptions(c.cleanOptions(out.Reply.Options))
	case OutcomeExtractionFailed:
		c.sess.Append(session.SpeakerSanta, FoggyLine)
		c.sess.ReplaceOptions(dialogue.FallbackOptions())
	default:
		c.sess.Append(session.SpeakerSanta, ErrorPrefix+errorText(out.Err))
		c.sess.ReplaceOptions(dialogue.InitialOptions())
	}
	c.sess.SetLoading(false)
	snap := c.sess.Snapshot()
	c.mu.Unlock()

	c.presenter.RenderHistory(snap.History)
	c.presenter.RenderOptions(snap.Options)
}

// SelectOption runs a whole turn on the calling goroutine. It returns false
// if the choice was ignored because a turn was already in flight.
func (c *Controller) SelectOption(ctx context.Context, option dialogue.Option) bool {
	turn, ok := c.Begin(option)
	if !ok {
		return false
	}
	c.Finish(turn.Run(ctx))
	return true
}

func (c *Controller) render(snap session.Snapshot) {
	c.presenter.RenderHistory(snap.History)
	c.presenter.RenderOptions(snap.Options)
	c.presenter.RenderMood(snap.Score)
}

func (c *Controller) clean(text string) string {
	if c.filter == nil {
		return text
	}
	return c.filter.Filter(text)
}

func (c *Controller) cleanOptions(options []dialogue.Option) []dialogue.Option {
	out := make([]dialogue.Option, len(options))
	for i, o := range options {
		out[i] = dialogue.Option{Text: c.clean(o.Text), Points: o.Points}
	}
	return out
}

func errorText(err error) string {
	if err == nil {
		return "something went wrong"
	}
	return err.Error()
}

// Turn is one in-flight completion. Run touches no session state, so it is
// safe to call off the UI goroutine.
type Turn struct {
	ID     uuid.UUID
	Option dialogue.Option

	generation int
	request    chat.CompletionRequest
	buildErr   error
	llm        services.LLMService
	logger     *slog.Logger
}

// Request is the completion request this turn sends.
func (t *Turn) Request() chat.CompletionRequest {
	return t.request
}

// Run calls the model once and classifies the result. There is no retry.
func (t *Turn) Run(ctx context.Context) Outcome {
	out := Outcome{TurnID: t.ID, generation: t.generation}

	if t.buildErr != nil {
		out.Kind = OutcomeTransportFailed
		out.Err = t.buildErr
		logger.WithError(t.logger, t.buildErr).Error("Failed to build completion request")
		return out
	}

	raw, err := t.llm.Complete(ctx, t.request)
	if err != nil {
		out.Err = err
		if errors.Is(err, services.ErrMissingAPIKey) {
			out.Kind = OutcomeConfigurationFailed
		} else {
			out.Kind = OutcomeTransportFailed
		}
		logger.WithError(t.logger, err).Error("Completion call failed",
			"provider", t.llm.Name(),
			"outcome", out.Kind.String())
		return out
	}

	out.Raw = raw
	t.logger.Debug("Raw completion", "text", truncate(raw, rawLogLimit))

	res := dialogue.Parse(raw)
	out.Strategy = res.Strategy
	if !res.OK() {
		out.Kind = OutcomeExtractionFailed
		out.Err = res.Err
		logger.WithError(t.logger, res.Err).Warn("Reply extraction failed",
			"status", res.Status.String(),
			"raw", raw)
		return out
	}

	out.Kind = OutcomeReply
	out.Reply = res.Reply
	t.logger.Info("Reply parsed",
		"strategy", res.Strategy.String(),
		"options", len(res.Reply.Options))
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/science-santa/internal/services"
	"github.com/jwebster45206/science-santa/pkg/chat"
	"github.com/jwebster45206/science-santa/pkg/dialogue"
	"github.com/jwebster45206/science-santa/pkg/session"
	"github.com/jwebster45206/science-santa/pkg/textfilter"
)

const validReply = `{"santaResponse":"Ho ho! Photosynthesis turns sunlight into sugar.","options":[` +
	`{"text":"Tell me more!","points":25},` +
	`{"text":"Neat.","points":5},` +
	`{"text":"Boring.","points":-8}]}`

type recordingPresenter struct {
	mu        sync.Mutex
	moods     []int
	histories int
	options   [][]dialogue.Option
	victories int
}

func (p *recordingPresenter) RenderMood(score int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moods = append(p.moods, score)
}

func (p *recordingPresenter) RenderHistory([]session.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.histories++
}

func (p *recordingPresenter) RenderOptions(options []dialogue.Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = append(p.options, options)
}

func (p *recordingPresenter) ShowVictory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.victories++
}

func newTestController(t *testing.T, llm services.LLMService, settings Settings) (*Controller, *recordingPresenter) {
	t.Helper()
	presenter := &recordingPresenter{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewController(llm, presenter, log, settings), presenter
}

func lastMessage(snap session.Snapshot) session.Message {
	return snap.History[len(snap.History)-1]
}

func TestNewController_InitialState(t *testing.T) {
	c, _ := newTestController(t, services.NewMockLLMAPI(), Settings{})

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 0, snap.Score)
	require.Len(t, snap.History, 1)
	assert.Equal(t, session.Greeting, snap.History[0].Text)
	assert.Equal(t, session.SpeakerSanta, snap.History[0].Speaker)
	assert.Equal(t, dialogue.InitialOptions(), snap.Options)
}

func TestSelectOption_Reply(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, presenter := newTestController(t, llm, Settings{})

	ok := c.SelectOption(context.Background(), dialogue.InitialOptions()[0])
	require.True(t, ok)

	snap := c.Snapshot()
	assert.Equal(t, 18, snap.Score)
	assert.False(t, snap.Loading)
	assert.Equal(t, StateIdle, c.State())
	require.Len(t, snap.History, 3)
	assert.True(t, snap.History[1].IsUser())
	assert.Equal(t, "Hi Santa! I'd love to learn some science from you!", snap.History[1].Text)
	assert.Equal(t, "Ho ho! Photosynthesis turns sunlight into sugar.", lastMessage(snap).Text)
	require.Len(t, snap.Options, 3)
	assert.Equal(t, dialogue.Option{Text: "Boring.", Points: -8}, snap.Options[2])

	assert.Equal(t, []int{18}, presenter.moods)
	assert.Zero(t, presenter.victories)
	// options are cleared while awaiting, then replaced
	require.Len(t, presenter.options, 2)
	assert.Empty(t, presenter.options[0])
}

func TestSelectOption_RequestCarriesScoreAndChoice(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, _ := newTestController(t, llm, Settings{})

	c.SelectOption(context.Background(), dialogue.Option{Text: "Hello there. How are you doing?", Points: 8})

	calls := llm.GetCalls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Contains(t, req.SystemPrompt, "CURRENT JOLLINESS: 8/100")
	require.Len(t, req.Messages, 2)
	assert.Equal(t, chat.ChatRoleAgent, req.Messages[0].Role)
	assert.Equal(t, session.Greeting, req.Messages[0].Content)
	assert.Equal(t, chat.ChatRoleUser, req.Messages[1].Role)
	assert.Equal(t, "Hello there. How are you doing?", req.Messages[1].Content)
}

func TestSelectOption_HistoryWindow(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, _ := newTestController(t, llm, Settings{})

	for i := 0; i < 7; i++ {
		c.SelectOption(context.Background(), dialogue.Option{Text: fmt.Sprintf("turn %d", i), Points: 1})
	}
	snap := c.Snapshot()
	require.Len(t, snap.History, 15)

	llm.Reset()
	c.SelectOption(context.Background(), dialogue.Option{Text: "final", Points: 1})

	calls := llm.GetCalls()
	require.Len(t, calls, 1)
	msgs := calls[0].Messages
	require.Len(t, msgs, 11)
	assert.Equal(t, snap.History[5].Text, msgs[0].Content)
	assert.Equal(t, snap.History[14].Text, msgs[9].Content)
	assert.Equal(t, "final", msgs[10].Content)
	assert.Equal(t, chat.ChatRoleUser, msgs[10].Role)

	// stored history is never truncated
	assert.Len(t, c.Snapshot().History, 17)
}

func TestSelectOption_CustomHistoryLimit(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, _ := newTestController(t, llm, Settings{HistoryLimit: 2})

	c.SelectOption(context.Background(), dialogue.Option{Text: "one", Points: 1})
	c.SelectOption(context.Background(), dialogue.Option{Text: "two", Points: 1})

	calls := llm.GetCalls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[1].Messages, 3)
}

func TestSelectOption_ClampsPoints(t *testing.T) {
	tests := []struct {
		name      string
		points    []int
		wantScore int
	}{
		{"large gain capped at 25", []int{80}, 25},
		{"large loss capped and floored", []int{-50}, 0},
		{"loss from positive score", []int{20, -40}, 0},
		{"ceiling at 100", []int{25, 25, 25, 25, 25}, 100},
		{"ordinary sum", []int{18, 8, -3}, 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := services.NewMockLLMAPI()
			llm.SetResponse(validReply)
			c, _ := newTestController(t, llm, Settings{})

			for _, p := range tt.points {
				c.SelectOption(context.Background(), dialogue.Option{Text: "pick", Points: p})
			}
			assert.Equal(t, tt.wantScore, c.Snapshot().Score)
		})
	}
}

func TestSelectOption_OutOfRangeModelPoints(t *testing.T) {
	tests := []struct {
		name      string
		points    string
		wantScore int
	}{
		{"exponent overflow is a full gain", "1e20", 43},
		{"integer overflow is a full gain", "99999999999999999999", 43},
		{"negative overflow is a full loss", "-1e20", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := services.NewMockLLMAPI()
			llm.SetResponse(`{"santaResponse":"hi","options":[{"text":"a","points":` + tt.points + `}]}`)
			c, _ := newTestController(t, llm, Settings{})

			c.SelectOption(context.Background(), dialogue.InitialOptions()[0])
			require.Equal(t, 18, c.Snapshot().Score)

			options := c.Snapshot().Options
			require.Len(t, options, 1)
			c.SelectOption(context.Background(), options[0])
			assert.Equal(t, tt.wantScore, c.Snapshot().Score)
		})
	}
}

func TestSelectOption_EmptyOptionText(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, _ := newTestController(t, llm, Settings{})

	turn, ok := c.Begin(dialogue.Option{Text: "", Points: 5})
	require.True(t, ok)
	req := turn.Request()
	require.Len(t, req.Messages, 2)
	assert.Empty(t, req.Messages[1].Content)

	outcome := turn.Run(context.Background())
	assert.Equal(t, OutcomeReply, outcome.Kind)
	assert.Equal(t, validReply, outcome.Raw)
	c.Finish(outcome)

	assert.Len(t, llm.GetCalls(), 1)
	snap := c.Snapshot()
	assert.Equal(t, 5, snap.Score)
	assert.Equal(t, "Ho ho! Photosynthesis turns sunlight into sugar.", lastMessage(snap).Text)
	assert.Len(t, snap.Options, 3)
}

func TestSelectOption_VictoryOnce(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, presenter := newTestController(t, llm, Settings{})

	for i := 0; i < 3; i++ {
		c.SelectOption(context.Background(), dialogue.Option{Text: "great", Points: 25})
	}
	assert.Zero(t, presenter.victories)

	c.SelectOption(context.Background(), dialogue.Option{Text: "great", Points: 25})
	assert.Equal(t, 1, presenter.victories)
	assert.True(t, c.Snapshot().VictoryShown)

	// dropping below and climbing back does not fire again
	c.SelectOption(context.Background(), dialogue.Option{Text: "meh", Points: -10})
	c.SelectOption(context.Background(), dialogue.Option{Text: "great", Points: 25})
	assert.Equal(t, 100, c.Snapshot().Score)
	assert.Equal(t, 1, presenter.victories)
}

func TestBegin_VictoryBeforeReply(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, presenter := newTestController(t, llm, Settings{})
	for i := 0; i < 3; i++ {
		c.SelectOption(context.Background(), dialogue.Option{Text: "great", Points: 25})
	}

	turn, ok := c.Begin(dialogue.Option{Text: "great", Points: 25})
	require.True(t, ok)
	assert.Equal(t, 1, presenter.victories)
	assert.Equal(t, StateAwaitingResponse, c.State())

	c.Finish(turn.Run(context.Background()))
	assert.Equal(t, StateIdle, c.State())
}

func TestSelectOption_IgnoredWhileAwaiting(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	llm := services.NewMockLLMAPI()
	llm.CompleteFunc = func(ctx context.Context, req chat.CompletionRequest) (string, error) {
		close(started)
		<-release
		return validReply, nil
	}
	c, _ := newTestController(t, llm, Settings{})

	done := make(chan bool)
	go func() {
		done <- c.SelectOption(context.Background(), dialogue.InitialOptions()[1])
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("completion was never called")
	}

	before := c.Snapshot()
	assert.Equal(t, StateAwaitingResponse, c.State())
	assert.Empty(t, before.Options)

	ok := c.SelectOption(context.Background(), dialogue.InitialOptions()[0])
	assert.False(t, ok)
	turn, ok := c.Begin(dialogue.InitialOptions()[0])
	assert.False(t, ok)
	assert.Nil(t, turn)

	after := c.Snapshot()
	assert.Equal(t, before.Score, after.Score)
	assert.Len(t, after.History, len(before.History))
	assert.Len(t, llm.GetCalls(), 1)

	close(release)
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("turn never finished")
	}
	assert.Equal(t, StateIdle, c.State())
	assert.Len(t, c.Snapshot().History, 3)
}

func TestSelectOption_MalformedReply(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse("Ho ho ho, I forgot the format entirely!")
	c, _ := newTestController(t, llm, Settings{})

	c.SelectOption(context.Background(), dialogue.InitialOptions()[0])

	snap := c.Snapshot()
	assert.Equal(t, 18, snap.Score)
	assert.Equal(t, FoggyLine, lastMessage(snap).Text)
	assert.Equal(t, session.SpeakerSanta, lastMessage(snap).Speaker)
	assert.Equal(t, dialogue.FallbackOptions(), snap.Options)
	assert.False(t, snap.Loading)
}

func TestSelectOption_MissingFields(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(`{"santaResponse":"","options":[]}`)
	c, _ := newTestController(t, llm, Settings{})

	c.SelectOption(context.Background(), dialogue.InitialOptions()[2])

	snap := c.Snapshot()
	assert.Equal(t, FoggyLine, lastMessage(snap).Text)
	assert.Equal(t, dialogue.FallbackOptions(), snap.Options)
}

func TestSelectOption_FencedReply(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse("```json\n" + validReply + "\n```")
	c, _ := newTestController(t, llm, Settings{})

	turn, ok := c.Begin(dialogue.InitialOptions()[0])
	require.True(t, ok)
	out := turn.Run(context.Background())
	assert.Equal(t, OutcomeReply, out.Kind)
	assert.Equal(t, dialogue.StrategyFenceStrip, out.Strategy)
	c.Finish(out)

	assert.Len(t, c.Snapshot().Options, 3)
}

func TestSelectOption_TransportError(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetCompleteError(errors.New("connection refused"))
	c, _ := newTestController(t, llm, Settings{})

	turn, ok := c.Begin(dialogue.InitialOptions()[3])
	require.True(t, ok)
	out := turn.Run(context.Background())
	assert.Equal(t, OutcomeTransportFailed, out.Kind)
	c.Finish(out)

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, "Oh dear! connection refused", lastMessage(snap).Text)
	assert.Equal(t, dialogue.InitialOptions(), snap.Options)
	assert.Equal(t, StateIdle, c.State())
}

func TestSelectOption_ConfigurationError(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetCompleteError(&services.MissingKeyError{Provider: "OpenRouter", EnvVar: "OPENROUTER_API_KEY"})
	c, _ := newTestController(t, llm, Settings{})

	turn, ok := c.Begin(dialogue.InitialOptions()[1])
	require.True(t, ok)
	out := turn.Run(context.Background())
	assert.Equal(t, OutcomeConfigurationFailed, out.Kind)
	c.Finish(out)

	snap := c.Snapshot()
	assert.Equal(t, 8, snap.Score)
	assert.Equal(t, "Oh dear! OpenRouter API key not found. Please set OPENROUTER_API_KEY in your .env file.", lastMessage(snap).Text)
	assert.Equal(t, dialogue.InitialOptions(), snap.Options)
}

func TestSelectOption_FamilyFilter(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(`{"santaResponse":"What the hell is a quark?","options":[{"text":"Stupid question","points":1}]}`)
	c, _ := newTestController(t, llm, Settings{Filter: textfilter.NewFamilyFilter()})

	c.SelectOption(context.Background(), dialogue.InitialOptions()[0])

	snap := c.Snapshot()
	assert.Equal(t, "What the heck is a quark?", lastMessage(snap).Text)
	require.Len(t, snap.Options, 1)
	assert.Equal(t, "Silly question", snap.Options[0].Text)
	assert.Equal(t, 1, snap.Options[0].Points)
}

func TestSelectOption_EmptyOptionList(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(`{"santaResponse":"Ho ho.","options":[]}`)
	c, _ := newTestController(t, llm, Settings{})

	c.SelectOption(context.Background(), dialogue.InitialOptions()[0])

	snap := c.Snapshot()
	assert.Equal(t, "Ho ho.", lastMessage(snap).Text)
	assert.Empty(t, snap.Options)
}

func TestRestart_DropsStaleOutcome(t *testing.T) {
	llm := services.NewMockLLMAPI()
	llm.SetResponse(validReply)
	c, _ := newTestController(t, llm, Settings{})

	turn, ok := c.Begin(dialogue.InitialOptions()[0])
	require.True(t, ok)

	c.Restart()
	c.Finish(turn.Run(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Score)
	assert.Len(t, snap.History, 1)
	assert.Equal(t, dialogue.InitialOptions(), snap.Options)
	assert.False(t, snap.VictoryShown)
	assert.Equal(t, StateIdle, c.State())
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "reply", OutcomeReply.String())
	assert.Equal(t, "extraction_failed", OutcomeExtractionFailed.String())
	assert.Equal(t, "transport_failed", OutcomeTransportFailed.String())
	assert.Equal(t, "configuration_failed", OutcomeConfigurationFailed.String())
	assert.Equal(t, "awaiting_response", StateAwaitingResponse.String())
}

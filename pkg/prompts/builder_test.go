package prompts

import (
	"fmt"
	"testing"

	"github.com/jwebster45206/science-santa/pkg/chat"
	"github.com/jwebster45206/science-santa/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func history(n int) []session.Message {
	s := session.New()
	for i := 1; i < n; i++ {
		speaker := session.SpeakerUser
		if i%2 == 0 {
			speaker = session.SpeakerSanta
		}
		s.Append(speaker, fmt.Sprintf("line %d", i))
	}
	return s.History()
}

func TestNew(t *testing.T) {
	builder := New()
	if builder == nil {
		t.Fatal("Expected builder to be created, got nil")
	}
	assert.Equal(t, DefaultHistoryLimit, builder.historyLimit)
}

func TestBuilder_FluentInterface(t *testing.T) {
	h := history(3)

	builder := New().
		WithScore(42).
		WithHistory(h).
		WithUserMessage("Hello").
		WithHistoryLimit(5)

	assert.Equal(t, 42, builder.score)
	assert.Equal(t, h, builder.history)
	assert.Equal(t, "Hello", builder.userMessage)
	assert.Equal(t, 5, builder.historyLimit)
}

func TestBuilder_Build_EmptyUserMessage(t *testing.T) {
	req, err := New().WithHistory(history(2)).Build()
	require.NoError(t, err)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, chat.ChatRoleUser, req.Messages[2].Role)
	assert.Empty(t, req.Messages[2].Content)
}

func TestBuilder_Build_WindowsHistory(t *testing.T) {
	h := history(15)

	req, err := New().WithHistory(h).WithUserMessage("Tell me about snowflakes!").Build()
	require.NoError(t, err)

	require.Len(t, req.Messages, DefaultHistoryLimit+1)
	for i, msg := range req.Messages[:DefaultHistoryLimit] {
		assert.Equal(t, h[5+i].Text, msg.Content, "window must keep original order")
	}
	last := req.Messages[len(req.Messages)-1]
	assert.Equal(t, chat.ChatMessage{Role: chat.ChatRoleUser, Content: "Tell me about snowflakes!"}, last)
	assert.Len(t, h, 15, "builder must not modify stored history")
}

func TestBuilder_Build_MapsRoles(t *testing.T) {
	h := history(3) // greeting (santa), line 1 (user), line 2 (santa)

	req, err := BuildRequest(0, h, "Hi!", 10)
	require.NoError(t, err)

	require.Len(t, req.Messages, 4)
	assert.Equal(t, chat.ChatRoleAgent, req.Messages[0].Role)
	assert.Equal(t, session.Greeting, req.Messages[0].Content)
	assert.Equal(t, chat.ChatRoleUser, req.Messages[1].Role)
	assert.Equal(t, chat.ChatRoleAgent, req.Messages[2].Role)
	assert.Equal(t, chat.ChatRoleUser, req.Messages[3].Role)
	assert.NoError(t, req.Validate())
}

func TestBuilder_Build_ShortHistory(t *testing.T) {
	req, err := BuildRequest(0, history(1), "Hi!", 10)
	require.NoError(t, err)
	assert.Len(t, req.Messages, 2)

	req, err = BuildRequest(0, nil, "Hi!", 10)
	require.NoError(t, err)
	assert.Len(t, req.Messages, 1)

	req, err = BuildRequest(0, history(4), "Hi!", 0)
	require.NoError(t, err)
	assert.Len(t, req.Messages, 1)
}

func TestBuilder_Build_NegativeLimit(t *testing.T) {
	_, err := BuildRequest(0, history(4), "Hi!", -1)
	assert.EqualError(t, err, "history limit cannot be negative")
}

func TestBuilder_Build_SystemPromptFollowsScore(t *testing.T) {
	req, err := New().WithScore(18).WithUserMessage("Hi!").Build()
	require.NoError(t, err)
	assert.Equal(t, SystemPrompt(18), req.SystemPrompt)
}

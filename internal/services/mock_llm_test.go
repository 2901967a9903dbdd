package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/jwebster45206/science-santa/pkg/chat"
)

func TestMockLLMService(t *testing.T) {
	mockService := NewMockLLMAPI()

	err := mockService.InitModel(context.Background())
	if err != nil {
		t.Errorf("InitModel failed: %v", err)
	}
	if mockService.InitModelCalls != 1 {
		t.Errorf("Expected 1 InitModel call, got %d", mockService.InitModelCalls)
	}

	req := chat.CompletionRequest{
		SystemPrompt: "system",
		Messages:     []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "Hello"}},
	}

	response, err := mockService.Complete(context.Background(), req)
	if err != nil {
		t.Errorf("Complete failed: %v", err)
	}
	if response != MockReply {
		t.Errorf("Expected default mock reply, got '%s'", response)
	}

	calls := mockService.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("Expected 1 Complete call, got %d", len(calls))
	}
	if calls[0].Messages[0].Content != "Hello" {
		t.Errorf("Expected recorded message 'Hello', got '%s'", calls[0].Messages[0].Content)
	}

	mockService.Reset()
	if len(mockService.GetCalls()) != 0 {
		t.Error("Expected calls to be cleared after Reset")
	}
}

func TestMockLLMService_ErrorHandling(t *testing.T) {
	mockService := NewMockLLMAPI()

	expectedErr := fmt.Errorf("connection refused")
	mockService.SetCompleteError(expectedErr)

	_, err := mockService.Complete(context.Background(), chat.CompletionRequest{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if err.Error() != expectedErr.Error() {
		t.Errorf("Expected error '%s', got '%s'", expectedErr.Error(), err.Error())
	}

	mockService.SetResponse("not json")
	response, err := mockService.Complete(context.Background(), chat.CompletionRequest{})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if response != "not json" {
		t.Errorf("Expected 'not json', got '%s'", response)
	}
}

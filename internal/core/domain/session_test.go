package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationState_Transitions(t *testing.T) {
	tests := []struct {
		from    ConversationState
		to      ConversationState
		allowed bool
	}{
		{StateIdle, StateProcessingDocuments, true},
		{StateIdle, StateReadyForQuestions, false},
		{StateIdle, StateGeneratingResponse, false},
		{StateProcessingDocuments, StateReadyForQuestions, true},
		{StateProcessingDocuments, StateIdle, true},
		{StateProcessingDocuments, StateGeneratingResponse, false},
		{StateReadyForQuestions, StateGeneratingResponse, true},
		{StateReadyForQuestions, StateProcessingDocuments, true},
		{StateReadyForQuestions, StateIdle, true},
		{StateGeneratingResponse, StateReadyForQuestions, true},
		{StateGeneratingResponse, StateIdle, false},
		{StateGeneratingResponse, StateProcessingDocuments, false},
		{StateError, StateProcessingDocuments, true},
		{StateError, StateIdle, true},
		{StateError, StateReadyForQuestions, false},
		{StateError, StateGeneratingResponse, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestConversationState_ErrorAlwaysReachable(t *testing.T) {
	states := []ConversationState{
		StateIdle,
		StateProcessingDocuments,
		StateReadyForQuestions,
		StateGeneratingResponse,
		StateError,
	}
	for _, s := range states {
		assert.True(t, s.CanTransitionTo(StateError), "from %s", s)
	}
}

func TestConversationState_IsValid(t *testing.T) {
	assert.True(t, StateIdle.IsValid())
	assert.True(t, StateError.IsValid())
	assert.False(t, ConversationState("sleeping").IsValid())
	assert.False(t, ConversationState("").IsValid())
}

func TestScoredSegment_SourceFile(t *testing.T) {
	seg := ScoredSegment{Metadata: map[string]any{"source_file": "a.pdf"}}
	assert.Equal(t, "a.pdf", seg.SourceFile())

	assert.Empty(t, ScoredSegment{}.SourceFile())
	assert.Empty(t, ScoredSegment{Metadata: map[string]any{"source_file": 42}}.SourceFile())
}

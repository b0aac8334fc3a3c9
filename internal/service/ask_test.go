package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gemini-gateway/internal/llm"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		name     string
		question string
		setup    func(*llm.MockClient)
		want     string
		wantKind Kind
		wantErr  error
	}{
		{
			name:     "forwards question verbatim as text prompt",
			question: "  What is Go?  ",
			setup: func(m *llm.MockClient) {
				m.On("Generate", mock.Anything, llm.Request{Prompt: "  What is Go?  ", Format: llm.FormatText}).
					Return("Go is a programming language.", nil).Once()
			},
			want: "Go is a programming language.",
		},
		{
			name:     "empty model answer",
			question: "What is Go?",
			setup: func(m *llm.MockClient) {
				m.On("Generate", mock.Anything, mock.Anything).Return("  ", nil).Once()
			},
			wantKind: KindEmpty,
		},
		{
			name:     "adapter reports empty response",
			question: "What is Go?",
			setup: func(m *llm.MockClient) {
				m.On("Generate", mock.Anything, mock.Anything).Return("", llm.ErrEmptyResponse).Once()
			},
			wantKind: KindEmpty,
		},
		{
			name:     "adapter fails",
			question: "What is Go?",
			setup: func(m *llm.MockClient) {
				m.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("dial tcp: i/o timeout")).Once()
			},
			wantKind: KindUnexpected,
		},
		{
			name:     "blank question",
			question: " \n ",
			setup:    func(m *llm.MockClient) {},
			wantErr:  ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(llm.MockClient)
			tt.setup(client)

			got, err := NewAsker(client, discardLog()).Ask(context.Background(), tt.question)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.want != "":
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			default:
				kind, ok := KindOf(err)
				require.True(t, ok, "expected upstream error, got %v", err)
				assert.Equal(t, tt.wantKind, kind)
			}
			client.AssertExpectations(t)
		})
	}
}

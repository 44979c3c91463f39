package translate

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubCreator struct {
	lastParams sdk.MessageNewParams
	msg        *sdk.Message
	err        error
}

func (s *stubCreator) create(_ context.Context, params sdk.MessageNewParams) (*sdk.Message, error) {
	s.lastParams = params
	return s.msg, s.err
}

func newTestClaude(stub *stubCreator) *Claude {
	return &Claude{
		creator: stub,
		model:   "claude-haiku-4-5-20251001",
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestTranslate_InvalidLanguageTag(t *testing.T) {
	c := newTestClaude(&stubCreator{})
	_, err := c.Translate(context.Background(), "hello", "not a lang!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid language tag")
}

func TestTranslate_Success(t *testing.T) {
	stub := &stubCreator{
		msg: &sdk.Message{
			Content: []sdk.ContentBlockUnion{
				{Type: "text", Text: "  Cold rolled sheet  "},
			},
		},
	}
	c := newTestClaude(stub)

	got, err := c.Translate(context.Background(), "냉연강판", "en")
	require.NoError(t, err)
	assert.Equal(t, "Cold rolled sheet", got)
	assert.Equal(t, sdk.Model("claude-haiku-4-5-20251001"), stub.lastParams.Model)
}

func TestTranslate_APIErrorSurfaces(t *testing.T) {
	c := newTestClaude(&stubCreator{err: errors.New("upstream down")})
	_, err := c.Translate(context.Background(), "text", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create message")
}

func TestTranslate_EmptyResponseIsError(t *testing.T) {
	c := newTestClaude(&stubCreator{msg: &sdk.Message{}})
	_, err := c.Translate(context.Background(), "text", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

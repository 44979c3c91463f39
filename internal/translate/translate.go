// Package translate rewrites material descriptions into a target language.
// Translation is best-effort: callers fall back to the original text when
// a call fails, so an outage never blocks a comparison.
package translate

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// Config configures the Claude-backed translator.
type Config struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// messageCreator is the slice of the SDK surface the translator needs.
// Narrowed for testability.
type messageCreator interface {
	create(ctx context.Context, params sdk.MessageNewParams) (*sdk.Message, error)
}

type sdkCreator struct {
	client sdk.Client
}

func (c *sdkCreator) create(ctx context.Context, params sdk.MessageNewParams) (*sdk.Message, error) {
	return c.client.Messages.New(ctx, params)
}

// Claude translates text via the Anthropic API, rate limited so a batch
// of line items cannot hammer the endpoint.
type Claude struct {
	creator messageCreator
	model   string
	limiter *rate.Limiter
}

// New creates a Claude translator. model defaults to a small fast model;
// translation of a one-line material description needs nothing bigger.
func New(cfg Config) (*Claude, error) {
	if cfg.Key == "" {
		return nil, eris.New("translate: api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	return &Claude{
		creator: &sdkCreator{client: sdk.NewClient(option.WithAPIKey(cfg.Key))},
		model:   model,
		limiter: rate.NewLimiter(2, 2),
	}, nil
}

// Translate returns the text translated into targetLang (a BCP 47 tag such
// as "en" or "ko"). The language tag is validated before any API call.
func (c *Claude) Translate(ctx context.Context, text, targetLang string) (string, error) {
	tag, err := language.Parse(targetLang)
	if err != nil {
		return "", eris.Wrapf(err, "translate: invalid language tag %q", targetLang)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "translate: rate limiter wait")
	}

	prompt := fmt.Sprintf(
		"Translate the following product description into %s. Reply with the translation only, no commentary.\n\n%s",
		tag.String(), text,
	)

	msg, err := c.creator.create(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 256,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "translate: create message")
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	translated := strings.TrimSpace(out.String())
	if translated == "" {
		return "", eris.New("translate: empty response")
	}

	zap.L().Debug("translate: translated text",
		zap.String("target", tag.String()),
		zap.Int("chars_in", len(text)),
		zap.Int("chars_out", len(translated)),
	)
	return translated, nil
}

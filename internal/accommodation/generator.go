// Package accommodation turns a disability description and an institutional
// context into a list of suggested accommodations using a hosted model.
package accommodation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"accomapi/internal/llm"
	"accomapi/internal/model"
)

var tracer = otel.Tracer("accomapi/internal/accommodation")

// Result is a successful generation.
type Result struct {
	Accommodations []string
	Strategy       Strategy
	// Degraded is set when the count differs from model.TargetAccommodations.
	Degraded bool
	Trace    *Trace
}

// Generator produces accommodation lists.
type Generator interface {
	// Generate makes exactly one model call; failures are never retried.
	Generate(ctx context.Context, disability, roleContext string) (*Result, error)
}

// Options tunes the model call. Both values are passed through to the provider.
type Options struct {
	Model     string
	MaxTokens int
}

type generator struct {
	provider llm.Provider
	opts     Options
	log      *zap.Logger
	metrics  *Metrics
}

// NewGenerator constructs a Generator. log and metrics may be nil.
func NewGenerator(provider llm.Provider, opts Options, log *zap.Logger, metrics *Metrics) Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &generator{provider: provider, opts: opts, log: log, metrics: metrics}
}

func (g *generator) Generate(ctx context.Context, disability, roleContext string) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "accommodation.generate")
	defer span.End()

	tr := &Trace{Provider: g.provider.Name(), Model: g.opts.Model}
	span.SetAttributes(attribute.String("llm.provider", tr.Provider), attribute.String("llm.model", tr.Model))

	fail := func(kind ErrorKind, msg, raw string, err error) error {
		g.metrics.observeFailure(kind, time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		g.log.Error("accommodation generation failed",
			zap.String("kind", string(kind)),
			zap.String("provider", tr.Provider),
			zap.Error(err),
		)
		return &GenerationError{Kind: kind, Msg: msg, Raw: raw, Trace: tr, Err: err}
	}

	if err := g.provider.Ready(); err != nil {
		tr.step("credential_check", false, err.Error())
		return nil, fail(KindConfiguration, err.Error(), "", err)
	}
	tr.step("credential_check", true, "")

	tr.Prompt = BuildPrompt(disability, roleContext)
	tr.step("prompt_built", true, fmt.Sprintf("%d bytes", len(tr.Prompt)))
	g.log.Debug("sending prompt", zap.String("provider", tr.Provider), zap.String("model", tr.Model))

	resp, err := g.provider.Complete(ctx, llm.Request{
		Prompt:    tr.Prompt,
		Model:     g.opts.Model,
		MaxTokens: g.opts.MaxTokens,
	})
	if err != nil {
		tr.step("model_call", false, err.Error())
		var se *llm.StatusError
		switch {
		case errors.As(err, &se):
			return nil, fail(KindUpstreamStatus, fmt.Sprintf("remote service returned status %d", se.Code), se.Body, err)
		case errors.Is(err, llm.ErrMissingCredential):
			return nil, fail(KindConfiguration, err.Error(), "", err)
		default:
			return nil, fail(KindTransport, "model request failed", "", err)
		}
	}
	tr.RawReply = resp.Text
	tr.step("model_call", true, fmt.Sprintf("%d bytes, %d output tokens", len(resp.Text), resp.Usage.OutputTokens))
	g.log.Debug("raw model reply", zap.String("reply", resp.Text))

	items, strategy, err := parseReply(resp.Text, tr)
	if err != nil {
		return nil, fail(KindUnparseable, "unparseable response", resp.Text, err)
	}
	tr.Strategy = strategy
	if len(items) == 0 {
		tr.step("count_check", false, "empty array")
		return nil, fail(KindInvalidShape, "empty accommodation list", resp.Text, errors.New("model returned an empty array"))
	}

	accs := extractAccommodations(items)
	degraded := len(accs) != model.TargetAccommodations
	if degraded {
		tr.step("count_check", false, fmt.Sprintf("got %d, want %d", len(accs), model.TargetAccommodations))
		g.log.Warn("accommodation count deviates from target",
			zap.Int("got", len(accs)),
			zap.Int("want", model.TargetAccommodations),
			zap.String("strategy", string(strategy)),
		)
	} else {
		tr.step("count_check", true, "")
	}

	g.metrics.observeSuccess(strategy, degraded, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("accommodation.strategy", string(strategy)),
		attribute.Int("accommodation.count", len(accs)),
	)

	return &Result{
		Accommodations: accs,
		Strategy:       strategy,
		Degraded:       degraded,
		Trace:          tr,
	}, nil
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/abhisek/wordiz/internal/store"
)

// EventProvider records every request in the event log.
type EventProvider struct {
	inner Provider
	repo  store.EventRepo
	log   *slog.Logger
}

// WithEvents wraps p so each call is appended to repo. A nil logger uses
// slog.Default.
func WithEvents(p Provider, repo store.EventRepo, log *slog.Logger) Provider {
	if log == nil {
		log = slog.Default()
	}
	return &EventProvider{inner: p, repo: repo, log: log}
}

func (e *EventProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := e.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    e.inner.Name(),
		Model:       e.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	e.log.Debug("llm request",
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
		"success", data.Success)

	if logErr := e.repo.AppendLLMRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", logErr)
	}
	return resp, err
}

func (e *EventProvider) Name() string    { return e.inner.Name() }
func (e *EventProvider) ModelID() string { return e.inner.ModelID() }

// describeRequest renders the request as readable text for `wordiz llm view`.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}

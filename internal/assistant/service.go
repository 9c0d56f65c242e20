// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ssssjaj14-ux/shakeel/internal/cloud"
	"github.com/ssssjaj14-ux/shakeel/internal/imagegen"
	"github.com/ssssjaj14-ux/shakeel/internal/model"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
	"github.com/ssssjaj14-ux/shakeel/internal/router"
	"github.com/ssssjaj14-ux/shakeel/internal/spellcheck"
)

// Completer performs one chat completion. *cloud.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req cloud.ChatRequest) (*cloud.ChatResponse, error)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Defaults for the pipeline.
const (
	DefaultHistoryWindow    = 5
	DefaultRequestTimeout   = 30 * time.Second
	DefaultMaxTokens        = 2000
	DefaultTopP             = 0.9
	DefaultFrequencyPenalty = 0.1
	DefaultPresencePenalty  = 0.1

	spellCheckTemperature = 0.1
	spellCheckMaxTokens   = 500
)

// Options configures a Service.
type Options struct {
	Models           model.ModelTable
	Sampling         router.Options
	HistoryWindow    int
	RequestTimeout   time.Duration
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64

	// RemoteSpellCheck lets SpellCheck ask the general model when local
	// normalization leaves the text unchanged.
	RemoteSpellCheck bool
}

// DefaultOptions returns the standard pipeline settings.
func DefaultOptions() Options {
	return Options{
		Models:           model.DefaultModelTable(),
		Sampling:         router.DefaultOptions(),
		HistoryWindow:    DefaultHistoryWindow,
		RequestTimeout:   DefaultRequestTimeout,
		MaxTokens:        DefaultMaxTokens,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
		RemoteSpellCheck: true,
	}
}

// =============================================================================
// SERVICE
// =============================================================================

// Service is the request pipeline. It holds no per-request state and is
// never modified after New, so one value may serve any number of
// concurrent requests.
type Service struct {
	completer Completer
	images    *imagegen.Generator
	opts      Options
	logger    *slog.Logger
}

// New builds a Service. A nil completer makes every text request fall back;
// a nil generator or logger takes the default.
func New(completer Completer, images *imagegen.Generator, opts Options, logger *slog.Logger) *Service {
	if images == nil {
		images = imagegen.New(imagegen.Options{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts.Models = opts.Models.WithDefaults()
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = DefaultHistoryWindow
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Service{
		completer: completer,
		images:    images,
		opts:      opts,
		logger:    logger,
	}
}

// Models returns the routing table in use.
func (s *Service) Models() model.ModelTable {
	return s.opts.Models
}

// Options returns a copy of the settings in use.
func (s *Service) Options() Options {
	return s.opts
}

// Route reports how a request would be served without serving it.
func (s *Service) Route(history []model.Message, category model.ServiceCategory) router.RoutingDecision {
	return router.Route(history, category, s.opts.Models, s.opts.Sampling)
}

// SendMessage answers the latest message of history for a category.
//
// It always returns a result: image generation requests get an image URL,
// text requests get the model's reply, and any failure along the way
// (offline mode, network, timeout, non-2xx, empty reply) gets the
// category's fallback. An empty history, or one whose latest entry is
// blank, also gets the fallback.
func (s *Service) SendMessage(ctx context.Context, history []model.Message, category model.ServiceCategory) model.CompletionResult {
	reqID := RequestID(ctx)
	log := s.logger.With("request_id", reqID, "category", string(category))

	if last, ok := latestTurn(history); !ok || last.IsBlank() {
		log.Info("blank latest message, using fallback")
		return offline.Fallback(category)
	}

	window := s.window(history)
	if len(window) == 0 {
		log.Info("empty history, using fallback")
		return offline.Fallback(category)
	}

	decision := s.Route(window, category)
	log.Debug("routed", "intent", decision.IntentName, "model", decision.Model, "reason", decision.Reason)

	if !decision.NeedsCompletion() {
		latest, _ := model.Latest(window)
		result := s.images.Generate(latest.Content)
		log.Info("image generated", "url", result.GeneratedImage)
		return result
	}

	if err := s.remoteAllowed(); err != nil {
		log.Info("remote call skipped", "reason", err)
		return offline.Fallback(category)
	}

	req := cloud.ChatRequest{
		Model:            decision.Model,
		Messages:         s.buildMessages(window, decision.Category),
		Temperature:      cloud.Float(decision.Temperature),
		MaxTokens:        s.opts.MaxTokens,
		TopP:             cloud.Float(s.opts.TopP),
		FrequencyPenalty: cloud.Float(s.opts.FrequencyPenalty),
		PresencePenalty:  cloud.Float(s.opts.PresencePenalty),
	}

	start := time.Now()
	content, err := s.complete(ctx, req)
	if err != nil {
		logFailure(log, err, decision.Model, time.Since(start))
		return offline.Fallback(category)
	}

	log.Info("completion ok", "model", decision.Model, "duration", time.Since(start))
	return model.CompletionResult{Content: content, ModelUsed: decision.Model}
}

// SpellCheck corrects text. Local normalization runs first and wins if it
// changes anything. Otherwise the general model is asked, when allowed, and
// its answer is used unless the call fails or comes back blank.
func (s *Service) SpellCheck(ctx context.Context, text string) string {
	local := spellcheck.Normalize(text)
	if local != text || strings.TrimSpace(text) == "" {
		return local
	}
	if !s.opts.RemoteSpellCheck || s.remoteAllowed() != nil {
		return local
	}

	log := s.logger.With("request_id", RequestID(ctx), "op", "spellcheck")
	req := cloud.ChatRequest{
		Model: s.opts.Models.General,
		Messages: []cloud.ChatMessage{
			cloud.NewSystemMessage(spellCheckPrompt),
			cloud.NewUserMessage(text),
		},
		Temperature: cloud.Float(spellCheckTemperature),
		MaxTokens:   spellCheckMaxTokens,
	}

	corrected, err := s.complete(ctx, req)
	if err != nil {
		log.Warn("remote spell check failed, keeping local result", "kind", cloud.Kind(err), "error", err)
		return local
	}
	return strings.TrimSpace(corrected)
}

// =============================================================================
// INTERNALS
// =============================================================================

var errNoCompleter = errors.New("no completion client configured")

func (s *Service) remoteAllowed() error {
	if s.completer == nil {
		return errNoCompleter
	}
	return offline.CheckCloudAllowed()
}

// complete calls the API under the request timeout.
func (s *Service) complete(ctx context.Context, req cloud.ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	resp, err := s.completer.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	content := resp.GetContent()
	if strings.TrimSpace(content) == "" {
		return "", cloud.ErrEmptyContent
	}
	return content, nil
}

// latestTurn is the last non-system entry of history.
func latestTurn(history []model.Message) (model.Message, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != model.RoleSystem {
			return history[i], true
		}
	}
	return model.Message{}, false
}

// window drops caller system entries and blank entries, then keeps the
// trailing HistoryWindow messages.
func (s *Service) window(history []model.Message) []model.Message {
	kept := make([]model.Message, 0, len(history))
	for _, m := range history {
		if m.Role == model.RoleSystem || m.IsBlank() {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) > s.opts.HistoryWindow {
		kept = kept[len(kept)-s.opts.HistoryWindow:]
	}
	return kept
}

// buildMessages prepends the system prompt and converts the window to the
// wire format, normalizing every text.
func (s *Service) buildMessages(window []model.Message, category model.ServiceCategory) []cloud.ChatMessage {
	out := make([]cloud.ChatMessage, 0, len(window)+1)
	out = append(out, cloud.NewSystemMessage(SystemPrompt(category)))
	for _, m := range window {
		text := spellcheck.Normalize(m.Content)
		if m.HasImage() {
			out = append(out, cloud.NewImageMessage(string(m.Role), text, m.Image))
			continue
		}
		out = append(out, cloud.ChatMessage{Role: string(m.Role), Content: text})
	}
	return out
}

func logFailure(log *slog.Logger, err error, modelID string, d time.Duration) {
	attrs := []any{"model", modelID, "kind", cloud.Kind(err), "duration", d, "error", err}
	var ue *cloud.UpstreamError
	if errors.As(err, &ue) {
		attrs = append(attrs, "status", ue.Status, "temporary", ue.Temporary())
	}
	log.Warn("completion failed, using fallback", attrs...)
}

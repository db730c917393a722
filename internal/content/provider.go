// Package content produces every natural-language field in the dataset. Two
// interchangeable strategies share one contract: an LLM-backed strategy and a
// deterministic template strategy. The exported constructor composes them so
// generation volume is never blocked by network or API availability.
package content

import (
	"context"
	"log/slog"
	"sync"
)

// FieldKind names one natural-language field the generators ask for.
type FieldKind string

const (
	TaskName           FieldKind = "task_name"
	TaskDescription    FieldKind = "task_description"
	SubtaskName        FieldKind = "subtask_name"
	CommentContent     FieldKind = "comment_content"
	ProjectName        FieldKind = "project_name"
	ProjectDescription FieldKind = "project_description"
)

// TextContext carries the workspace context a strategy may condition on.
type TextContext struct {
	Department  string
	ProjectType string
	SectionName string
	ProjectName string
	TeamName    string
	TaskName    string
	AuthorRole  string
}

// Provider generates a natural-language field value.
type Provider interface {
	Generate(ctx context.Context, kind FieldKind, tc TextContext) (string, error)
}

// Options configure the provider stack.
type Options struct {
	LLMEnabled  bool
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Seed        int64
}

// NewProvider builds the production provider: the LLM strategy wrapped with
// automatic template fallback, or templates alone when the LLM is disabled.
func NewProvider(opts Options, logger *slog.Logger) Provider {
	templates := NewTemplateProvider(opts.Seed)
	if !opts.LLMEnabled {
		return templates
	}
	return &fallbackProvider{
		primary:  NewLLMProvider(opts),
		fallback: templates,
		logger:   logger,
	}
}

// fallbackProvider tries the primary strategy and falls back on any failure
// signal, so Generate never fails outright.
type fallbackProvider struct {
	primary  Provider
	fallback Provider
	logger   *slog.Logger
}

func (p *fallbackProvider) Generate(ctx context.Context, kind FieldKind, tc TextContext) (string, error) {
	text, err := p.primary.Generate(ctx, kind, tc)
	if err == nil && text != "" {
		return text, nil
	}
	if err != nil && p.logger != nil {
		p.logger.Debug("llm generation failed, using template fallback",
			"field_kind", string(kind), "error", err)
	}
	return p.fallback.Generate(ctx, kind, tc)
}

// Prefetch generates one value per context with bounded concurrency. Results
// are returned positionally, so callers can fan out the latency-bound LLM
// requests without reordering anything downstream. Failed slots resolve
// through the provider's own fallback and never surface an error.
func Prefetch(ctx context.Context, p Provider, kind FieldKind, contexts []TextContext, workers int) []string {
	if workers < 1 {
		workers = 1
	}

	results := make([]string, len(contexts))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, tc := range contexts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, tc TextContext) {
			defer wg.Done()
			defer func() { <-sem }()
			text, err := p.Generate(ctx, kind, tc)
			if err != nil || text == "" {
				// Providers built by NewProvider never fail; this guards
				// direct use of the LLM strategy.
				text = fallbackText(kind)
			}
			results[i] = text
		}(i, tc)
	}
	wg.Wait()

	return results
}

func fallbackText(kind FieldKind) string {
	switch kind {
	case TaskDescription, ProjectDescription:
		return "Details to follow."
	case CommentContent:
		return "Following up on this."
	default:
		return "Untitled task"
	}
}

package content

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const llmRequestTimeout = 30 * time.Second

// lengthBounds caps output size per field kind (runes).
var lengthBounds = map[FieldKind]int{
	TaskName:           80,
	SubtaskName:        80,
	ProjectName:        60,
	TaskDescription:    600,
	ProjectDescription: 400,
	CommentContent:     400,
}

// Phrases that mark a completion as unusable for seed data.
var bannedPhrases = []string{
	"as an ai language model",
	"i cannot",
	"i'm sorry",
	"here is",
	"here's a",
}

// LLMProvider issues bounded single-response completions against an
// OpenAI-compatible endpoint. Failures return an error to the caller; the
// fallback composition handles recovery.
type LLMProvider struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int

	client  *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
}

// NewLLMProvider creates the LLM-backed strategy. Responses are cached by
// prompt hash so repeated contexts cost one request, and outbound calls are
// rate limited to stay inside provider quotas.
func NewLLMProvider(opts Options) *LLMProvider {
	return &LLMProvider{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		client:      &http.Client{Timeout: llmRequestTimeout},
		limiter:     rate.NewLimiter(rate.Limit(8), 8),
		cache:       cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Generate requests one completion for the field kind and context.
func (p *LLMProvider) Generate(ctx context.Context, kind FieldKind, tc TextContext) (string, error) {
	prompt := buildPrompt(kind, tc)
	cacheKey := p.cacheKey(prompt)
	if cached, found := p.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter interrupted: %w", err)
	}

	content, err := p.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	content, err = sanitize(content, kind)
	if err != nil {
		return "", err
	}

	p.cache.Set(cacheKey, content, cache.DefaultExpiration)
	return content, nil
}

// complete performs a non-streaming chat completion request.
func (p *LLMProvider) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]interface{}{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": p.temperature,
		"max_tokens":  p.maxTokens,
		"stream":      false,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

func (p *LLMProvider) cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.2f|%d", prompt, p.model, p.temperature, p.maxTokens)))
	return hex.EncodeToString(sum[:])
}

// sanitize enforces output bounds and rejects assistant-voice responses.
func sanitize(content string, kind FieldKind) (string, error) {
	content = strings.TrimSpace(content)
	content = strings.Trim(content, "\"'`")

	if content == "" {
		return "", fmt.Errorf("empty completion")
	}

	lowered := strings.ToLower(content)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lowered, phrase) {
			return "", fmt.Errorf("completion contains banned phrase %q", phrase)
		}
	}

	// Single-line fields must not span lines.
	switch kind {
	case TaskName, SubtaskName, ProjectName:
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			content = strings.TrimSpace(content[:idx])
		}
	}

	if max := lengthBounds[kind]; max > 0 {
		runes := []rune(content)
		if len(runes) > max {
			content = strings.TrimSpace(string(runes[:max]))
		}
	}

	if content == "" {
		return "", fmt.Errorf("completion empty after sanitization")
	}
	return content, nil
}

const systemPrompt = "You generate short, realistic project-management content " +
	"for an enterprise B2B SaaS workspace. Respond with the requested text only, " +
	"no preamble, no quotes, no markdown."

func buildPrompt(kind FieldKind, tc TextContext) string {
	switch kind {
	case TaskName:
		return fmt.Sprintf(
			"Write one realistic task title for a %s team working on a %s project. "+
				"The task sits in the %q board column. Maximum 10 words.",
			orDefault(tc.Department, "engineering"), orDefault(tc.ProjectType, "sprint"), tc.SectionName)
	case SubtaskName:
		return fmt.Sprintf(
			"Write one short subtask title for the task %q on a %s team. Maximum 8 words.",
			tc.TaskName, orDefault(tc.Department, "engineering"))
	case TaskDescription:
		return fmt.Sprintf(
			"Write a 2-4 sentence task description for %q in a %s %s project. "+
				"Plain prose, optionally a short acceptance criteria list.",
			tc.TaskName, orDefault(tc.Department, "engineering"), orDefault(tc.ProjectType, "sprint"))
	case CommentContent:
		return fmt.Sprintf(
			"Write one realistic work comment (1-3 sentences) left by a %s on the task %q. "+
				"It can report progress, ask a question, give feedback, or flag a blocker.",
			orDefault(tc.AuthorRole, "member"), tc.TaskName)
	case ProjectName:
		return fmt.Sprintf(
			"Write one realistic project name for the %s team %q running a %s project. Maximum 6 words.",
			orDefault(tc.Department, "engineering"), tc.TeamName, orDefault(tc.ProjectType, "sprint"))
	case ProjectDescription:
		return fmt.Sprintf(
			"Write a 1-3 sentence description of the project %q owned by a %s team.",
			tc.ProjectName, orDefault(tc.Department, "engineering"))
	default:
		return fmt.Sprintf("Write one short line of realistic %s content for a project-management workspace.", kind)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

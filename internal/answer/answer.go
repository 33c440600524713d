package answer

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog/log"
    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/pagechat/internal/budget"
    "github.com/hyperifyio/pagechat/internal/cache"
    "github.com/hyperifyio/pagechat/internal/extract"
    "github.com/hyperifyio/pagechat/internal/llm"
)

// DefaultTimeout bounds a single model call when Answerer.Timeout is zero.
const DefaultTimeout = 2 * time.Minute

// DefaultReservedOutputTokens is kept free in the context window for the answer.
const DefaultReservedOutputTokens = 1024

var (
    // ErrEmptyAnswer indicates the model returned no usable text.
    ErrEmptyAnswer = errors.New("model returned an empty answer")
    // ErrEmptyQuestion is returned when the question is blank.
    ErrEmptyQuestion = errors.New("question is empty")
)

// Answerer asks a chat model questions about a stored page.
type Answerer struct {
    Client llm.Client
    Model  string
    // Timeout bounds each model call. Zero means DefaultTimeout.
    Timeout time.Duration
    // Cache, when set, stores answers keyed by model and prompt.
    Cache *cache.AnswerCache
    // SystemPrompt, when non-empty, is sent as a system message before the
    // user message.
    SystemPrompt string
    // ReservedOutputTokens is subtracted from the model window when sizing
    // the context. Zero means DefaultReservedOutputTokens.
    ReservedOutputTokens int
}

// Answer asks question using doc as context and returns the model's reply.
func (a *Answerer) Answer(ctx context.Context, doc extract.Document, question string) (string, error) {
    if a.Client == nil || strings.TrimSpace(a.Model) == "" {
        return "", errors.New("answerer not configured")
    }
    question = strings.TrimSpace(question)
    if question == "" {
        return "", ErrEmptyQuestion
    }
    prompt := a.fitPrompt(doc, question)

    key := cache.KeyFrom(a.Model, a.SystemPrompt+"\n\n"+prompt)
    if a.Cache != nil {
        if e, ok, _ := a.Cache.Get(ctx, key); ok {
            log.Debug().Str("model", a.Model).Msg("answer served from cache")
            return e.Answer, nil
        }
    }

    messages := make([]openai.ChatCompletionMessage, 0, 2)
    if strings.TrimSpace(a.SystemPrompt) != "" {
        messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: a.SystemPrompt})
    }
    messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

    timeout := a.Timeout
    if timeout <= 0 {
        timeout = DefaultTimeout
    }
    callCtx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()

    start := time.Now()
    resp, err := a.Client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
        Model:    a.Model,
        Messages: messages,
        N:        1,
    })
    if err != nil {
        if errors.Is(err, context.DeadlineExceeded) {
            return "", fmt.Errorf("model call timed out after %s: %w", timeout, err)
        }
        return "", fmt.Errorf("model call: %w", err)
    }
    if len(resp.Choices) == 0 {
        return "", ErrEmptyAnswer
    }
    out := strings.TrimSpace(resp.Choices[0].Message.Content)
    if out == "" {
        return "", ErrEmptyAnswer
    }
    log.Debug().
        Str("model", a.Model).
        Dur("elapsed", time.Since(start)).
        Int("prompt_tokens", resp.Usage.PromptTokens).
        Int("completion_tokens", resp.Usage.CompletionTokens).
        Msg("model answered")

    if a.Cache != nil {
        if err := a.Cache.Save(ctx, key, cache.Entry{Model: a.Model, Question: question, Answer: out}); err != nil {
            log.Warn().Err(err).Msg("answer cache save failed")
        }
    }
    return out, nil
}

// AnswerText is Answer for display: failures come back as the answer text
// "Error running model: <cause>" instead of an error.
func (a *Answerer) AnswerText(ctx context.Context, doc extract.Document, question string) string {
    out, err := a.Answer(ctx, doc, question)
    if err != nil {
        log.Warn().Err(err).Str("model", a.Model).Msg("model call failed")
        return fmt.Sprintf("Error running model: %v", err)
    }
    return out
}

// fitPrompt builds the prompt and, when it would overflow the model's window,
// drops trailing paragraphs until it fits. Title, description and headings
// are always kept.
func (a *Answerer) fitPrompt(doc extract.Document, question string) string {
    reserved := a.ReservedOutputTokens
    if reserved <= 0 {
        reserved = DefaultReservedOutputTokens
    }
    prompt := BuildPrompt(BuildContext(doc), question)
    if budget.RemainingContextWithHeadroom(a.Model, reserved, budget.EstimatePromptTokens(a.SystemPrompt, prompt)) > 0 {
        return prompt
    }

    // Binary search the largest paragraph prefix that fits
    trimmed := doc
    lo, hi := 0, len(doc.Paragraphs)
    for lo < hi {
        mid := (lo + hi + 1) / 2
        trimmed.Paragraphs = doc.Paragraphs[:mid]
        p := BuildPrompt(BuildContext(trimmed), question)
        if budget.RemainingContextWithHeadroom(a.Model, reserved, budget.EstimatePromptTokens(a.SystemPrompt, p)) > 0 {
            lo = mid
        } else {
            hi = mid - 1
        }
    }
    trimmed.Paragraphs = doc.Paragraphs[:lo]
    log.Warn().
        Str("model", a.Model).
        Int("paragraphs_kept", lo).
        Int("paragraphs_total", len(doc.Paragraphs)).
        Msg("context truncated to fit model window")
    return BuildPrompt(BuildContext(trimmed), question)
}

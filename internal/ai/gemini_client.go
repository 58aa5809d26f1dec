package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"clarity-backend/internal/config"
	"clarity-backend/internal/logger"
	"clarity-backend/models"
)

// GeminiClient is the language model collaborator. One completion per
// call, no retries: failures surface to the caller as typed errors.
type GeminiClient struct {
	client      *genai.Client
	model       string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	rpm := getTierRPM(cfg.GeminiTier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(rpm)*0.9/60.0), rpm/10)

	return &GeminiClient{
		client:      client,
		model:       cfg.GeminiModel,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}, nil
}

// getTierRPM maps the billing tier to its requests-per-minute budget.
// Unknown tiers get the free-tier limit.
func getTierRPM(tier string) int {
	switch tier {
	case "tier1":
		return 1000
	case "tier2":
		return 2000
	default:
		return 10
	}
}

// Complete runs one chat completion: optional system instruction, the
// caller's history replayed verbatim, then the final user prompt.
func (gc *GeminiClient) Complete(ctx context.Context, system string, history []models.ConversationTurn, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.complete")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.model),
		attribute.Int("gemini.history_turns", len(history)),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", wrapModelError(err)
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.model)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)

		if system != "" {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(system)},
			}
		}

		cs := model.StartChat()
		cs.History = historyToContents(history)

		resp, err := cs.SendMessage(ctx, genai.Text(prompt))
		if err != nil {
			span.SetAttributes(attribute.Bool("gemini.error", true))
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return "", wrapModelError(err)
	}

	text := extractText(result.(*genai.GenerateContentResponse))
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", models.ErrModelUnavailable)
	}

	span.SetAttributes(attribute.Int("gemini.response_chars", len(text)))
	return text, nil
}

// CompletePrompt runs a single-prompt completion with no system
// instruction or history (map/reduce and flashcard calls).
func (gc *GeminiClient) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	return gc.Complete(ctx, "", nil, prompt)
}

func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}

// historyToContents maps caller roles onto the Gemini wire roles
// ("assistant" becomes "model"; anything else is treated as "user").
func historyToContents(history []models.ConversationTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					result.WriteString(string(text))
				}
			}
		}
	}
	return result.String()
}

func wrapModelError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", models.ErrModelTimeout, err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit breaker open", models.ErrModelUnavailable)
	default:
		return fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
}

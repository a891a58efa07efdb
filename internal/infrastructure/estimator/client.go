package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

// DefaultRequestsPerMinute bounds outgoing estimation calls.
const DefaultRequestsPerMinute = 20.0

// Client produces food estimates through the Anthropic API. It implements
// the Estimator port: results are returned exactly as the model estimated
// them, omitted fields stay omitted, and every failure wraps
// ErrEstimationFailed so callers can decide what to do.
type Client struct {
	client  anthropic.Client
	model   anthropic.Model
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient creates an estimation client.
func NewClient(apiKey, model string, requestsPerMinute float64, logger zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	return &Client{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   anthropic.Model(model),
		limiter: rate.NewLimiter(rate.Limit(requestsPerMinute/60), 3),
		logger:  logger.With().Str("component", "estimator").Logger(),
	}
}

// DescribeFood estimates nutrition for a free-text food description.
func (c *Client) DescribeFood(ctx context.Context, description string) (*domain.FoodEstimate, error) {
	text, err := c.complete(ctx, 1024,
		anthropic.NewUserMessage(anthropic.NewTextBlock(buildDescribePrompt(description))))
	if err != nil {
		return nil, err
	}

	estimate, err := parseEstimate(text)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("food", estimate.Name).Float64("confidence", estimate.Confidence).Msg("described food")
	return estimate, nil
}

// ParseLabel reads a photographed nutrition label into per-reference values.
func (c *Client) ParseLabel(ctx context.Context, imageBase64, mediaType string) (*domain.LabelScan, error) {
	text, err := c.complete(ctx, 1024,
		anthropic.NewUserMessage(
			anthropic.NewImageBlockBase64(mediaType, imageBase64),
			anthropic.NewTextBlock(labelPrompt()),
		))
	if err != nil {
		return nil, err
	}

	scan, err := parseLabel(text)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("product", scan.Name).Msg("parsed label")
	return scan, nil
}

// AnalyzeDay estimates whole-day vitamin and mineral totals from entry
// summaries.
func (c *Client) AnalyzeDay(ctx context.Context, date time.Time, entries []domain.EntrySummary) (*domain.DayAnalysis, error) {
	entriesJSON, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal entries: %v", domain.ErrEstimationFailed, err)
	}

	text, err := c.complete(ctx, 2048,
		anthropic.NewUserMessage(anthropic.NewTextBlock(buildAnalyzePrompt(date, string(entriesJSON)))))
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Int("entries", len(entries)).Int("nutrients", len(analysis.Micronutrients)).Msg("analyzed day")
	return analysis, nil
}

func (c *Client) complete(ctx context.Context, maxTokens int64, message anthropic.MessageParam) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{message},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEstimationFailed, err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrEstimationFailed)
	}
	return msg.Content[0].Text, nil
}

func parseEstimate(text string) (*domain.FoodEstimate, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var estimate domain.FoodEstimate
	if err := json.Unmarshal([]byte(raw), &estimate); err != nil {
		return nil, fmt.Errorf("%w: decode estimate: %v", domain.ErrEstimationFailed, err)
	}
	return &estimate, nil
}

func parseLabel(text string) (*domain.LabelScan, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var scan domain.LabelScan
	if err := json.Unmarshal([]byte(raw), &scan); err != nil {
		return nil, fmt.Errorf("%w: decode label: %v", domain.ErrEstimationFailed, err)
	}
	return &scan, nil
}

func parseAnalysis(text string) (*domain.DayAnalysis, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}
	var analysis domain.DayAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("%w: decode analysis: %v", domain.ErrEstimationFailed, err)
	}
	return &analysis, nil
}

// extractJSON finds the first complete JSON object in a model reply; models
// occasionally wrap output in prose or markdown fences.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", domain.ErrEstimationFailed)
	}
	return s[start : end+1], nil
}

func buildDescribePrompt(description string) string {
	return fmt.Sprintf(`You are a nutrition estimation assistant for a calorie tracking app.

Estimate the nutrition of the following food, as actually consumed:

"%s"

Output ONLY a valid JSON object matching this exact schema:
{
  "name": "<short food name>",
  "amount": <estimated amount consumed>,
  "unit": "<g|ml|piece>",
  "calories": <kcal for the whole amount>,
  "protein": <grams>,
  "carbohydrates": <grams>,
  "fat": <grams>,
  "sugar": <grams>,
  "fibre": <grams>,
  "sodium": <milligrams>,
  "micronutrients": {"<id>": <amount>},
  "confidence": <0 to 1>,
  "notes": "<one short sentence>"
}

Rules:
- All values are for the whole consumed amount, not per 100.
- Omit any field you cannot estimate; never write null or 0 for unknown.
- Micronutrient ids and units: %s.
- Output ONLY the JSON, no markdown, no explanations.`, description, nutrientKeyHint())
}

func labelPrompt() string {
	return fmt.Sprintf(`You are reading a photographed nutrition label for a calorie tracking app.

Transcribe the label into per-reference values (the label's own basis, usually 100 g or 100 ml).

Output ONLY a valid JSON object matching this exact schema:
{
  "name": "<product name>",
  "brand": "<brand>",
  "referenceAmount": <number, usually 100>,
  "referenceUnit": "<g|ml|piece>",
  "calories": <kcal per reference amount>,
  "protein": <grams>,
  "carbohydrates": <grams>,
  "fat": <grams>,
  "saturatedFat": <grams>,
  "fibre": <grams>,
  "naturalSugar": <grams>,
  "addedSugar": <grams>,
  "sodium": <milligrams>,
  "cholesterol": <milligrams>,
  "portionSize": <suggested portion in referenceUnit>,
  "micronutrients": {"<id>": <amount per reference amount>}
}

Rules:
- Transcribe what the label states; do not invent figures.
- Omit any field the label does not show; never write null or 0 for unknown.
- Micronutrient ids and units: %s.
- Output ONLY the JSON, no markdown, no explanations.`, nutrientKeyHint())
}

func buildAnalyzePrompt(date time.Time, entriesJSON string) string {
	return fmt.Sprintf(`You are a nutrition analyst for a calorie tracking app.

Estimate the total vitamin and mineral intake for everything eaten on %s:

%s

Output ONLY a valid JSON object matching this exact schema:
{
  "micronutrients": {"<id>": <day total>},
  "notes": "<one short sentence>"
}

Rules:
- Totals cover the whole day, across all listed foods.
- Include only nutrients you can meaningfully estimate; omit the rest.
- Micronutrient ids and units: %s.
- Output ONLY the JSON, no markdown, no explanations.`, date.Format("2006-01-02"), entriesJSON, nutrientKeyHint())
}

// nutrientKeyHint lists the catalog ids with their units so the model
// answers in the keys the mapper accepts.
func nutrientKeyHint() string {
	catalog := domain.DefaultCatalog()
	ids := catalog.IDs()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		def, _ := catalog.Get(id)
		parts = append(parts, fmt.Sprintf("%s (%s)", id, def.Unit))
	}
	return strings.Join(parts, ", ")
}

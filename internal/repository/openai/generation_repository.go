package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"denimatch/business/recommend"
	"denimatch/business/taste"
	"denimatch/domain"

	"github.com/go-playground/validator/v10"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

// GenerationRepository is the hosted-LLM collaborator: one blocking JSON
// round-trip per request, no retries. Callers degrade to stubs on error.
type GenerationRepository struct {
	client         *openai.Client
	validate       *validator.Validate
	model          string
	embeddingModel string
}

func NewGenerationRepository(cfg Config) (*GenerationRepository, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing openai api key")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &GenerationRepository{
		client:         &client,
		validate:       validator.New(),
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
	}, nil
}

// generatedCandidate is the boundary schema of one LLM candidate. Payloads
// failing validation reject the whole response rather than being trusted.
type generatedCandidate struct {
	Brand          string `json:"brand" validate:"required"`
	Model          string `json:"model" validate:"required"`
	EraInspiration string `json:"era_inspiration"`
	Fit            string `json:"fit" validate:"required"`
	Rise           string `json:"rise" validate:"required"`
	Wash           string `json:"wash" validate:"required"`
	StretchLevel   string `json:"stretch_level"`
	WhyEachPick    string `json:"why_each_pick"`
	AnchorLookID   *uint  `json:"anchor_look_id"`
	AnchorReason   string `json:"anchor_reason"`
}

const systemPrompt = `You are a denim stylist. You answer with a JSON array only, no prose.
Each element must have the fields: brand, model, era_inspiration, fit, rise,
wash, stretch_level, why_each_pick, anchor_look_id, anchor_reason.
anchor_look_id must be one of the offered anchor ids.`

func (r *GenerationRepository) GenerateCandidates(ctx context.Context, req recommend.GenerationRequest) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(r.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(req)),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("generation returned no choices")
	}

	candidates, err := r.parseCandidates(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	recs := make([]domain.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, domain.Recommendation{
			Brand:          c.Brand,
			Model:          c.Model,
			EraInspiration: c.EraInspiration,
			Fit:            c.Fit,
			Rise:           c.Rise,
			Wash:           c.Wash,
			StretchLevel:   c.StretchLevel,
			WhyPick:        c.WhyEachPick,
			AnchorLookID:   c.AnchorLookID,
			AnchorReason:   c.AnchorReason,
		})
	}

	return recs, nil
}

func (r *GenerationRepository) parseCandidates(content string) ([]generatedCandidate, error) {
	payload := extractJSONArray(content)
	if payload == "" {
		return nil, errors.New("generation output contains no JSON array")
	}

	var candidates []generatedCandidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse generation output: %w", err)
	}
	if len(candidates) == 0 {
		return nil, errors.New("generation output is empty")
	}

	for i, c := range candidates {
		if err := r.validate.Struct(&c); err != nil {
			return nil, fmt.Errorf("generation output violates schema at index %d: %w", i, err)
		}
	}

	return candidates, nil
}

func (r *GenerationRepository) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	resp, err := r.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(r.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding call failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding returned no data")
	}

	embedding := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float32(v)
	}

	return embedding, nil
}

func buildPrompt(req recommend.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d denim recommendations.\n", req.Count)

	if req.VibeName != "" {
		fmt.Fprintf(&b, "Vibe: %s. %s\n", req.VibeName, req.VibeDescription)
	}
	if len(req.AllowedFits) > 0 {
		fmt.Fprintf(&b, "Allowed fits: %s\n", strings.Join(req.AllowedFits, ", "))
	}
	if len(req.AllowedRises) > 0 {
		fmt.Fprintf(&b, "Allowed rises: %s\n", strings.Join(req.AllowedRises, ", "))
	}
	if len(req.PreferredWashes) > 0 {
		fmt.Fprintf(&b, "Preferred washes: %s\n", strings.Join(req.PreferredWashes, ", "))
	}

	if !req.Summary.Empty() {
		likes, dislikes := flattenSummary(req.Summary.Likes), flattenSummary(req.Summary.Dislikes)
		if len(likes) > 0 {
			fmt.Fprintf(&b, "The user likes: %s\n", strings.Join(likes, ", "))
		}
		if len(dislikes) > 0 {
			fmt.Fprintf(&b, "The user avoids: %s\n", strings.Join(dislikes, ", "))
		}
	}

	if len(req.Anchors) > 0 {
		b.WriteString("Anchor looks to draw inspiration from:\n")
		for _, a := range req.Anchors {
			fmt.Fprintf(&b, "- id=%d %s, %s: %s\n",
				a.Look.ID, a.Look.CelebrityName, a.Look.Title, a.Look.Description)
		}
	}

	if req.Notes != "" {
		fmt.Fprintf(&b, "Additional request: %s\n", req.Notes)
	}

	return b.String()
}

func flattenSummary(groups map[taste.Group][]string) []string {
	var keys []string
	for _, g := range taste.Groups {
		for _, key := range groups[g] {
			keys = append(keys, strings.ReplaceAll(key, "_", " "))
		}
	}
	return keys
}

// extractJSONArray tolerates markdown fences and prose around the array.
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

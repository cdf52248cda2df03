package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/calderon-ai/docintel-backend/pkg/config"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
)

// Client holds the pre-configured generative models the analysis layer uses.
// Each concern gets its own model handle so temperature and output format can
// be tuned independently.
type Client struct {
	EntityModel    *genai.GenerativeModel
	KeyPhraseModel *genai.GenerativeModel
	SentimentModel *genai.GenerativeModel
	DocumentModel  *genai.GenerativeModel

	baseClient *genai.Client
}

var errClientNotInitialized = errors.New("vertex client not initialized")

// NewClient creates the Vertex AI client and configures one model per analysis concern.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.VertexConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(gcp.ProjectID)
	region := strings.TrimSpace(gcp.Region)
	if projectID == "" || region == "" {
		return nil, errors.New("gcp project id and region are required")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("creating vertex client: %w", err)
	}

	client := &Client{
		EntityModel:    newJSONModel(baseClient, cfg.EntityModel),
		KeyPhraseModel: newJSONModel(baseClient, cfg.KeyPhraseModel),
		SentimentModel: newJSONModel(baseClient, cfg.SentimentModel),
		DocumentModel:  newJSONModel(baseClient, cfg.DocumentModel),
		baseClient:     baseClient,
	}

	if logg != nil {
		logg.Info(ctx, "vertex client initialized")
	}

	return client, nil
}

// newJSONModel configures a model for deterministic structured output.
func newJSONModel(base *genai.Client, name string) *genai.GenerativeModel {
	model := base.GenerativeModel(name)
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}
	return model
}

// GenerateJSON sends the prompt parts to the model and returns the raw JSON
// text of the first candidate.
func (c *Client) GenerateJSON(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	if c == nil || model == nil {
		return "", errClientNotInitialized
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := ExtractText(resp)
	if text == "" {
		return "", errors.New("model returned an empty response")
	}
	return text, nil
}

// ExtractText pulls the text of the first candidate, stripping markdown fences
// the model occasionally emits around JSON payloads.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ""
	}
	clean := strings.TrimSpace(string(txt))
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// Close releases the underlying client.
func (c *Client) Close() error {
	if c == nil || c.baseClient == nil {
		return nil
	}
	return c.baseClient.Close()
}

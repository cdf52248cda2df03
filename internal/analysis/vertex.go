package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/calderon-ai/docintel-backend/pkg/logger"
	"github.com/calderon-ai/docintel-backend/pkg/vertex"
	"github.com/google/uuid"
)

const documentJobTimeout = 5 * time.Minute

const entityPrompt = `Detect the named entities in the following text. Classify each as one of: PERSON, LOCATION, ORGANIZATION, DATE, QUANTITY, OTHER. Respond with a JSON array of objects with keys "text" (the entity as written), "type" (the classification), and "score" (confidence between 0 and 1). Respond with the JSON array only.

Text:
`

const keyPhrasePrompt = `Extract the key phrases from the following text. Respond with a JSON array of objects with keys "text" (the phrase as written) and "score" (confidence between 0 and 1). Respond with the JSON array only.

Text:
`

const sentimentPrompt = `Determine the overall sentiment of the following text. Respond with a single JSON object with keys "sentiment" (one of POSITIVE, NEGATIVE, NEUTRAL, MIXED) and "scores" (an object with keys "positive", "negative", "neutral", "mixed", each a probability between 0 and 1). Respond with the JSON object only.

Text:
`

// VertexProvider implements Provider on top of Vertex AI Gemini models.
type VertexProvider struct {
	client *vertex.Client
	logg   *logger.Logger
}

// NewVertexProvider wraps the configured Vertex client as an analysis Provider.
func NewVertexProvider(client *vertex.Client, logg *logger.Logger) (*VertexProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("vertex client required")
	}
	return &VertexProvider{client: client, logg: logg}, nil
}

// StartDocumentAnalysis submits the stored object to the document model and
// returns immediately with a job handle. The document-level pass runs in the
// background; the structured results the pipeline persists come from the
// text-level calls.
func (p *VertexProvider) StartDocumentAnalysis(ctx context.Context, bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}

	jobID := uuid.New().String()
	fileURI := fmt.Sprintf("gs://%s/%s", bucket, key)
	filePart := genai.FileData{
		MIMEType: contentTypeForKey(key),
		FileURI:  fileURI,
	}

	go func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), documentJobTimeout)
		defer cancel()

		_, err := p.client.GenerateJSON(jobCtx, p.client.DocumentModel,
			filePart,
			genai.Text("Summarize the document as a JSON object with keys \"summary\" and \"topics\"."),
		)
		if err != nil && p.logg != nil {
			logCtx := p.logg.WithFields(jobCtx, map[string]any{
				"job_id": jobID,
				"object": fileURI,
			})
			p.logg.Warn(logCtx, "document analysis job failed")
		}
	}()

	return jobID, nil
}

func (p *VertexProvider) DetectEntities(ctx context.Context, text, languageCode string) ([]Entity, error) {
	raw, err := p.client.GenerateJSON(ctx, p.client.EntityModel,
		genai.Text(withLanguage(entityPrompt, languageCode)+text),
	)
	if err != nil {
		return nil, fmt.Errorf("detect entities: %w", err)
	}
	return parseEntities(raw)
}

func (p *VertexProvider) DetectKeyPhrases(ctx context.Context, text, languageCode string) ([]KeyPhrase, error) {
	raw, err := p.client.GenerateJSON(ctx, p.client.KeyPhraseModel,
		genai.Text(withLanguage(keyPhrasePrompt, languageCode)+text),
	)
	if err != nil {
		return nil, fmt.Errorf("detect key phrases: %w", err)
	}
	return parseKeyPhrases(raw)
}

func (p *VertexProvider) DetectSentiment(ctx context.Context, text, languageCode string) (Sentiment, error) {
	raw, err := p.client.GenerateJSON(ctx, p.client.SentimentModel,
		genai.Text(withLanguage(sentimentPrompt, languageCode)+text),
	)
	if err != nil {
		return Sentiment{}, fmt.Errorf("detect sentiment: %w", err)
	}
	return parseSentiment(raw)
}

func withLanguage(prompt, languageCode string) string {
	code := strings.TrimSpace(languageCode)
	if code == "" {
		return prompt
	}
	return fmt.Sprintf("The text is in language %q. %s", code, prompt)
}

func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func parseEntities(raw string) ([]Entity, error) {
	var entities []Entity
	if err := json.Unmarshal([]byte(raw), &entities); err != nil {
		return nil, fmt.Errorf("parsing entity response: %w", err)
	}
	out := entities[:0]
	for _, e := range entities {
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" {
			continue
		}
		e.Type = normalizeEntityType(e.Type)
		e.Score = clampScore(e.Score)
		out = append(out, e)
	}
	return out, nil
}

func parseKeyPhrases(raw string) ([]KeyPhrase, error) {
	var phrases []KeyPhrase
	if err := json.Unmarshal([]byte(raw), &phrases); err != nil {
		return nil, fmt.Errorf("parsing key phrase response: %w", err)
	}
	out := phrases[:0]
	for _, kp := range phrases {
		kp.Text = strings.TrimSpace(kp.Text)
		if kp.Text == "" {
			continue
		}
		kp.Score = clampScore(kp.Score)
		out = append(out, kp)
	}
	return out, nil
}

func parseSentiment(raw string) (Sentiment, error) {
	var sentiment Sentiment
	if err := json.Unmarshal([]byte(raw), &sentiment); err != nil {
		return Sentiment{}, fmt.Errorf("parsing sentiment response: %w", err)
	}
	sentiment.Label = normalizeSentimentLabel(sentiment.Label)
	sentiment.Scores.Positive = clampScore(sentiment.Scores.Positive)
	sentiment.Scores.Negative = clampScore(sentiment.Scores.Negative)
	sentiment.Scores.Neutral = clampScore(sentiment.Scores.Neutral)
	sentiment.Scores.Mixed = clampScore(sentiment.Scores.Mixed)
	return sentiment, nil
}

func normalizeEntityType(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case EntityTypePerson:
		return EntityTypePerson
	case EntityTypeLocation:
		return EntityTypeLocation
	case EntityTypeOrganization:
		return EntityTypeOrganization
	case EntityTypeDate:
		return EntityTypeDate
	case EntityTypeQuantity:
		return EntityTypeQuantity
	default:
		return EntityTypeOther
	}
}

func normalizeSentimentLabel(label string) string {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentMixed:
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

package analysis

import "context"

// Provider is the AI analysis collaborator the ingestion pipeline drives. The
// pipeline treats it as a black box: any error aborts the run.
type Provider interface {
	// StartDocumentAnalysis submits the stored object for asynchronous
	// document-level analysis and returns the provider's job handle.
	StartDocumentAnalysis(ctx context.Context, bucket, key string) (string, error)

	DetectEntities(ctx context.Context, text, languageCode string) ([]Entity, error)
	DetectKeyPhrases(ctx context.Context, text, languageCode string) ([]KeyPhrase, error)
	DetectSentiment(ctx context.Context, text, languageCode string) (Sentiment, error)
}

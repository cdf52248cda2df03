package analysis

// Entity is a named thing detected in document text.
type Entity struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// Entity types the provider is asked to classify into.
const (
	EntityTypePerson       = "PERSON"
	EntityTypeLocation     = "LOCATION"
	EntityTypeOrganization = "ORGANIZATION"
	EntityTypeDate         = "DATE"
	EntityTypeQuantity     = "QUANTITY"
	EntityTypeOther        = "OTHER"
)

// KeyPhrase is a noteworthy phrase detected in document text.
type KeyPhrase struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Sentiment labels the overall tone of the text with per-class scores.
type Sentiment struct {
	Label  string          `json:"sentiment"`
	Scores SentimentScores `json:"scores"`
}

type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// Sentiment labels.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentMixed    = "MIXED"
)

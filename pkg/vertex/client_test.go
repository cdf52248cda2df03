package vertex

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"
)

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text("```json\n[{\"text\":\"hello\"}]\n```")},
			},
		}},
	}

	got := ExtractText(resp)
	if got != `[{"text":"hello"}]` {
		t.Fatalf("unexpected extracted text %q", got)
	}
}

func TestExtractTextEmpty(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"no parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractText(tc.resp); got != "" {
				t.Fatalf("expected empty, got %q", got)
			}
		})
	}
}

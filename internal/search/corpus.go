package search

import "context"

// StaticCorpus is a fixed in-memory corpus source.
type StaticCorpus struct {
	results []Result
}

// NewStaticCorpus wraps the given results as a corpus source.
func NewStaticCorpus(results []Result) *StaticCorpus {
	return &StaticCorpus{results: results}
}

func (c *StaticCorpus) Corpus(_ context.Context) ([]Result, error) {
	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out, nil
}

// DemoCorpus returns the sample corpus the demo deployment serves.
func DemoCorpus() *StaticCorpus {
	return NewStaticCorpus([]Result{
		{
			DocumentID: "sample-001",
			Title:      "NY Giants 2023 Season Review",
			Type:       "season_report",
			Excerpt:    "The Giants finished the 2023 season with a 6-11 record under head coach Brian Daboll...",
			Date:       "2024-01-15",
			Relevance:  0.95,
		},
		{
			DocumentID: "sample-002",
			Title:      "Saquon Barkley Career Statistics",
			Type:       "player_stats",
			Excerpt:    "Running back Saquon Barkley has accumulated over 5,000 rushing yards...",
			Date:       "2024-02-20",
			Relevance:  0.88,
		},
		{
			DocumentID: "sample-003",
			Title:      "Giants Draft Analysis 2024",
			Type:       "draft_report",
			Excerpt:    "The Giants selected LSU wide receiver Malik Nabers with the 6th overall pick...",
			Date:       "2024-04-26",
			Relevance:  0.92,
		},
		{
			DocumentID: "sample-004",
			Title:      "MetLife Stadium Attendance Report",
			Type:       "stadium_report",
			Excerpt:    "Average attendance at MetLife Stadium for Giants games was 78,204...",
			Date:       "2024-01-30",
			Relevance:  0.75,
		},
		{
			DocumentID: "sample-005",
			Title:      "Daniel Jones Contract Extension Details",
			Type:       "contract_news",
			Excerpt:    "Quarterback Daniel Jones signed a 4-year, $160 million extension...",
			Date:       "2023-03-07",
			Relevance:  0.83,
		},
	})
}

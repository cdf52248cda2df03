package extraction

import (
	"regexp"
	"strings"

	"github.com/calderon-ai/docintel-backend/internal/analysis"
)

// Report is the structured data derived from a document's text and its
// detected entities.
type Report struct {
	Subjects     []string `json:"subjects"`
	Staff        []string `json:"staff"`
	Seasons      []string `json:"seasons"`
	Venues       []string `json:"venues"`
	Counterparts []string `json:"counterparts"`
	Stats        Stats    `json:"stats"`
}

// Stats holds the numeric facts pulled straight out of the text.
type Stats struct {
	Records []string `json:"records,omitempty"`
}

// Extractor derives structured report data. Implementations must be pure
// functions of their inputs.
type Extractor interface {
	Extract(text string, entities []analysis.Entity, phrases []analysis.KeyPhrase) Report
}

// Config carries the keyword sets the report extractor classifies with. Each
// deployment tunes these to its document domain.
type Config struct {
	// StaffKeywords mark a PERSON entity as staff rather than subject.
	StaffKeywords []string
	// VenueKeywords mark a LOCATION entity as a venue.
	VenueKeywords []string
	// SeasonTokens mark a DATE entity as a season of interest.
	SeasonTokens []string
	// CounterpartNames are matched against the raw text.
	CounterpartNames []string
}

// DefaultConfig returns the keyword sets for sports season reports, the
// corpus the demo deployment ships with.
func DefaultConfig() Config {
	return Config{
		StaffKeywords: []string{"coach", "Coach"},
		VenueKeywords: []string{"Stadium"},
		SeasonTokens:  []string{"2023", "2022", "2021"},
		CounterpartNames: []string{
			"Cowboys", "Eagles", "Commanders", "Packers", "Bears", "Lions",
			"Vikings", "Patriots", "Bills", "Dolphins", "Jets",
		},
	}
}

var recordPattern = regexp.MustCompile(`\d{1,2}-\d{1,2}`)

type reportExtractor struct {
	cfg Config
}

// NewReportExtractor builds the default keyword-driven extractor.
func NewReportExtractor(cfg Config) Extractor {
	return &reportExtractor{cfg: cfg}
}

func (e *reportExtractor) Extract(text string, entities []analysis.Entity, phrases []analysis.KeyPhrase) Report {
	report := Report{
		Subjects:     []string{},
		Staff:        []string{},
		Seasons:      []string{},
		Venues:       []string{},
		Counterparts: []string{},
	}

	for _, entity := range entities {
		switch entity.Type {
		case analysis.EntityTypePerson:
			if containsAny(entity.Text, e.cfg.StaffKeywords) {
				report.Staff = append(report.Staff, entity.Text)
			} else {
				report.Subjects = append(report.Subjects, entity.Text)
			}
		case analysis.EntityTypeLocation:
			if containsAny(entity.Text, e.cfg.VenueKeywords) {
				report.Venues = append(report.Venues, entity.Text)
			}
		case analysis.EntityTypeDate:
			if containsAny(entity.Text, e.cfg.SeasonTokens) {
				report.Seasons = append(report.Seasons, entity.Text)
			}
		}
	}

	for _, name := range e.cfg.CounterpartNames {
		if strings.Contains(text, name) {
			report.Counterparts = append(report.Counterparts, name)
		}
	}

	if strings.Contains(strings.ToLower(text), "record") {
		if records := recordPattern.FindAllString(text, -1); len(records) > 0 {
			report.Stats.Records = records
		}
	}

	return report
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

package extraction

import (
	"reflect"
	"testing"

	"github.com/calderon-ai/docintel-backend/internal/analysis"
)

const sampleText = `The team finished the 2023 season with a 6-11 record under head coach
Brian Daboll. Notable games included the Week 1 victory over the Cowboys and
the upset win against the Packers in December at MetLife Stadium.`

func sampleEntities() []analysis.Entity {
	return []analysis.Entity{
		{Text: "Brian Daboll", Type: analysis.EntityTypePerson, Score: 0.99},
		{Text: "head coach Brian Daboll", Type: analysis.EntityTypePerson, Score: 0.9},
		{Text: "Daniel Jones", Type: analysis.EntityTypePerson, Score: 0.98},
		{Text: "MetLife Stadium", Type: analysis.EntityTypeLocation, Score: 0.97},
		{Text: "December", Type: analysis.EntityTypeDate, Score: 0.92},
		{Text: "2023 season", Type: analysis.EntityTypeDate, Score: 0.95},
	}
}

func TestExtractClassifiesEntities(t *testing.T) {
	extractor := NewReportExtractor(DefaultConfig())

	report := extractor.Extract(sampleText, sampleEntities(), nil)

	if !reflect.DeepEqual(report.Staff, []string{"head coach Brian Daboll"}) {
		t.Fatalf("unexpected staff %v", report.Staff)
	}
	if !reflect.DeepEqual(report.Subjects, []string{"Brian Daboll", "Daniel Jones"}) {
		t.Fatalf("unexpected subjects %v", report.Subjects)
	}
	if !reflect.DeepEqual(report.Venues, []string{"MetLife Stadium"}) {
		t.Fatalf("unexpected venues %v", report.Venues)
	}
	if !reflect.DeepEqual(report.Seasons, []string{"2023 season"}) {
		t.Fatalf("unexpected seasons %v", report.Seasons)
	}
}

func TestExtractCounterpartsAndRecords(t *testing.T) {
	extractor := NewReportExtractor(DefaultConfig())

	report := extractor.Extract(sampleText, nil, nil)

	if !reflect.DeepEqual(report.Counterparts, []string{"Cowboys", "Packers"}) {
		t.Fatalf("unexpected counterparts %v", report.Counterparts)
	}
	if !reflect.DeepEqual(report.Stats.Records, []string{"6-11"}) {
		t.Fatalf("unexpected records %v", report.Stats.Records)
	}
}

func TestExtractRecordsRequireKeyword(t *testing.T) {
	extractor := NewReportExtractor(DefaultConfig())

	// Digits alone should not be treated as win-loss records.
	report := extractor.Extract("the score was 6-11 in the final", nil, nil)

	if report.Stats.Records != nil {
		t.Fatalf("expected no records without the keyword, got %v", report.Stats.Records)
	}
}

func TestExtractDeterministic(t *testing.T) {
	extractor := NewReportExtractor(DefaultConfig())

	first := extractor.Extract(sampleText, sampleEntities(), nil)
	second := extractor.Extract(sampleText, sampleEntities(), nil)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("extractor output is not deterministic")
	}
}

func TestExtractEmptyInputs(t *testing.T) {
	extractor := NewReportExtractor(DefaultConfig())

	report := extractor.Extract("", nil, nil)

	if len(report.Subjects) != 0 || len(report.Counterparts) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

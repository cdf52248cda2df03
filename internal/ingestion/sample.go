package ingestion

import "context"

// StaticTextSource returns a fixed text sample.
type StaticTextSource struct {
	text string
}

// NewStaticTextSource wraps the given text as a TextSource.
func NewStaticTextSource(text string) *StaticTextSource {
	return &StaticTextSource{text: text}
}

func (s *StaticTextSource) Sample(_ context.Context) (string, error) {
	return s.text, nil
}

// DemoTextSource returns the sample season report the demo deployment falls
// back to when an upload cannot be read.
func DemoTextSource() *StaticTextSource {
	return NewStaticTextSource(`
New York Giants 2023 Season Report

The Giants finished the 2023 season with a 6-11 record under head coach Brian Daboll.
Key players included quarterback Daniel Jones, running back Saquon Barkley, and
defensive tackle Dexter Lawrence. The team showed promise early but struggled with
injuries throughout the season. MetLife Stadium remained a fortress for the team
with several memorable home victories.

Notable games included the Week 1 victory over the Cowboys and the upset win against
the Packers in December. The offensive line improved significantly from the previous
season, while the defense ranked in the top 10 for total yards allowed.

Looking ahead to 2024, the Giants have significant cap space and multiple draft picks
to address needs at cornerback and offensive line.
`)
}

package colour

import "fmt"

// Centrality identifies the statistic used to pick representative colours
// from an image's pixels.
type Centrality string

const (
	// CentralityAverage takes the channel-wise mean of all pixels.
	CentralityAverage Centrality = "average"

	// CentralityMedian takes the channel-wise median of all pixels.
	CentralityMedian Centrality = "median"

	// CentralityPrevalent takes the most frequently occurring pixels.
	CentralityPrevalent Centrality = "prevalent"
)

// ValidCentralities returns the recognised centrality measures.
func ValidCentralities() []Centrality {
	return []Centrality{
		CentralityAverage,
		CentralityMedian,
		CentralityPrevalent,
	}
}

// String implements fmt.Stringer. The string form is also the persisted
// form in the cache, so it must stay stable.
func (c Centrality) String() string {
	return string(c)
}

// ParseCentrality converts a string to a Centrality.
// Returns an error for unrecognised values.
func ParseCentrality(s string) (Centrality, error) {
	for _, valid := range ValidCentralities() {
		if s == string(valid) {
			return valid, nil
		}
	}
	return "", fmt.Errorf("unknown centrality: %q (valid centralities: %v)", s, ValidCentralities())
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Metric is a provider number that may be reported as "NA".
type Metric struct {
	Value float64
	Valid bool
}

func Num(v float64) Metric { return Metric{Value: v, Valid: true} }

// NA is the "not available" sentinel.
var NA = Metric{}

func (m Metric) String() string {
	if !m.Valid {
		return "NA"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Float returns the value and whether it is numeric.
func (m Metric) Float() (float64, bool) { return m.Value, m.Valid }

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte(`"NA"`), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = NA
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "N/A") {
			*m = NA
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("metric: unexpected string %q", s)
		}
		*m = Num(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	*m = Num(f)
	return nil
}

type KeywordRecord struct {
	Keyword     string `json:"keyword"`
	Volume      Metric `json:"volume"`
	CPC         Metric `json:"cpc"`
	Competition Metric `json:"competition"`
	KGR         Metric `json:"kgr"`
	Allintitle  Metric `json:"allintitle"`
}

type QuestionRecord struct {
	Keyword      string `json:"keyword"`
	QuestionType string `json:"question_type"`
	Volume       Metric `json:"volume"`
	Depth        int    `json:"depth"`
}

type ClusterRecord struct {
	Article string `json:"article"`
	Keyword string `json:"keyword"`
	Volume  Metric `json:"volume"`
	V1      string `json:"V1"`
	V2      string `json:"V2"`
	V3      string `json:"V3"`
	V4      string `json:"V4,omitempty"`
}

type TopSite struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
}

type SerpEntry struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
	Title    string `json:"title"`
}

type SeedMetrics struct {
	Volume     Metric `json:"volume"`
	KGR        Metric `json:"kgr"`
	Allintitle Metric `json:"allintitle"`
}

// KeywordDataBundle is the merged keyword-research view of one seed topic.
// It is rebuilt for every run and only persisted alongside a generation run.
type KeywordDataBundle struct {
	SeedKeyword      string           `json:"seedKeyword"`
	Metrics          *SeedMetrics     `json:"metrics,omitempty"`
	SimilarKeywords  []KeywordRecord  `json:"similarKeywords"`
	MatchingKeywords []KeywordRecord  `json:"matchingKeywords"`
	RelatedKeywords  []KeywordRecord  `json:"relatedKeywords"`
	Questions        []QuestionRecord `json:"questions"`
	Clusters         []ClusterRecord  `json:"clusters"`
	TopSites         []TopSite        `json:"topSites"`
	Serp             []SerpEntry      `json:"serp"`
}

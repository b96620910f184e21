package prompts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Berguit/topical-map-app/internal/domain"
)

const NoData = "No data available"

const (
	defaultKeywordLimit  = 20
	defaultQuestionLimit = 15
	clusterGroupLimit    = 10
	clusterItemLimit     = 5
	serpLimit            = 10
	opportunityKGR       = 0.25
	opportunityLimit     = 15
	highVolumeThreshold  = 500
	highVolumeLimit      = 10
)

var funcMap = template.FuncMap{
	"keywords":      FormatKeywordList,
	"questions":     FormatQuestionsList,
	"clusters":      FormatClustersList,
	"serp":          FormatSerpList,
	"topSites":      FormatTopSites,
	"opportunities": FormatOpportunityKeywords,
	"highVolume":    FormatHighVolumeKeywords,
	"objectives":    FormatObjectives,
	"json":          PrettyJSON,
}

func FormatKeywordList(list []domain.KeywordRecord, limit int) string {
	if len(list) == 0 {
		return NoData
	}
	if limit <= 0 {
		limit = defaultKeywordLimit
	}
	lines := make([]string, 0, min(limit, len(list)))
	for i, k := range list {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("- \"%s\" (vol: %s, KGR: %s, CPC: %s)", k.Keyword, k.Volume, k.KGR, k.CPC))
	}
	return strings.Join(lines, "\n")
}

func FormatQuestionsList(list []domain.QuestionRecord, limit int) string {
	if len(list) == 0 {
		return NoData
	}
	if limit <= 0 {
		limit = defaultQuestionLimit
	}
	lines := make([]string, 0, min(limit, len(list)))
	for i, q := range list {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("- [%s] \"%s\" (vol: %s)", q.QuestionType, q.Keyword, q.Volume))
	}
	return strings.Join(lines, "\n")
}

// FormatClustersList groups rows by their top-level category, keeping the
// order in which categories first appear.
func FormatClustersList(list []domain.ClusterRecord) string {
	if len(list) == 0 {
		return NoData
	}
	order := make([]string, 0)
	groups := make(map[string][]domain.ClusterRecord)
	for _, c := range list {
		key := c.V1
		if key == "" {
			key = "Other"
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}
	if len(order) > clusterGroupLimit {
		order = order[:clusterGroupLimit]
	}
	blocks := make([]string, 0, len(order))
	for _, cat := range order {
		items := groups[cat]
		if len(items) > clusterItemLimit {
			items = items[:clusterItemLimit]
		}
		lines := make([]string, 0, len(items))
		for _, it := range items {
			lines = append(lines, fmt.Sprintf("    - \"%s\" (vol: %s)", it.Keyword, it.Volume))
		}
		blocks = append(blocks, fmt.Sprintf("**%s**:\n%s", cat, strings.Join(lines, "\n")))
	}
	return strings.Join(blocks, "\n\n")
}

func FormatSerpList(list []domain.SerpEntry) string {
	if len(list) == 0 {
		return NoData
	}
	lines := make([]string, 0, min(serpLimit, len(list)))
	for i, s := range list {
		if i >= serpLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s", s.Position, s.Title, s.URL))
	}
	return strings.Join(lines, "\n")
}

func FormatTopSites(list []domain.TopSite, limit int) string {
	if len(list) == 0 {
		return "Not available"
	}
	lines := make([]string, 0, min(limit, len(list)))
	for i, s := range list {
		if i >= limit {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s (score: %s)", s.Domain, strconv.FormatFloat(s.Score, 'f', -1, 64)))
	}
	return strings.Join(lines, "\n")
}

// FormatOpportunityKeywords lists keywords with a numeric KGR under 0.25.
func FormatOpportunityKeywords(list []domain.KeywordRecord) string {
	lines := make([]string, 0)
	for _, k := range list {
		if len(lines) >= opportunityLimit {
			break
		}
		kgr, ok := k.KGR.Float()
		if !ok || kgr >= opportunityKGR {
			continue
		}
		lines = append(lines, fmt.Sprintf("- \"%s\" (vol: %s, KGR: %s) OPPORTUNITY", k.Keyword, k.Volume, k.KGR))
	}
	if len(lines) == 0 {
		return "No KGR opportunity detected"
	}
	return strings.Join(lines, "\n")
}

func FormatHighVolumeKeywords(list []domain.KeywordRecord) string {
	lines := make([]string, 0)
	for _, k := range list {
		if len(lines) >= highVolumeLimit {
			break
		}
		vol, ok := k.Volume.Float()
		if !ok || vol <= highVolumeThreshold {
			continue
		}
		lines = append(lines, fmt.Sprintf("- \"%s\" (vol: %s)", k.Keyword, k.Volume))
	}
	if len(lines) == 0 {
		return "Not enough volume data"
	}
	return strings.Join(lines, "\n")
}

func FormatObjectives(objectives []string) string {
	out := make([]string, 0, len(objectives))
	for _, o := range objectives {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return "Not specified"
	}
	return strings.Join(out, ", ")
}

// PrettyJSON renders a prior stage result with two-space indentation.
func PrettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

package keyworddata

import (
	"github.com/Berguit/topical-map-app/internal/domain"
	"github.com/Berguit/topical-map-app/internal/platform/haloscan"
)

func applyOverview(b *domain.KeywordDataBundle, o *haloscan.OverviewResponse) {
	if o == nil {
		return
	}
	if m := o.SEOMetrics; m != nil {
		b.Metrics = &domain.SeedMetrics{
			Volume:     m.Volume,
			KGR:        m.KGR,
			Allintitle: m.AllintitleCount,
		}
	}
	if o.SimilarHighlight != nil {
		b.SimilarKeywords = keywordRecords(o.SimilarHighlight.Results)
	}
	if o.KeywordMatch != nil {
		b.MatchingKeywords = keywordRecords(o.KeywordMatch.Results)
	}
	if o.TopSites != nil {
		for _, s := range o.TopSites.Results {
			b.TopSites = append(b.TopSites, domain.TopSite{Domain: s.Domain, Score: s.Score})
		}
	}
	if o.Serp != nil {
		for _, s := range o.Serp.Results.Serp {
			b.Serp = append(b.Serp, domain.SerpEntry{Position: s.Position, URL: s.URL, Title: s.Title})
		}
	}
}

func keywordRecords(in []haloscan.KeywordResult) []domain.KeywordRecord {
	out := make([]domain.KeywordRecord, 0, len(in))
	for _, k := range in {
		out = append(out, domain.KeywordRecord{
			Keyword:     k.Keyword,
			Volume:      k.Volume,
			CPC:         k.CPC,
			Competition: k.Competition,
			KGR:         k.KGR,
			Allintitle:  k.Allintitle,
		})
	}
	return out
}

func questionRecords(in []haloscan.QuestionResult) []domain.QuestionRecord {
	out := make([]domain.QuestionRecord, 0, len(in))
	for _, q := range in {
		out = append(out, domain.QuestionRecord{
			Keyword:      q.Keyword,
			QuestionType: q.QuestionType,
			Volume:       q.Volume,
			Depth:        q.Depth,
		})
	}
	return out
}

func clusterRecords(in []haloscan.SiteStructureRow) []domain.ClusterRecord {
	out := make([]domain.ClusterRecord, 0, len(in))
	for _, r := range in {
		out = append(out, domain.ClusterRecord{
			Article: r.Article,
			Keyword: r.Keyword,
			Volume:  r.Volume,
			V1:      r.V1,
			V2:      r.V2,
			V3:      r.V3,
			V4:      r.V4,
		})
	}
	return out
}

// normalize replaces nil lists so the bundle always serialises arrays.
func normalize(b *domain.KeywordDataBundle) {
	if b.SimilarKeywords == nil {
		b.SimilarKeywords = []domain.KeywordRecord{}
	}
	if b.MatchingKeywords == nil {
		b.MatchingKeywords = []domain.KeywordRecord{}
	}
	if b.RelatedKeywords == nil {
		b.RelatedKeywords = []domain.KeywordRecord{}
	}
	if b.Questions == nil {
		b.Questions = []domain.QuestionRecord{}
	}
	if b.Clusters == nil {
		b.Clusters = []domain.ClusterRecord{}
	}
	if b.TopSites == nil {
		b.TopSites = []domain.TopSite{}
	}
	if b.Serp == nil {
		b.Serp = []domain.SerpEntry{}
	}
}

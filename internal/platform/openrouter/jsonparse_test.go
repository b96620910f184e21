package openrouter

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Berguit/topical-map-app/internal/domain"
)

func TestParseJSONResponseFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"plain", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```"},
		{"bare fence", "```\n{\"a\":1}\n```"},
		{"padded", "  \n```json {\"a\":1}```  \n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				A int `json:"a"`
			}
			if err := ParseJSONResponse(tc.in, &out); err != nil {
				t.Fatalf("ParseJSONResponse: %v", err)
			}
			if out.A != 1 {
				t.Fatalf("a=%d", out.A)
			}
		})
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	in := `{"nodes": []}`
	once := StripFences(in)
	if once != in {
		t.Fatalf("once=%q", once)
	}
	if StripFences(once) != once {
		t.Fatalf("not idempotent")
	}
}

func TestParseErrorPreview(t *testing.T) {
	long := "not json " + strings.Repeat("é", 800)
	var out map[string]any
	err := ParseJSONResponse(long, &out)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if n := len([]rune(pe.Preview)); n != 500 {
		t.Fatalf("preview runes=%d", n)
	}
	if pe.Err == nil {
		t.Fatalf("missing cause")
	}
}

func roundTrip[T any](t *testing.T, in T) {
	t.Helper()
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, text := range []string{string(raw), "```json\n" + string(raw) + "\n```"} {
		var out T
		if err := ParseJSONResponse(text, &out); err != nil {
			t.Fatalf("ParseJSONResponse: %v", err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
		}
	}
}

func TestParseJSONResponseRoundTripsStageResults(t *testing.T) {
	vol, kgr := 5400.0, 0.12
	projectID := uuid.New()
	pillarID, clusterID := uuid.NewString(), uuid.NewString()

	roundTrip(t, domain.TopicalMap{
		ID:        uuid.New(),
		ProjectID: projectID,
		Nodes: []domain.TopicalMapNode{
			{
				ID:          pillarID,
				Type:        domain.NodePillar,
				Title:       "Visa Schengen",
				Description: "Everything about the Schengen visa",
				Intent:      domain.IntentInformational,
				FiveWH:      []domain.FiveWH{domain.FiveWHWhat, domain.FiveWHWho},
				Keywords: []domain.NodeKeyword{
					{Keyword: "visa schengen", Volume: &vol, KGR: &kgr, IsMain: true, Source: domain.SourceHaloscan},
					{Keyword: "schengen area", Source: domain.SourceGenerated},
				},
				PAAQuestions:           []string{"how long is a schengen visa valid?"},
				BasedOnHaloscanCluster: "Visa",
				Position:               domain.Position{X: 100, Y: 0},
			},
			{
				ID:           clusterID,
				Type:         domain.NodeCluster,
				Title:        "Prix",
				Intent:       domain.IntentCommercial,
				Keywords:     []domain.NodeKeyword{},
				PAAQuestions: []string{},
				Position:     domain.Position{X: 100, Y: 200},
			},
		},
		Edges: []domain.TopicalMapEdge{
			{ID: uuid.NewString(), Source: pillarID, Target: clusterID, Type: domain.EdgeHierarchical},
		},
	})

	roundTrip(t, domain.EAVModel{
		ID:        uuid.New(),
		ProjectID: projectID,
		Entities: []domain.Entity{
			{
				ID:           uuid.New(),
				Name:         "Visa Schengen",
				Type:         domain.EntityProduct,
				Description:  "Short stay visa",
				IsMainEntity: true,
				KeyAttributes: []domain.Attribute{
					{ID: uuid.New(), Name: "Duration", ValueType: domain.ValueNumber, IsKey: true, RelatedKeywords: []string{"visa schengen duree"}},
				},
				StandardAttributes: []domain.Attribute{},
			},
		},
		Relations: []domain.EntityRelation{
			{ID: uuid.New(), SourceEntityID: "Visa Schengen", TargetEntityID: "Consulate", RelationType: domain.RelationRequires},
		},
	})

	roundTrip(t, domain.KeywordDataBundle{
		SeedKeyword: "visa schengen",
		Metrics:     &domain.SeedMetrics{Volume: domain.Num(12000), KGR: domain.NA, Allintitle: domain.Num(3600)},
		SimilarKeywords: []domain.KeywordRecord{
			{Keyword: "visa schengen", Volume: domain.Num(800), CPC: domain.NA, Competition: domain.NA, KGR: domain.Num(0.1), Allintitle: domain.NA},
		},
		MatchingKeywords: []domain.KeywordRecord{},
		RelatedKeywords:  []domain.KeywordRecord{},
		Questions:        []domain.QuestionRecord{{Keyword: "comment obtenir un visa", QuestionType: "how", Volume: domain.NA, Depth: 1}},
		Clusters:         []domain.ClusterRecord{{Article: "Durée", Keyword: "visa schengen duree", Volume: domain.Num(300), V1: "Durée"}},
		TopSites:         []domain.TopSite{{Domain: "a.example", Score: 42.5}},
		Serp:             []domain.SerpEntry{{Position: 1, URL: "https://a.example", Title: "A"}},
	})
}

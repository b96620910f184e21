package haloscan

import "github.com/Berguit/topical-map-app/internal/domain"

// BaseResponse is embedded in every payload. A non-empty FailureReason on a
// 2xx reply means the request was rejected.
type BaseResponse struct {
	ResponseTime  string `json:"response_time,omitempty"`
	ResponseCode  any    `json:"response_code,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func (b BaseResponse) failure() string { return b.FailureReason }

type failureCarrier interface{ failure() string }

type KeywordResult struct {
	Keyword       string        `json:"keyword"`
	Volume        domain.Metric `json:"volume"`
	CPC           domain.Metric `json:"cpc"`
	Competition   domain.Metric `json:"competition"`
	KGR           domain.Metric `json:"kgr"`
	Allintitle    domain.Metric `json:"allintitle"`
	GoogleIndexed domain.Metric `json:"google_indexed"`
	WordCount     domain.Metric `json:"word_count"`
}

// ---------------- Overview ----------------

type OverviewRequest struct {
	Keyword       string   `json:"keyword"`
	RequestedData []string `json:"requested_data"`
	Lang          string   `json:"lang,omitempty"`
}

// KeywordList holds the similar_highlight and keyword_match rows. Rows carry
// whatever metrics the API reports; absent ones decode as NA.
type KeywordList struct {
	Results []KeywordResult `json:"results"`
}

type SerpResult struct {
	Position    int    `json:"position"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type OverviewSerp struct {
	SerpDate string `json:"serp_date,omitempty"`
	Results  struct {
		Serp []SerpResult `json:"serp"`
	} `json:"results"`
}

type TopSite struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
}

type SEOMetrics struct {
	ResultsCount    domain.Metric `json:"results_count"`
	AllintitleCount domain.Metric `json:"allintitle_count"`
	Volume          domain.Metric `json:"volume"`
	KeywordCount    domain.Metric `json:"keyword_count"`
	KGR             domain.Metric `json:"kgr"`
}

type AdsMetrics struct {
	Volume      domain.Metric `json:"volume"`
	CPC         domain.Metric `json:"cpc"`
	Competition domain.Metric `json:"competition"`
}

type OverviewResponse struct {
	BaseResponse
	Keyword          string        `json:"keyword"`
	Errors           []any         `json:"errors,omitempty"`
	SimilarHighlight *KeywordList  `json:"similar_highlight,omitempty"`
	KeywordMatch     *KeywordList  `json:"keyword_match,omitempty"`
	Serp             *OverviewSerp `json:"serp,omitempty"`
	TopSites         *struct {
		Results []TopSite `json:"results"`
	} `json:"top_sites,omitempty"`
	SEOMetrics *SEOMetrics `json:"seo_metrics,omitempty"`
	AdsMetrics *AdsMetrics `json:"ads_metrics,omitempty"`
}

// ---------------- Keyword search family ----------------

// KeywordSearchRequest is shared by match, similar, highlights, related and
// synonyms. Zero-valued filters are omitted from the body.
type KeywordSearchRequest struct {
	Keyword        string   `json:"keyword"`
	LineCount      int      `json:"lineCount,omitempty"`
	Page           int      `json:"page,omitempty"`
	OrderBy        string   `json:"order_by,omitempty"`
	Order          string   `json:"order,omitempty"`
	ExactMatch     *bool    `json:"exact_match,omitempty"`
	VolumeMin      *float64 `json:"volume_min,omitempty"`
	VolumeMax      *float64 `json:"volume_max,omitempty"`
	CPCMin         *float64 `json:"cpc_min,omitempty"`
	CPCMax         *float64 `json:"cpc_max,omitempty"`
	CompetitionMin *float64 `json:"competition_min,omitempty"`
	CompetitionMax *float64 `json:"competition_max,omitempty"`
	KGRMin         *float64 `json:"kgr_min,omitempty"`
	KGRMax         *float64 `json:"kgr_max,omitempty"`
	AllintitleMin  *float64 `json:"allintitle_min,omitempty"`
	AllintitleMax  *float64 `json:"allintitle_max,omitempty"`
	WordCountMin   *int     `json:"word_count_min,omitempty"`
	WordCountMax   *int     `json:"word_count_max,omitempty"`
	Include        string   `json:"include,omitempty"`
	Exclude        string   `json:"exclude,omitempty"`
}

type ResultCounts struct {
	TotalResultCount     int           `json:"total_result_count"`
	FilteredResultCount  int           `json:"filtered_result_count"`
	FilteredResultVolume domain.Metric `json:"filtered_result_volume"`
	ReturnedResultCount  int           `json:"returned_result_count"`
	RemainingResultCount int           `json:"remaining_result_count"`
}

type KeywordSearchResponse struct {
	BaseResponse
	ResultCounts
	Keyword string          `json:"keyword"`
	Results []KeywordResult `json:"results"`
}

// ---------------- Questions ----------------

type QuestionsRequest struct {
	KeywordSearchRequest
	QuestionTypes []string `json:"question_types,omitempty"`
	KeepOnlyPAA   bool     `json:"keep_only_paa,omitempty"`
	DepthMin      *int     `json:"depth_min,omitempty"`
	DepthMax      *int     `json:"depth_max,omitempty"`
}

type QuestionResult struct {
	KeywordResult
	QuestionType string `json:"question_type"`
	Depth        int    `json:"depth"`
}

type QuestionsResponse struct {
	BaseResponse
	ResultCounts
	Keyword string           `json:"keyword"`
	Results []QuestionResult `json:"results"`
}

// ---------------- Site structure ----------------

type SiteStructureRequest struct {
	Keyword                 string   `json:"keyword"`
	Keywords                []string `json:"keywords,omitempty"`
	ExactMatch              *bool    `json:"exact_match,omitempty"`
	NeighboursSources       []string `json:"neighbours_sources,omitempty"`
	MultipartiteModes       []string `json:"multipartite_modes,omitempty"`
	NeighboursSampleMaxSize int      `json:"neighbours_sample_max_size,omitempty"`
	Mode                    string   `json:"mode,omitempty"`
	Granularity             float64  `json:"granularity,omitempty"`
	ManualCommon10          []string `json:"manual_common_10,omitempty"`
	ManualCommon100         []string `json:"manual_common_100,omitempty"`
}

type GraphNode struct {
	Name     string      `json:"name"`
	Value    any         `json:"value,omitempty"`
	Children []GraphNode `json:"children,omitempty"`
}

type SiteStructureRow struct {
	KeywordResult
	Article string `json:"article"`
	V1      string `json:"V1"`
	V2      string `json:"V2"`
	V3      string `json:"V3"`
	V4      string `json:"V4,omitempty"`
	Value   any    `json:"value,omitempty"`
}

type Cannibalisation struct {
	Groupe  string `json:"groupe"`
	Keyword string `json:"keyword"`
}

type SiteStructureResponse struct {
	BaseResponse
	Seed            string             `json:"seed"`
	Graph           *GraphNode         `json:"graph,omitempty"`
	Cannibalisation []Cannibalisation  `json:"cannibalisation,omitempty"`
	Table           []SiteStructureRow `json:"table"`
	Outliers        []any              `json:"outliers,omitempty"`
}

// ---------------- Bulk / find ----------------

type BulkRequest struct {
	Keywords  []string `json:"keywords"`
	LineCount int      `json:"lineCount,omitempty"`
	Page      int      `json:"page,omitempty"`
	OrderBy   string   `json:"order_by,omitempty"`
	Order     string   `json:"order,omitempty"`
	VolumeMin *float64 `json:"volume_min,omitempty"`
	VolumeMax *float64 `json:"volume_max,omitempty"`
}

type BulkResponse struct {
	BaseResponse
	ResultCounts
	Keywords []KeywordResult `json:"keywords"`
}

type FindRequest struct {
	KeywordSearchRequest
	Keywords        string   `json:"keywords,omitempty"`
	KeywordsSources []string `json:"keywords_sources,omitempty"`
	KeepSeed        *bool    `json:"keep_seed,omitempty"`
}

type FindResult struct {
	KeywordResult
	MatchCount int      `json:"match_count"`
	Modalities []string `json:"modalities,omitempty"`
}

type FindResponse struct {
	BaseResponse
	Seed                 string       `json:"seed"`
	TotalResultCount     int           `json:"total_result_count"`
	FilteredResultCount  int           `json:"filtered_result_count"`
	FilteredResultVolume domain.Metric `json:"filtered_result_volume"`
	ResultCount          int           `json:"result_count"`
	RemainingResultCount int           `json:"remaining_result_count"`
	Results              []FindResult  `json:"results"`
}

// ---------------- SERP history ----------------

type SerpCompareRequest struct {
	Keyword    string `json:"keyword"`
	Period     string `json:"period,omitempty"`
	FirstDate  string `json:"first_date,omitempty"`
	SecondDate string `json:"second_date,omitempty"`
}

type SerpDiffEntry struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
	Diff     any    `json:"diff,omitempty"`
}

type SerpCompareResponse struct {
	BaseResponse
	Keyword              string   `json:"keyword"`
	Dates                []string `json:"dates"`
	AvailableSearchDates []string `json:"available_search_dates"`
	Results              struct {
		OldSerp []SerpDiffEntry `json:"old_serp"`
		NewSerp []SerpDiffEntry `json:"new_serp"`
	} `json:"results"`
}

type AvailableDatesResponse struct {
	BaseResponse
	Keyword string   `json:"keyword"`
	Dates   []string `json:"dates,omitempty"`
	Results []string `json:"results,omitempty"`
}

type ScrapResponse struct {
	BaseResponse
	Keywords []string `json:"keywords,omitempty"`
	Message  string   `json:"message,omitempty"`
}

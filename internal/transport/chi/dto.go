package chi

import (
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/searchscope/internal/domain"
	"github.com/kailas-cloud/searchscope/internal/domain/cluster"
	"github.com/kailas-cloud/searchscope/internal/domain/opportunity"
	"github.com/kailas-cloud/searchscope/internal/usecase/keywords"
	"github.com/kailas-cloud/searchscope/internal/usecase/summary"
)

type quickWinDTO struct {
	Query           string  `json:"query"`
	Page            string  `json:"page"`
	Position        float64 `json:"position"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	CTR             float64 `json:"ctr"`
	PriorityScore   float64 `json:"priority_score"`
	PotentialClicks int64   `json:"potential_clicks"`
	ClickUplift     int64   `json:"click_uplift"`
	OpportunityType string  `json:"opportunity_type"`
}

func quickWinToDTO(w opportunity.QuickWin) quickWinDTO {
	return quickWinDTO{
		Query:           w.Query,
		Page:            w.Page,
		Position:        w.Position,
		Impressions:     w.Impressions,
		Clicks:          w.Clicks,
		CTR:             w.CTR,
		PriorityScore:   w.PriorityScore,
		PotentialClicks: w.PotentialClicks,
		ClickUplift:     w.ClickUplift,
		OpportunityType: string(opportunity.TypeQuickWin),
	}
}

type ctrOpportunityDTO struct {
	Query           string  `json:"query"`
	Page            string  `json:"page"`
	Position        float64 `json:"position"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	CTR             float64 `json:"ctr"`
	ExpectedCTR     float64 `json:"expected_ctr"`
	CTRGap          float64 `json:"ctr_gap"`
	PotentialClicks int64   `json:"potential_clicks"`
	ClickUplift     int64   `json:"click_uplift"`
	OpportunityType string  `json:"opportunity_type"`
	Priority        string  `json:"priority"`
}

func ctrOpportunityToDTO(o opportunity.CTROpportunity) ctrOpportunityDTO {
	return ctrOpportunityDTO{
		Query:           o.Query,
		Page:            o.Page,
		Position:        o.Position,
		Impressions:     o.Impressions,
		Clicks:          o.Clicks,
		CTR:             o.CTR,
		ExpectedCTR:     o.ExpectedCTR,
		CTRGap:          o.CTRGap,
		PotentialClicks: o.PotentialClicks,
		ClickUplift:     o.ClickUplift,
		OpportunityType: string(opportunity.TypeCTROptimization),
		Priority:        string(o.Priority),
	}
}

type keywordDetailDTO struct {
	Query       string  `json:"query"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Position    float64 `json:"position"`
}

type pageExpansionDTO struct {
	Page             string             `json:"page"`
	KeywordCount     int                `json:"keyword_count"`
	TotalClicks      int64              `json:"total_clicks"`
	TotalImpressions int64              `json:"total_impressions"`
	AvgPosition      float64            `json:"avg_position"`
	TopKeywords      []keywordDetailDTO `json:"top_keywords"`
	OpportunityType  string             `json:"opportunity_type"`
	Priority         string             `json:"priority"`
}

func pageExpansionToDTO(p opportunity.PageExpansion) pageExpansionDTO {
	top := make([]keywordDetailDTO, len(p.TopKeywords))
	for i, kw := range p.TopKeywords {
		top[i] = keywordDetailDTO{
			Query:       kw.Query,
			Impressions: kw.Impressions,
			Clicks:      kw.Clicks,
			Position:    kw.Position,
		}
	}
	return pageExpansionDTO{
		Page:             p.Page,
		KeywordCount:     p.KeywordCount,
		TotalClicks:      p.TotalClicks,
		TotalImpressions: p.TotalImpressions,
		AvgPosition:      p.AvgPosition,
		TopKeywords:      top,
		OpportunityType:  string(opportunity.TypeExpandContent),
		Priority:         string(p.Priority),
	}
}

type clusterQueryDTO struct {
	Query       string  `json:"query"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Position    float64 `json:"position"`
}

type contentGapDTO struct {
	ClusterName      string            `json:"cluster_name"`
	Queries          []clusterQueryDTO `json:"queries"`
	QueryCount       int               `json:"query_count"`
	TotalImpressions int64             `json:"total_impressions"`
	TotalClicks      int64             `json:"total_clicks"`
	BestPosition     float64           `json:"best_position"`
	CurrentPages     []string          `json:"current_pages"`
	SuggestedAction  string            `json:"suggested_action"`
	OpportunityType  string            `json:"opportunity_type"`
	Priority         string            `json:"priority"`
}

func clusterQueriesToDTO(records []cluster.Record) []clusterQueryDTO {
	out := make([]clusterQueryDTO, len(records))
	for i, rec := range records {
		out[i] = clusterQueryDTO{
			Query:       rec.Query,
			Impressions: rec.Impressions,
			Clicks:      rec.Clicks,
			Position:    rec.Position,
		}
	}
	return out
}

func contentGapToDTO(g opportunity.ContentGap) contentGapDTO {
	pages := g.CurrentPages
	if pages == nil {
		pages = []string{}
	}
	return contentGapDTO{
		ClusterName:      g.ClusterName,
		Queries:          clusterQueriesToDTO(g.Queries),
		QueryCount:       g.QueryCount,
		TotalImpressions: g.TotalImpressions,
		TotalClicks:      g.TotalClicks,
		BestPosition:     g.BestPosition,
		CurrentPages:     pages,
		SuggestedAction:  g.SuggestedAction,
		OpportunityType:  string(opportunity.TypeContentGap),
		Priority:         string(g.Priority),
	}
}

type decliningKeywordDTO struct {
	Query               string  `json:"query"`
	Page                string  `json:"page"`
	PreviousClicks      int64   `json:"previous_clicks"`
	CurrentClicks       int64   `json:"current_clicks"`
	Decline             int64   `json:"decline"`
	DeclinePercent      float64 `json:"decline_percent"`
	PreviousPosition    float64 `json:"previous_position"`
	CurrentPosition     float64 `json:"current_position"`
	PositionChange      float64 `json:"position_change"`
	PreviousImpressions int64   `json:"previous_impressions"`
	CurrentImpressions  int64   `json:"current_impressions"`
	OpportunityType     string  `json:"opportunity_type"`
	Priority            string  `json:"priority"`
}

func decliningKeywordToDTO(d opportunity.DecliningKeyword) decliningKeywordDTO {
	return decliningKeywordDTO{
		Query:               d.Query,
		Page:                d.Page,
		PreviousClicks:      d.PreviousClicks,
		CurrentClicks:       d.CurrentClicks,
		Decline:             d.Decline,
		DeclinePercent:      d.DeclinePercent,
		PreviousPosition:    d.PreviousPosition,
		CurrentPosition:     d.CurrentPosition,
		PositionChange:      d.PositionChange,
		PreviousImpressions: d.PreviousImpressions,
		CurrentImpressions:  d.CurrentImpressions,
		OpportunityType:     string(opportunity.TypeDeclining),
		Priority:            string(d.Priority),
	}
}

type keywordDTO struct {
	Query       string  `json:"query"`
	Page        string  `json:"page"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

type keywordListDTO struct {
	Data       []keywordDTO `json:"data"`
	TotalCount int          `json:"total_count"`
	TotalPages int          `json:"total_pages"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
}

func keywordToDTO(k keywords.Keyword) keywordDTO {
	return keywordDTO{
		Query:       k.Query,
		Page:        k.Page,
		Impressions: k.Impressions,
		Clicks:      k.Clicks,
		CTR:         k.CTR,
		Position:    k.Position,
	}
}

type actionDTO struct {
	Priority        int    `json:"priority"`
	Type            string `json:"type"`
	Query           string `json:"query"`
	Page            string `json:"page"`
	Action          string `json:"action"`
	PotentialImpact string `json:"potential_impact"`
	Metrics         string `json:"metrics"`
}

func actionToDTO(a summary.Action) actionDTO {
	return actionDTO{
		Priority:        a.Priority,
		Type:            a.Type,
		Query:           a.Query,
		Page:            a.Page,
		Action:          a.Action,
		PotentialImpact: a.PotentialImpact,
		Metrics:         a.Metrics,
	}
}

type summaryDTO struct {
	QuickWins struct {
		Count           int           `json:"count"`
		TopItems        []quickWinDTO `json:"top_items"`
		PotentialClicks int64         `json:"potential_clicks"`
	} `json:"quick_wins"`
	CTROpportunities struct {
		Count           int                 `json:"count"`
		TopItems        []ctrOpportunityDTO `json:"top_items"`
		PotentialClicks int64               `json:"potential_clicks"`
	} `json:"ctr_opportunities"`
	PagesToExpand struct {
		Count    int                `json:"count"`
		TopItems []pageExpansionDTO `json:"top_items"`
	} `json:"pages_to_expand"`
	ContentGaps struct {
		Count            int             `json:"count"`
		TopItems         []contentGapDTO `json:"top_items"`
		TotalImpressions int64           `json:"total_impressions"`
	} `json:"content_gaps"`
	DecliningKeywords struct {
		Count        int                   `json:"count"`
		TopItems     []decliningKeywordDTO `json:"top_items"`
		TotalDecline int64                 `json:"total_decline"`
	} `json:"declining_keywords"`
	TotalOpportunities int `json:"total_opportunities"`
}

func summaryToDTO(s summary.Summary) summaryDTO {
	var dto summaryDTO

	dto.QuickWins.Count = s.QuickWins.Count
	dto.QuickWins.PotentialClicks = s.QuickWins.PotentialClicks
	dto.QuickWins.TopItems = make([]quickWinDTO, len(s.QuickWins.TopItems))
	for i, w := range s.QuickWins.TopItems {
		dto.QuickWins.TopItems[i] = quickWinToDTO(w)
	}

	dto.CTROpportunities.Count = s.CTROpportunities.Count
	dto.CTROpportunities.PotentialClicks = s.CTROpportunities.PotentialClicks
	dto.CTROpportunities.TopItems = make([]ctrOpportunityDTO, len(s.CTROpportunities.TopItems))
	for i, o := range s.CTROpportunities.TopItems {
		dto.CTROpportunities.TopItems[i] = ctrOpportunityToDTO(o)
	}

	dto.PagesToExpand.Count = s.PagesToExpand.Count
	dto.PagesToExpand.TopItems = make([]pageExpansionDTO, len(s.PagesToExpand.TopItems))
	for i, p := range s.PagesToExpand.TopItems {
		dto.PagesToExpand.TopItems[i] = pageExpansionToDTO(p)
	}

	dto.ContentGaps.Count = s.ContentGaps.Count
	dto.ContentGaps.TotalImpressions = s.ContentGaps.TotalImpressions
	dto.ContentGaps.TopItems = make([]contentGapDTO, len(s.ContentGaps.TopItems))
	for i, g := range s.ContentGaps.TopItems {
		dto.ContentGaps.TopItems[i] = contentGapToDTO(g)
	}

	dto.DecliningKeywords.Count = s.DecliningKeywords.Count
	dto.DecliningKeywords.TotalDecline = s.DecliningKeywords.TotalDecline
	dto.DecliningKeywords.TopItems = make([]decliningKeywordDTO, len(s.DecliningKeywords.TopItems))
	for i, d := range s.DecliningKeywords.TopItems {
		dto.DecliningKeywords.TopItems[i] = decliningKeywordToDTO(d)
	}

	dto.TotalOpportunities = s.TotalOpportunities
	return dto
}

type statsDTO struct {
	TotalKeywords    int64      `json:"total_keywords"`
	TotalPages       int64      `json:"total_pages"`
	TotalClicks      int64      `json:"total_clicks"`
	TotalImpressions int64      `json:"total_impressions"`
	AvgCTR           float64    `json:"avg_ctr"`
	AvgPosition      float64    `json:"avg_position"`
	StartDate        types.Date `json:"start_date"`
	EndDate          types.Date `json:"end_date"`
}

type seriesPointDTO struct {
	Date        string  `json:"date"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

type propertyDTO struct {
	SiteURL         string    `json:"site_url"`
	PermissionLevel string    `json:"permission_level"`
	AddedAt         time.Time `json:"added_at"`
}

type syncRecordDTO struct {
	ID           string     `json:"id"`
	SiteURL      string     `json:"site_url"`
	SyncType     string     `json:"sync_type"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	RowsFetched  int64      `json:"rows_fetched"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func syncRecordToDTO(rec domain.SyncRecord) syncRecordDTO {
	dto := syncRecordDTO{
		ID:           rec.ID,
		SiteURL:      rec.SiteURL,
		SyncType:     rec.SyncType,
		StartDate:    rec.StartDate,
		EndDate:      rec.EndDate,
		RowsFetched:  rec.RowsFetched,
		Status:       string(rec.Status),
		ErrorMessage: rec.ErrorMessage,
		StartedAt:    rec.StartedAt,
	}
	if !rec.CompletedAt.IsZero() {
		t := rec.CompletedAt
		dto.CompletedAt = &t
	}
	return dto
}

type snapshotDTO struct {
	SiteURL          string  `json:"site_url"`
	SnapshotDate     string  `json:"snapshot_date"`
	TotalQueries     int64   `json:"total_queries"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalImpressions int64   `json:"total_impressions"`
	AvgCTR           float64 `json:"avg_ctr"`
	AvgPosition      float64 `json:"avg_position"`
}

func snapshotToDTO(s domain.Snapshot) snapshotDTO {
	return snapshotDTO{
		SiteURL:          s.SiteURL,
		SnapshotDate:     s.SnapshotDate,
		TotalQueries:     s.TotalQueries,
		TotalClicks:      s.TotalClicks,
		TotalImpressions: s.TotalImpressions,
		AvgCTR:           s.AvgCTR,
		AvgPosition:      s.AvgPosition,
	}
}

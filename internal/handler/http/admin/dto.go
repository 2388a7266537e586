// Package admin serves the operator endpoints: aggregation stats, manual
// fetch runs, provider checks and the provider call log.
package admin

import (
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/usecase/aggregate"
)

type SourceCountDTO struct {
	SourceName string `json:"source_name" example:"The Guardian"`
	Count      int64  `json:"count" example:"120"`
}

type APIStatDTO struct {
	Source        string  `json:"api_source" example:"guardian"`
	TotalCalls    int64   `json:"total_calls" example:"24"`
	ErrorCalls    int64   `json:"error_calls" example:"1"`
	SuccessRate   float64 `json:"success_rate" example:"95.8"`
	AvgResponseMS float64 `json:"avg_response_time_ms" example:"312.5"`
	MaxResponseMS int64   `json:"max_response_time_ms" example:"1204"`
}

type StatsDTO struct {
	TotalArticles int64             `json:"total_articles" example:"1520"`
	BySource      []SourceCountDTO  `json:"articles_by_source"`
	APIStats      []APIStatDTO      `json:"api_stats_24h"`
	Providers     []provider.Status `json:"providers"`
	Since         time.Time         `json:"since"`
}

type RunDTO struct {
	Success           bool              `json:"success" example:"true"`
	Fetched           int               `json:"fetched" example:"40"`
	Unique            int               `json:"unique" example:"37"`
	Saved             int               `json:"saved" example:"12"`
	Skipped           int               `json:"skipped" example:"25"`
	SourcesSuccessful int               `json:"sources_successful" example:"4"`
	SourcesFailed     int               `json:"sources_failed" example:"0"`
	Failures          map[string]string `json:"failures,omitempty"`
	DurationMS        int64             `json:"duration_ms" example:"2140"`
}

type APITestDTO struct {
	Provider string `json:"provider" example:"nyt"`
	Status   string `json:"status" example:"working"`
	Message  string `json:"message" example:"OK"`
	Articles int    `json:"articles" example:"1"`
}

type APILogDTO struct {
	ID             int64     `json:"id" example:"1"`
	APISource      string    `json:"api_source" example:"newsapi"`
	Endpoint       string    `json:"endpoint" example:"/top-headlines"`
	StatusCode     int       `json:"status_code" example:"200"`
	ResponseTimeMS int64     `json:"response_time_ms" example:"245"`
	ErrorMessage   *string   `json:"error_message"`
	CreatedAt      time.Time `json:"created_at"`
}

type LogStatsDTO struct {
	Days  int          `json:"days" example:"7"`
	Since time.Time    `json:"since"`
	Stats []APIStatDTO `json:"stats"`
}

type CleanupDTO struct {
	Days    int   `json:"days" example:"30"`
	Deleted int64 `json:"deleted" example:"4821"`
}

func toAPIStatDTOs(stats []entity.APIStat) []APIStatDTO {
	out := make([]APIStatDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, APIStatDTO{
			Source:        s.Source,
			TotalCalls:    s.TotalCalls,
			ErrorCalls:    s.ErrorCalls,
			SuccessRate:   s.SuccessRate(),
			AvgResponseMS: s.AvgResponseMS,
			MaxResponseMS: s.MaxResponseMS,
		})
	}
	return out
}

func toRunDTO(r *aggregate.RunResult) RunDTO {
	d := RunDTO{
		Success:    r.Success,
		Fetched:    r.Fetched,
		Unique:     r.Unique,
		Saved:      r.Saved,
		Skipped:    r.Skipped,
		DurationMS: r.Duration.Milliseconds(),
	}
	if r.Report != nil {
		d.SourcesSuccessful = r.Report.SourcesSuccessful
		d.SourcesFailed = r.Report.SourcesFailed
		d.Failures = r.Report.Failures
	}
	return d
}

func toLogDTOs(logs []*entity.APILog) []APILogDTO {
	out := make([]APILogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, APILogDTO{
			ID:             l.ID,
			APISource:      l.APISource,
			Endpoint:       l.Endpoint,
			StatusCode:     l.StatusCode,
			ResponseTimeMS: l.ResponseTimeMS,
			ErrorMessage:   l.ErrorMessage,
			CreatedAt:      l.CreatedAt,
		})
	}
	return out
}

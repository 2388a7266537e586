// Package article serves the article catalogue: listing, search, filters,
// the personalized feed and saved articles.
package article

import (
	"time"

	"news-aggregator/internal/domain/entity"
)

// DTO is the JSON view of an article.
type DTO struct {
	ID          int64      `json:"id" example:"1"`
	Title       string     `json:"title" example:"Markets rally after rate decision"`
	Description string     `json:"description" example:"Stocks rose sharply on Wednesday..."`
	Content     string     `json:"content"`
	Author      string     `json:"author" example:"Jane Smith"`
	SourceName  string     `json:"source_name" example:"The Guardian"`
	Category    *string    `json:"category" example:"business"`
	PublishedAt *time.Time `json:"published_at" example:"2026-01-15T10:00:00Z"`
	URL         string     `json:"url" example:"https://www.theguardian.com/business/2026/jan/15/markets"`
	URLToImage  string     `json:"url_to_image"`
	SourceID    string     `json:"source_id" example:"guardian"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	// IsSaved is set only for authenticated requests.
	IsSaved *bool `json:"is_saved,omitempty"`
}

// SavedDTO adds the bookmark time.
type SavedDTO struct {
	DTO
	SavedAt time.Time `json:"saved_at"`
}

// SaveResultDTO is returned by the save endpoint.
type SaveResultDTO struct {
	ArticleID int64 `json:"article_id" example:"1"`
	Created   bool  `json:"created" example:"true"`
}

func toDTO(a *entity.Article) DTO {
	d := DTO{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		Author:      a.Author,
		SourceName:  a.SourceName,
		Category:    a.Category,
		URL:         a.URL,
		URLToImage:  a.URLToImage,
		SourceID:    a.SourceID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if !a.PublishedAt.IsZero() {
		t := a.PublishedAt
		d.PublishedAt = &t
	}
	return d
}

func toDTOs(articles []*entity.Article) []DTO {
	out := make([]DTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toDTO(a))
	}
	return out
}

func toSavedDTOs(saved []*entity.SavedArticle) []SavedDTO {
	out := make([]SavedDTO, 0, len(saved))
	for _, s := range saved {
		out = append(out, SavedDTO{DTO: toDTO(&s.Article), SavedAt: s.SavedAt})
	}
	return out
}

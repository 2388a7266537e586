package provider

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strconv"
	"time"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
)

// gnewsMaxPerRequest is the free-tier cap on "max".
const gnewsMaxPerRequest = 10

var gnewsCategories = map[string]bool{
	"general": true, "world": true, "nation": true, "business": true, "technology": true,
	"entertainment": true, "sports": true, "science": true, "health": true,
}

// GNewsCategory maps c onto a GNews topic; anything unsupported becomes "general".
func GNewsCategory(c string) string {
	if gnewsCategories[c] {
		return c
	}
	return "general"
}

// GNews adapts gnews.io.
type GNews struct {
	*client
	now func() time.Time
}

func NewGNews(cfg config.ProviderConfig, recorder *LogRecorder, logger *slog.Logger) *GNews {
	return &GNews{
		client: newClient(config.ProviderGNews, "GNews", cfg, recorder, logger),
		now:    time.Now,
	}
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

func (g *GNews) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	params := map[string]string{
		"token":   g.cfg.APIKey,
		"country": firstNonEmpty(opts.Country, "us"),
		"lang":    firstNonEmpty(opts.Language, "en"),
		"max":     strconv.Itoa(min(g.pageSize(opts), gnewsMaxPerRequest)),
	}

	endpoint := "/top-headlines"
	if opts.Query != "" {
		endpoint = "/search"
		params["q"] = opts.Query
		params["sortby"] = "publishedAt"
	} else {
		params["category"] = GNewsCategory(opts.Category)
	}

	var resp gnewsResponse
	if err := g.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return g.finish(resp.toArticles(g.now()), resp.TotalArticles), nil
}

func (r *gnewsResponse) toArticles(fetchedAt time.Time) []*entity.Article {
	articles := make([]*entity.Article, 0, len(r.Articles))
	for _, item := range r.Articles {
		published := parseTime(item.PublishedAt)
		if published.IsZero() {
			published = fetchedAt.UTC()
		}
		articles = append(articles, &entity.Article{
			Title:       firstNonEmpty(item.Title, "No Title"),
			Description: item.Description,
			Content:     item.Content,
			Author:      firstNonEmpty(item.Source.Name, "Unknown"),
			SourceName:  firstNonEmpty(item.Source.Name, "GNews"),
			PublishedAt: published,
			URL:         item.URL,
			URLToImage:  item.Image,
			SourceID:    gnewsSourceID(item.URL),
		})
	}
	return articles
}

func gnewsSourceID(url string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(url))
	if len(enc) > 50 {
		enc = enc[:50]
	}
	return "gnews_" + enc
}

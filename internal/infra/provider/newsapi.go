package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
)

// NewsAPI adapts newsapi.org. Headlines come from /top-headlines, queries go to /everything.
type NewsAPI struct {
	*client
}

func NewNewsAPI(cfg config.ProviderConfig, recorder *LogRecorder, logger *slog.Logger) *NewsAPI {
	return &NewsAPI{client: newClient(config.ProviderNewsAPI, "NewsAPI", cfg, recorder, logger)}
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (n *NewsAPI) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	params := map[string]string{
		"apiKey":   n.cfg.APIKey,
		"pageSize": strconv.Itoa(n.pageSize(opts)),
		"page":     strconv.Itoa(max(opts.Page, 1)),
	}

	endpoint := "/top-headlines"
	if opts.Query != "" {
		endpoint = "/everything"
		params["q"] = opts.Query
		params["sortBy"] = "publishedAt"
	} else {
		params["country"] = firstNonEmpty(opts.Country, "us")
		if opts.Category != "" {
			params["category"] = opts.Category
		}
	}

	var resp newsAPIResponse
	if err := n.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return n.finish(resp.toArticles(opts.Category), resp.TotalResults), nil
}

// 200 でも status:"error" が返ることがある
func (r *newsAPIResponse) bodyError() error {
	if r.Status == "ok" {
		return nil
	}
	return fmt.Errorf("status %q: %s %s", r.Status, r.Code, r.Message)
}

func (r *newsAPIResponse) toArticles(category string) []*entity.Article {
	articles := make([]*entity.Article, 0, len(r.Articles))
	for _, item := range r.Articles {
		articles = append(articles, &entity.Article{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			Author:      item.Author,
			SourceName:  firstNonEmpty(item.Source.Name, "NewsAPI"),
			Category:    entity.StringPtr(category),
			PublishedAt: parseTime(item.PublishedAt),
			URL:         item.URL,
			URLToImage:  item.URLToImage,
			SourceID:    "newsapi_" + item.URL,
		})
	}
	return articles
}

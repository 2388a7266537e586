package provider

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
)

const nytImageBase = "https://www.nytimes.com/"

// NYT adapts the New York Times top stories and article search APIs.
type NYT struct {
	*client
}

func NewNYT(cfg config.ProviderConfig, recorder *LogRecorder, logger *slog.Logger) *NYT {
	return &NYT{client: newClient(config.ProviderNYT, "NYT", cfg, recorder, logger)}
}

type nytMultimedia struct {
	URL string `json:"url"`
}

type nytTopStoriesResponse struct {
	Status     string `json:"status"`
	NumResults int    `json:"num_results"`
	Results    []struct {
		Section       string          `json:"section"`
		Title         string          `json:"title"`
		Abstract      string          `json:"abstract"`
		URL           string          `json:"url"`
		URI           string          `json:"uri"`
		Byline        string          `json:"byline"`
		PublishedDate string          `json:"published_date"`
		Multimedia    []nytMultimedia `json:"multimedia"`
	} `json:"results"`
}

type nytSearchResponse struct {
	Response struct {
		Docs []struct {
			ID       string `json:"_id"`
			WebURL   string `json:"web_url"`
			Abstract string `json:"abstract"`
			Lead     string `json:"lead_paragraph"`
			Headline struct {
				Main string `json:"main"`
			} `json:"headline"`
			Byline struct {
				Original string `json:"original"`
			} `json:"byline"`
			PubDate     string          `json:"pub_date"`
			SectionName string          `json:"section_name"`
			Multimedia  []nytMultimedia `json:"multimedia"`
		} `json:"docs"`
		Meta struct {
			Hits int `json:"hits"`
		} `json:"meta"`
	} `json:"response"`
}

func (n *NYT) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	if opts.Query != "" {
		return n.search(ctx, opts)
	}

	section := firstNonEmpty(opts.Section, opts.Category, "home")
	endpoint := "/topstories/v2/" + url.PathEscape(section) + ".json"

	var resp nytTopStoriesResponse
	if err := n.get(ctx, endpoint, map[string]string{"api-key": n.cfg.APIKey}, &resp); err != nil {
		return nil, err
	}
	return n.finish(resp.toArticles(n.pageSize(opts)), resp.NumResults), nil
}

func (n *NYT) search(ctx context.Context, opts FetchOptions) (*Result, error) {
	params := map[string]string{
		"api-key": n.cfg.APIKey,
		"q":       opts.Query,
		"sort":    "newest",
		// NYT のページは 0 始まり
		"page": strconv.Itoa(max(opts.Page-1, 0)),
	}
	var resp nytSearchResponse
	if err := n.get(ctx, "/search/v2/articlesearch.json", params, &resp); err != nil {
		return nil, err
	}
	return n.finish(resp.toArticles(), resp.Response.Meta.Hits), nil
}

// toArticles maps at most limit stories; top stories has no page size parameter.
func (r *nytTopStoriesResponse) toArticles(limit int) []*entity.Article {
	articles := make([]*entity.Article, 0, min(len(r.Results), limit))
	for _, item := range r.Results {
		if len(articles) == limit {
			break
		}
		articles = append(articles, &entity.Article{
			Title:       item.Title,
			Description: item.Abstract,
			Content:     item.Abstract,
			Author:      item.Byline,
			SourceName:  "The New York Times",
			Category:    entity.StringPtr(item.Section),
			PublishedAt: parseTime(item.PublishedDate),
			URL:         item.URL,
			URLToImage:  nytImage(item.Multimedia),
			SourceID:    "nyt_" + item.URI,
		})
	}
	return articles
}

func (r *nytSearchResponse) toArticles() []*entity.Article {
	articles := make([]*entity.Article, 0, len(r.Response.Docs))
	for _, doc := range r.Response.Docs {
		articles = append(articles, &entity.Article{
			Title:       doc.Headline.Main,
			Description: doc.Abstract,
			Content:     firstNonEmpty(doc.Lead, doc.Abstract),
			Author:      doc.Byline.Original,
			SourceName:  "The New York Times",
			Category:    entity.StringPtr(doc.SectionName),
			PublishedAt: parseTime(doc.PubDate),
			URL:         doc.WebURL,
			URLToImage:  nytImage(doc.Multimedia),
			SourceID:    "nyt_" + doc.ID,
		})
	}
	return articles
}

func nytImage(media []nytMultimedia) string {
	if len(media) == 0 || media[0].URL == "" {
		return ""
	}
	u := media[0].URL
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return nytImageBase + strings.TrimLeft(u, "/")
}

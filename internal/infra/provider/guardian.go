package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/utils/text"
)

const guardianDescriptionRunes = 200

// Guardian adapts the Guardian content API.
type Guardian struct {
	*client
}

func NewGuardian(cfg config.ProviderConfig, recorder *LogRecorder, logger *slog.Logger) *Guardian {
	return &Guardian{client: newClient(config.ProviderGuardian, "Guardian", cfg, recorder, logger)}
}

type guardianResponse struct {
	Response struct {
		Status  string           `json:"status"`
		Total   int              `json:"total"`
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	ID                 string `json:"id"`
	SectionName        string `json:"sectionName"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		Headline  string `json:"headline"`
		Byline    string `json:"byline"`
		Body      string `json:"body"`
		Thumbnail string `json:"thumbnail"`
	} `json:"fields"`
}

func (g *Guardian) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	params := map[string]string{
		"api-key":     g.cfg.APIKey,
		"show-fields": "headline,byline,body,thumbnail,short-url",
		"page-size":   strconv.Itoa(g.pageSize(opts)),
		"page":        strconv.Itoa(max(opts.Page, 1)),
		"order-by":    "newest",
	}
	if section := firstNonEmpty(opts.Section, opts.Category); section != "" {
		params["section"] = section
	}
	if opts.Query != "" {
		params["q"] = opts.Query
	}

	var resp guardianResponse
	if err := g.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}
	return g.finish(resp.toArticles(), resp.Response.Total), nil
}

func (r *guardianResponse) bodyError() error {
	if r.Response.Status == "" || r.Response.Status == "ok" {
		return nil
	}
	return fmt.Errorf("response status %q", r.Response.Status)
}

func (r *guardianResponse) toArticles() []*entity.Article {
	articles := make([]*entity.Article, 0, len(r.Response.Results))
	for _, item := range r.Response.Results {
		body := htmlToText(item.Fields.Body)
		articles = append(articles, &entity.Article{
			Title:       firstNonEmpty(item.Fields.Headline, item.WebTitle),
			Description: text.Truncate(body, guardianDescriptionRunes),
			Content:     body,
			Author:      item.Fields.Byline,
			SourceName:  "The Guardian",
			Category:    entity.StringPtr(item.SectionName),
			PublishedAt: parseTime(item.WebPublicationDate),
			URL:         item.WebURL,
			URLToImage:  item.Fields.Thumbnail,
			SourceID:    "guardian_" + item.ID,
		})
	}
	return articles
}

// htmlToText strips markup and collapses whitespace.
func htmlToText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNYT_TopStories(t *testing.T) {
	srv, req := serve(t, http.StatusOK, `{
	  "status": "OK", "num_results": 3,
	  "results": [
	    {"section": "technology", "title": "T1", "abstract": "A1", "url": "https://www.nytimes.com/1",
	     "uri": "nyt://article/1", "byline": "By Someone", "published_date": "2026-01-15T05:00:03-05:00",
	     "multimedia": [{"url": "images/2026/01/15/1.jpg"}]},
	    {"section": "technology", "title": "T2", "abstract": "A2", "url": "https://www.nytimes.com/2",
	     "uri": "nyt://article/2", "multimedia": [{"url": "https://static01.nyt.com/2.jpg"}]},
	    {"section": "technology", "title": "T3", "url": "https://www.nytimes.com/3", "uri": "nyt://article/3"}
	  ]
	}`)
	cfg := testConfig(srv.URL)
	res, err := NewNYT(cfg, nil, nil).Fetch(context.Background(), FetchOptions{PageSize: 2})
	require.NoError(t, err)

	assert.Equal(t, "/topstories/v2/home.json", req.URL.Path)
	assert.Equal(t, "test-key", req.URL.Query().Get("api-key"))
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Articles, 2, "limited to page size")

	first := res.Articles[0]
	assert.Equal(t, "A1", first.Description)
	assert.Equal(t, "A1", first.Content)
	assert.Equal(t, "By Someone", first.Author)
	assert.Equal(t, "The New York Times", first.SourceName)
	assert.Equal(t, "technology", first.CategoryValue())
	assert.Equal(t, "https://www.nytimes.com/images/2026/01/15/1.jpg", first.URLToImage)
	assert.Equal(t, "nyt_nyt://article/1", first.SourceID)
	assert.Equal(t, 10, first.PublishedAt.Hour(), "normalized to UTC")

	assert.Equal(t, "https://static01.nyt.com/2.jpg", res.Articles[1].URLToImage)
}

func TestNYT_SectionFromCategory(t *testing.T) {
	srv, req := serve(t, http.StatusOK, `{"status":"OK","num_results":0,"results":[]}`)
	_, err := NewNYT(testConfig(srv.URL), nil, nil).Fetch(context.Background(), FetchOptions{Category: "science"})
	require.NoError(t, err)
	assert.Equal(t, "/topstories/v2/science.json", req.URL.Path)
}

func TestNYT_Search(t *testing.T) {
	srv, req := serve(t, http.StatusOK, `{
	  "response": {
	    "docs": [
	      {"_id": "nyt://article/s1", "web_url": "https://www.nytimes.com/s1", "abstract": "abs",
	       "lead_paragraph": "lead", "headline": {"main": "Search hit"}, "byline": {"original": "By X"},
	       "pub_date": "2026-01-14T12:00:00+0000", "section_name": "World"}
	    ],
	    "meta": {"hits": 57}
	  }
	}`)
	res, err := NewNYT(testConfig(srv.URL), nil, nil).Fetch(context.Background(), FetchOptions{Query: "election", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, "/search/v2/articlesearch.json", req.URL.Path)
	assert.Equal(t, "election", req.URL.Query().Get("q"))
	assert.Equal(t, "0", req.URL.Query().Get("page"))
	assert.Equal(t, 57, res.Total)
	require.Len(t, res.Articles, 1)
	a := res.Articles[0]
	assert.Equal(t, "Search hit", a.Title)
	assert.Equal(t, "lead", a.Content)
	assert.Equal(t, "By X", a.Author)
	assert.Equal(t, "World", a.CategoryValue())
	assert.Equal(t, 2026, a.PublishedAt.Year())
}

func TestNYT_Fault(t *testing.T) {
	srv, _ := serve(t, http.StatusUnauthorized, `{"fault":{"faultstring":"Invalid ApiKey","detail":{}}}`)
	_, err := NewNYT(testConfig(srv.URL), nil, nil).Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NYT API error:")
	assert.Contains(t, err.Error(), "Invalid ApiKey")
}

package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardian_Fetch(t *testing.T) {
	longBody := "<p>" + strings.Repeat("word ", 80) + "</p>"
	srv, req := serve(t, http.StatusOK, `{
	  "response": {
	    "status": "ok", "total": 120,
	    "results": [
	      {"id": "technology/2026/jan/15/ai", "sectionName": "Technology", "webTitle": "Web title",
	       "webUrl": "https://www.theguardian.com/technology/2026/jan/15/ai",
	       "webPublicationDate": "2026-01-15T07:30:00Z",
	       "fields": {"headline": "", "byline": "Alex Hern", "body": "`+longBody+`",
	                  "thumbnail": "https://media.guim.co.uk/1.jpg"}},
	      {"id": "world/x", "sectionName": "World", "webTitle": "Short",
	       "webUrl": "https://www.theguardian.com/world/x",
	       "fields": {"headline": "Headline wins", "body": "<p>Hello <b>world</b></p>"}}
	    ]
	  }
	}`)
	src := NewGuardian(testConfig(srv.URL), nil, nil)

	res, err := src.Fetch(context.Background(), FetchOptions{Category: "technology", Query: "ai"})
	require.NoError(t, err)

	q := req.URL.Query()
	assert.Equal(t, "/search", req.URL.Path)
	assert.Equal(t, "test-key", q.Get("api-key"))
	assert.Equal(t, "technology", q.Get("section"))
	assert.Equal(t, "ai", q.Get("q"))
	assert.Equal(t, "newest", q.Get("order-by"))
	assert.Equal(t, "headline,byline,body,thumbnail,short-url", q.Get("show-fields"))

	assert.Equal(t, 120, res.Total)
	require.Len(t, res.Articles, 2)

	first := res.Articles[0]
	assert.Equal(t, "Web title", first.Title)
	assert.Equal(t, "Alex Hern", first.Author)
	assert.Equal(t, "The Guardian", first.SourceName)
	assert.Equal(t, "Technology", first.CategoryValue())
	assert.Equal(t, "guardian_technology/2026/jan/15/ai", first.SourceID)
	assert.Equal(t, 200, utf8.RuneCountInString(first.Description))
	assert.NotContains(t, first.Content, "<p>")

	second := res.Articles[1]
	assert.Equal(t, "Headline wins", second.Title)
	assert.Equal(t, "Hello world", second.Content)
	assert.Equal(t, "Hello world", second.Description)
	assert.True(t, second.PublishedAt.IsZero())
}

func TestGuardian_ErrorBody(t *testing.T) {
	srv, _ := serve(t, http.StatusBadRequest, `{"response":{"status":"error","message":"The api-key provided is invalid"}}`)
	_, err := NewGuardian(testConfig(srv.URL), nil, nil).Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Guardian API error:")
	assert.Contains(t, err.Error(), "api-key provided is invalid")
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "", htmlToText(""))
	assert.Equal(t, "a b c", htmlToText("<div>a</div>\n<p> b </p><span>c</span>"))
}

package pagination_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"news-aggregator/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	tests := []struct{ page, limit, want int }{
		{1, 20, 0},
		{2, 20, 20},
		{3, 10, 20},
	}
	for _, tt := range tests {
		if got := pagination.CalculateOffset(tt.page, tt.limit); got != tt.want {
			t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 1},
		{10, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := pagination.CalculateTotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestNewMetadata(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		total  int64
		want   pagination.Metadata
	}{
		{
			name:   "first of three pages",
			params: pagination.Params{Page: 1, Limit: 20},
			total:  45,
			want: pagination.Metadata{CurrentPage: 1, TotalPages: 3, TotalItems: 45,
				ItemsPerPage: 20, HasNextPage: true, HasPrevPage: false},
		},
		{
			name:   "last page",
			params: pagination.Params{Page: 3, Limit: 20},
			total:  45,
			want: pagination.Metadata{CurrentPage: 3, TotalPages: 3, TotalItems: 45,
				ItemsPerPage: 20, HasNextPage: false, HasPrevPage: true},
		},
		{
			name:   "empty result",
			params: pagination.Params{Page: 1, Limit: 20},
			total:  0,
			want:   pagination.Metadata{CurrentPage: 1, TotalPages: 1, ItemsPerPage: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, pagination.NewMetadata(tt.params, tt.total)); diff != "" {
				t.Errorf("NewMetadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseQueryParams(t *testing.T) {
	cfg := pagination.DefaultConfig()
	tests := []struct {
		name    string
		query   string
		want    pagination.Params
		wantErr bool
	}{
		{name: "defaults", query: "", want: pagination.Params{Page: 1, Limit: 20}},
		{name: "explicit", query: "page=3&limit=50", want: pagination.Params{Page: 3, Limit: 50}},
		{name: "max limit", query: "limit=100", want: pagination.Params{Page: 1, Limit: 100}},
		{name: "zero page", query: "page=0", wantErr: true},
		{name: "non numeric page", query: "page=abc", wantErr: true},
		{name: "limit over max", query: "limit=101", wantErr: true},
		{name: "negative limit", query: "limit=-1", wantErr: true},
		{name: "page overflows offset", query: "page=922337203685477581&limit=20", wantErr: true},
		{name: "page overflows with default limit", query: "page=922337203685477581", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/articles?"+tt.query, nil)
			got, err := pagination.ParseQueryParams(r, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCalculateOffset_Saturates(t *testing.T) {
	if got := pagination.CalculateOffset(math.MaxInt/20+2, 20); got != math.MaxInt {
		t.Errorf("CalculateOffset overflow = %d, want math.MaxInt", got)
	}
	if got := pagination.CalculateOffset(0, 20); got != 0 {
		t.Errorf("CalculateOffset(0, 20) = %d, want 0", got)
	}
}

func TestParams_Offset(t *testing.T) {
	if got := (pagination.Params{Page: 4, Limit: 25}).Offset(); got != 75 {
		t.Errorf("Offset() = %d, want 75", got)
	}
}

func TestConfig_WithDefaultLimit(t *testing.T) {
	cfg := pagination.DefaultConfig().WithDefaultLimit(50)
	if cfg.DefaultLimit != 50 || cfg.MaxLimit != 100 {
		t.Errorf("got %+v", cfg)
	}
	if capped := pagination.DefaultConfig().WithDefaultLimit(500); capped.DefaultLimit != 100 {
		t.Errorf("DefaultLimit = %d, want capped 100", capped.DefaultLimit)
	}
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(pagination.RequestsTotal.WithLabelValues("articles", "200", "11-50"))
	pagination.RecordRequest("articles", 200, 12)
	after := testutil.ToFloat64(pagination.RequestsTotal.WithLabelValues("articles", "200", "11-50"))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

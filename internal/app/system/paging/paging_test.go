package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Params
	}{
		{"defaults", "/ngos", Params{Page: 1, Limit: DefaultLimit}},
		{"explicit", "/ngos?page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"zero page falls back", "/ngos?page=0&limit=10", Params{Page: 1, Limit: 10}},
		{"negative values fall back", "/ngos?page=-2&limit=-5", Params{Page: 1, Limit: DefaultLimit}},
		{"garbage falls back", "/ngos?page=abc&limit=xyz", Params{Page: 1, Limit: DefaultLimit}},
		{"limit capped", "/ngos?limit=5000", Params{Page: 1, Limit: MaxLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			got := Parse(r)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.url, got, tt.want)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Skip(); got != 0 {
		t.Errorf("page 1 skip = %d, want 0", got)
	}
	if got := (Params{Page: 4, Limit: 25}).Skip(); got != 75 {
		t.Errorf("page 4 limit 25 skip = %d, want 75", got)
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		total  int64
		want   Meta
	}{
		{
			name:   "middle page",
			params: Params{Page: 2, Limit: 10},
			total:  45,
			want:   Meta{CurrentPage: 2, TotalPages: 5, TotalItems: 45, ItemsPerPage: 10, HasNextPage: true, HasPrevPage: true},
		},
		{
			name:   "first page",
			params: Params{Page: 1, Limit: 10},
			total:  45,
			want:   Meta{CurrentPage: 1, TotalPages: 5, TotalItems: 45, ItemsPerPage: 10, HasNextPage: true, HasPrevPage: false},
		},
		{
			name:   "last page",
			params: Params{Page: 5, Limit: 10},
			total:  45,
			want:   Meta{CurrentPage: 5, TotalPages: 5, TotalItems: 45, ItemsPerPage: 10, HasNextPage: false, HasPrevPage: true},
		},
		{
			name:   "exact multiple",
			params: Params{Page: 1, Limit: 10},
			total:  40,
			want:   Meta{CurrentPage: 1, TotalPages: 4, TotalItems: 40, ItemsPerPage: 10, HasNextPage: true, HasPrevPage: false},
		},
		{
			name:   "empty collection",
			params: Params{Page: 1, Limit: 20},
			total:  0,
			want:   Meta{CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 20, HasNextPage: false, HasPrevPage: false},
		},
		{
			name:   "page past the end",
			params: Params{Page: 9, Limit: 10},
			total:  45,
			want:   Meta{CurrentPage: 9, TotalPages: 5, TotalItems: 45, ItemsPerPage: 10, HasNextPage: false, HasPrevPage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMeta(tt.params, tt.total)
			if got != tt.want {
				t.Errorf("NewMeta(%+v, %d) = %+v, want %+v", tt.params, tt.total, got, tt.want)
			}
		})
	}
}

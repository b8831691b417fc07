package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "zero values", in: Params{}, want: Params{Page: 1, Limit: DefaultLimit}},
		{name: "negative page", in: Params{Page: -3, Limit: 10}, want: Params{Page: 1, Limit: 10}},
		{name: "limit above max", in: Params{Page: 2, Limit: 500}, want: Params{Page: 2, Limit: MaxLimit}},
		{name: "in range", in: Params{Page: 4, Limit: 24}, want: Params{Page: 4, Limit: 24}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Fatalf("%s: Normalize() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 12}).Offset(); got != 24 {
		t.Fatalf("expected offset 24, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for defaults, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{total: 0, limit: 12, want: 1},
		{total: 12, limit: 12, want: 1},
		{total: 13, limit: 12, want: 2},
		{total: 120, limit: 12, want: 10},
		{total: 5, limit: 0, want: 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

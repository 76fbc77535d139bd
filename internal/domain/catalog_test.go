package domain

import "testing"

func TestListQueryNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   ListQuery
		want ListQuery
	}{
		{"page below one", ListQuery{Page: 0, PerPage: 10, Sort: SortTitle}, ListQuery{Page: 1, PerPage: 10, Sort: SortTitle}},
		{"negative page", ListQuery{Page: -3, PerPage: 10, Sort: SortTitle}, ListQuery{Page: 1, PerPage: 10, Sort: SortTitle}},
		{"zero per page", ListQuery{Page: 2, PerPage: 0, Sort: SortTitle}, ListQuery{Page: 2, PerPage: 20, Sort: SortTitle}},
		{"per page above cap", ListQuery{Page: 1, PerPage: 150, Sort: SortTitle}, ListQuery{Page: 1, PerPage: 100, Sort: SortTitle}},
		{"per page at cap", ListQuery{Page: 1, PerPage: 100, Sort: SortTitle}, ListQuery{Page: 1, PerPage: 100, Sort: SortTitle}},
		{"all chambers", ListQuery{Page: 1, PerPage: 10, Sort: SortTitle, Chamber: "all"}, ListQuery{Page: 1, PerPage: 10, Sort: SortTitle}},
		{"chamber kept", ListQuery{Page: 1, PerPage: 10, Sort: SortTitle, Chamber: "Senate"}, ListQuery{Page: 1, PerPage: 10, Sort: SortTitle, Chamber: "Senate"}},
		{"empty sort", ListQuery{Page: 1, PerPage: 10, Desc: true}, ListQuery{Page: 1, PerPage: 10, Sort: SortCreatedAt, Desc: true}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

package domain

// BillSort whitelists the columns a listing can be ordered by.
type BillSort string

const (
	SortCreatedAt        BillSort = "created_at"
	SortUpdateDate       BillSort = "update_date"
	SortLatestActionDate BillSort = "latest_action_date"
	SortVoteCount        BillSort = "vote_count"
	SortUpvoteCount      BillSort = "upvote_count"
	SortTitle            BillSort = "title"
)

// ParseBillSort falls back to created_at for unknown columns.
func ParseBillSort(raw string) BillSort {
	switch s := BillSort(raw); s {
	case SortCreatedAt, SortUpdateDate, SortLatestActionDate, SortVoteCount, SortUpvoteCount, SortTitle:
		return s
	}
	return SortCreatedAt
}

// ListQuery selects one page of stored bills.
type ListQuery struct {
	Page    int
	PerPage int
	Sort    BillSort
	Desc    bool
	Chamber string
}

// Normalize clamps paging values into sane bounds.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
	if q.Sort == "" {
		q.Sort = SortCreatedAt
	}
	if q.Chamber == "all" {
		q.Chamber = ""
	}
	return q
}

// BillList is a page of bills with totals.
type BillList struct {
	Bills      []Bill `json:"bills"`
	Total      int64  `json:"total_bills"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
}

// ScrapeStatus describes ingestion progress.
type ScrapeStatus struct {
	Offset     int    `json:"offset"`
	TotalBills int64  `json:"total_bills"`
	Recent     []Bill `json:"recent"`
}

// TrackingOffset is the scrape-tracking type holding the batch cursor.
const TrackingOffset = "offset"

package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/usecase"
)

type BillHandler struct {
	catalog *usecase.Catalog
	ledger  *usecase.Ledger
}

func NewBillHandler(catalog *usecase.Catalog, ledger *usecase.Ledger) *BillHandler {
	return &BillHandler{catalog: catalog, ledger: ledger}
}

type pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

type listResponse struct {
	Bills      []billView `json:"bills"`
	Pagination pagination `json:"pagination"`
}

// GET /api/bills?page=&per_page=&sort=&sort_dir=&chamber=
func (h *BillHandler) List(c *gin.Context) {
	q := domain.ListQuery{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
		Sort:    domain.ParseBillSort(c.Query("sort")),
		Desc:    c.DefaultQuery("sort_dir", "-1") != "1",
		Chamber: c.Query("chamber"),
	}

	list, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, listResponse{
		Bills: presentBills(list.Bills),
		Pagination: pagination{
			Page:    list.Page,
			PerPage: list.PerPage,
			Total:   list.Total,
			Pages:   list.TotalPages,
		},
	})
}

// GET /api/bills/trending
func (h *BillHandler) Trending(c *gin.Context) {
	bills, err := h.catalog.Trending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"bills": presentBills(bills)})
}

// GET /api/bills/:id/full
func (h *BillHandler) Full(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	bill, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, presentBill(bill, true))
}

// GET /api/search?keyword=
func (h *BillHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	bills, err := h.catalog.Search(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"keyword": keyword, "bills": presentBills(bills)})
}

type voteRequest struct {
	VoteStatus *string `json:"vote_status"`
}

type voteResponse struct {
	Message       string            `json:"message"`
	BillID        int64             `json:"bill_id"`
	VoteStatus    string            `json:"vote_status"`
	Change        domain.VoteChange `json:"change"`
	VoteCount     int64             `json:"vote_count"`
	UpvoteCount   int64             `json:"upvote_count"`
	DownvoteCount int64             `json:"downvote_count"`
	Demographics  domain.VoteRecord `json:"demographics"`
}

// POST /api/bills/:id/vote
// body: { "vote_status": "upvote" | "downvote" | "none" }
func (h *BillHandler) Vote(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VoteStatus == nil {
		respondError(c, domain.ErrInvalidVoteStatus)
		return
	}
	status, err := domain.ParseVoteStatus(*req.VoteStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.ledger.CastVote(c.Request.Context(), currentUserID(c), id, status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, voteResponse{
		Message:       result.Transition.Message(),
		BillID:        result.BillID,
		VoteStatus:    result.Transition.To.String(),
		Change:        result.Transition.Change,
		VoteCount:     result.Counters.Votes,
		UpvoteCount:   result.Counters.Upvotes,
		DownvoteCount: result.Counters.Downvotes,
		Demographics:  result.Demographics,
	})
}

// GET /api/bills/:id/demographics
func (h *BillHandler) Demographics(c *gin.Context) {
	id, ok := billID(c)
	if !ok {
		return
	}
	record, err := h.ledger.Demographics(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"bill_id": id, "demographics": record})
}

func billID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domain.ErrBillNotFound)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"PolicyPal/internal/apierr"
	"PolicyPal/internal/domain"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	c.AbortWithStatusJSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{Message: apiErr.Error(), Code: apiErr.Code},
	})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

type billView struct {
	ID               int64               `json:"id"`
	Congress         int                 `json:"congress"`
	BillType         string              `json:"bill_type"`
	BillNumber       string              `json:"bill_number"`
	Title            string              `json:"title"`
	OriginChamber    string              `json:"origin_chamber"`
	Sponsor          string              `json:"sponsor"`
	LatestAction     domain.LatestAction `json:"latest_action"`
	LatestActionDate time.Time           `json:"latest_action_date"`
	UpdateDate       time.Time           `json:"update_date"`
	URL              string              `json:"url"`
	TextPreview      string              `json:"text_preview"`
	FullText         string              `json:"full_text,omitempty"`
	AISummary        string              `json:"ai_summary"`
	VoteCount        int64               `json:"vote_count"`
	UpvoteCount      int64               `json:"upvote_count"`
	DownvoteCount    int64               `json:"downvote_count"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// presentBill omits the full text unless withText is set.
func presentBill(b domain.Bill, withText bool) billView {
	v := billView{
		ID:               b.ID,
		Congress:         b.Key.Congress,
		BillType:         b.Key.Type,
		BillNumber:       b.Key.Number,
		Title:            b.Title,
		OriginChamber:    b.OriginChamber,
		Sponsor:          b.Sponsor,
		LatestAction:     b.LatestAction,
		LatestActionDate: b.LatestActionDate,
		UpdateDate:       b.UpdateDate,
		URL:              b.URL,
		TextPreview:      b.TextPreview,
		AISummary:        b.AISummary,
		VoteCount:        b.Counters.Votes,
		UpvoteCount:      b.Counters.Upvotes,
		DownvoteCount:    b.Counters.Downvotes,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if withText {
		v.FullText = b.FullText
	}
	return v
}

func presentBills(bills []domain.Bill) []billView {
	out := make([]billView, 0, len(bills))
	for _, b := range bills {
		out = append(out, presentBill(b, false))
	}
	return out
}

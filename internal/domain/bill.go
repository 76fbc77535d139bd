package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const publicBillURL = "https://www.congress.gov/bill/%dth-congress/%s/%s"

// BillKey identifies a bill across congress sessions.
type BillKey struct {
	Congress int
	Type     string
	Number   string
}

// Valid reports whether every part of the key is present.
func (k BillKey) Valid() bool {
	return k.Congress > 0 && strings.TrimSpace(k.Type) != "" && strings.TrimSpace(k.Number) != ""
}

// PublicURL is the human-facing congress.gov page for the bill.
func (k BillKey) PublicURL() string {
	return fmt.Sprintf(publicBillURL, k.Congress, strings.ToLower(k.Type), k.Number)
}

func (k BillKey) String() string {
	return fmt.Sprintf("%d/%s/%s", k.Congress, strings.ToLower(k.Type), k.Number)
}

// LatestAction is the most recent legislative action reported upstream.
type LatestAction struct {
	ActionDate string `json:"actionDate,omitempty"`
	Text       string `json:"text,omitempty"`
}

// VoteCounters are the denormalized aggregates kept on every bill.
type VoteCounters struct {
	Votes     int64 `json:"vote_count"`
	Upvotes   int64 `json:"upvote_count"`
	Downvotes int64 `json:"downvote_count"`
}

// Bill is a stored legislative record.
type Bill struct {
	ID               int64        `json:"id"`
	Key              BillKey      `json:"-"`
	Title            string       `json:"title"`
	OriginChamber    string       `json:"origin_chamber"`
	Sponsor          string       `json:"sponsor"`
	LatestAction     LatestAction `json:"latest_action"`
	LatestActionDate time.Time    `json:"latest_action_date"`
	UpdateDate       time.Time    `json:"update_date"`
	URL              string       `json:"url"`
	TextPreview      string       `json:"text_preview"`
	FullText         string       `json:"full_text,omitempty"`
	AISummary        string       `json:"ai_summary"`
	Counters         VoteCounters `json:"counters"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// BillEntry is a single element of an upstream bill listing.
type BillEntry struct {
	Congress      int             `json:"congress"`
	Type          string          `json:"type"`
	Number        string          `json:"number"`
	Title         string          `json:"title"`
	OriginChamber string          `json:"originChamber"`
	UpdateDate    string          `json:"updateDate"`
	URL           string          `json:"url"`
	LatestAction  LatestAction    `json:"latestAction"`
	Raw           json.RawMessage `json:"-"`
}

// Key extracts the identifying triple; ok is false when any part is missing.
func (e BillEntry) Key() (BillKey, bool) {
	key := BillKey{Congress: e.Congress, Type: strings.TrimSpace(e.Type), Number: strings.TrimSpace(e.Number)}
	return key, key.Valid()
}

// BillDetail holds the fields only the per-bill detail endpoint provides.
type BillDetail struct {
	Title         string
	OriginChamber string
	Sponsor       string
	LatestAction  LatestAction
}

// BillPage is one page of an upstream listing.
type BillPage struct {
	Entries   []BillEntry
	Available int
}

// IngestOutcome reports what the reconciler did with one listing entry.
type IngestOutcome string

const (
	OutcomeInserted IngestOutcome = "inserted"
	OutcomeUpdated  IngestOutcome = "updated"
	OutcomeSkipped  IngestOutcome = "skipped"
)

// BatchResult summarizes a single ingestion run.
type BatchResult struct {
	Fetched   int
	Available int
	Inserted  int
	Updated   int
	Failed    int
	Titles    []string
}

// Record folds a single outcome into the running totals.
func (r *BatchResult) Record(outcome IngestOutcome, title string) {
	switch outcome {
	case OutcomeInserted:
		r.Inserted++
		r.Titles = append(r.Titles, title)
	case OutcomeUpdated:
		r.Updated++
	default:
		r.Failed++
	}
}

package storage

import (
	"time"

	"gorm.io/datatypes"

	"PolicyPal/internal/domain"
)

type billModel struct {
	ID               int64  `gorm:"primaryKey"`
	Congress         int    `gorm:"not null;uniqueIndex:idx_bills_key"`
	BillType         string `gorm:"size:16;not null;uniqueIndex:idx_bills_key"`
	BillNumber       string `gorm:"size:16;not null;uniqueIndex:idx_bills_key"`
	Title            string
	OriginChamber    string `gorm:"size:32;index"`
	Sponsor          string
	LatestAction     datatypes.JSONType[domain.LatestAction]
	LatestActionDate time.Time `gorm:"index"`
	UpdateDate       time.Time
	URL              string `gorm:"column:url"`
	TextPreview      string
	FullText         string
	AISummary        string    `gorm:"column:ai_summary"`
	VoteCount        int64     `gorm:"not null;default:0"`
	UpvoteCount      int64     `gorm:"not null;default:0;index"`
	DownvoteCount    int64     `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (billModel) TableName() string { return "bills" }

func billFromDomain(b domain.Bill) billModel {
	return billModel{
		ID:               b.ID,
		Congress:         b.Key.Congress,
		BillType:         b.Key.Type,
		BillNumber:       b.Key.Number,
		Title:            b.Title,
		OriginChamber:    b.OriginChamber,
		Sponsor:          b.Sponsor,
		LatestAction:     datatypes.NewJSONType(b.LatestAction),
		LatestActionDate: b.LatestActionDate.UTC(),
		UpdateDate:       b.UpdateDate.UTC(),
		URL:              b.URL,
		TextPreview:      b.TextPreview,
		FullText:         b.FullText,
		AISummary:        b.AISummary,
		VoteCount:        b.Counters.Votes,
		UpvoteCount:      b.Counters.Upvotes,
		DownvoteCount:    b.Counters.Downvotes,
		CreatedAt:        b.CreatedAt.UTC(),
		UpdatedAt:        b.UpdatedAt.UTC(),
	}
}

func (m billModel) toDomain() domain.Bill {
	return domain.Bill{
		ID:               m.ID,
		Key:              domain.BillKey{Congress: m.Congress, Type: m.BillType, Number: m.BillNumber},
		Title:            m.Title,
		OriginChamber:    m.OriginChamber,
		Sponsor:          m.Sponsor,
		LatestAction:     m.LatestAction.Data(),
		LatestActionDate: m.LatestActionDate,
		UpdateDate:       m.UpdateDate,
		URL:              m.URL,
		TextPreview:      m.TextPreview,
		FullText:         m.FullText,
		AISummary:        m.AISummary,
		Counters: domain.VoteCounters{
			Votes:     m.VoteCount,
			Upvotes:   m.UpvoteCount,
			Downvotes: m.DownvoteCount,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type userModel struct {
	ID                   int64  `gorm:"primaryKey"`
	Email                string `gorm:"size:255;not null;uniqueIndex"`
	Username             string `gorm:"size:64;not null;uniqueIndex"`
	PasswordHash         string `gorm:"not null"`
	Age                  *int
	Gender               string `gorm:"size:32"`
	Ethnicity            string `gorm:"size:64"`
	State                string `gorm:"size:16"`
	PoliticalAffiliation string `gorm:"size:32"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Profile: domain.Profile{
			Age:         m.Age,
			Gender:      m.Gender,
			Ethnicity:   m.Ethnicity,
			State:       m.State,
			Affiliation: m.PoliticalAffiliation,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// userVoteModel is one user's current stance on one bill, together with the
// buckets the user was counted in when the vote was applied.
type userVoteModel struct {
	ID             int64  `gorm:"primaryKey"`
	UserID         int64  `gorm:"not null;uniqueIndex:idx_user_votes_pair"`
	BillID         int64  `gorm:"not null;uniqueIndex:idx_user_votes_pair;index"`
	Status         string `gorm:"size:16;not null"`
	Classification datatypes.JSONType[domain.Classification]
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userVoteModel) TableName() string { return "user_votes" }

type voteRecordModel struct {
	BillID    int64 `gorm:"primaryKey;autoIncrement:false"`
	Upvote    datatypes.JSONType[domain.Snapshot]
	Downvote  datatypes.JSONType[domain.Snapshot]
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (voteRecordModel) TableName() string { return "vote_records" }

func (m voteRecordModel) toDomain() domain.VoteRecord {
	return domain.VoteRecord{BillID: m.BillID, Upvote: m.Upvote.Data().Complete(), Downvote: m.Downvote.Data().Complete()}
}

type scrapeTrackingModel struct {
	ID         int64  `gorm:"primaryKey"`
	Type       string `gorm:"size:32;not null;uniqueIndex"`
	NextOffset int    `gorm:"column:next_offset;not null;default:0"`
	UpdatedAt  time.Time
}

func (scrapeTrackingModel) TableName() string { return "scrape_tracking" }

type jobLockModel struct {
	Name      string    `gorm:"primaryKey;size:128"`
	Holder    string    `gorm:"size:64;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (jobLockModel) TableName() string { return "job_locks" }

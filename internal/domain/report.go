package domain

import "time"

// Report is a lobbying disclosure. Drafts live only in the relational store;
// published reports are also indexed for full-text search, which is their
// authoritative read path.
type Report struct {
	ID                string         `json:"id"`
	AuthorID          int64          `json:"authorId"`
	Date              time.Time      `json:"date"`
	Published         time.Time      `json:"published"`
	Title             string         `json:"title"`
	Body              string         `json:"body"`
	ReceivedBenefit   string         `json:"receivedBenefit"`
	ProvidedBenefit   string         `json:"providedBenefit"`
	OurParticipants   string         `json:"ourParticipants"`
	OtherParticipants string         `json:"otherParticipants"`
	Extra             map[string]any `json:"extra,omitempty"`
	IsDraft           bool           `json:"isDraft"`
}

type ReportSort string

const (
	ReportSortDate      ReportSort = "date"
	ReportSortPublished ReportSort = "published"
	ReportSortRelevance ReportSort = "_score"
)

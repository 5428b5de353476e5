package domain

import "time"

// User is an account in the relational store. Users with IsAuthor set have
// published at least one report and are exposed through the authors listing.
type User struct {
	ID        int64          `json:"id"`
	OpenIDUID string         `json:"openidUid"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	IsAuthor  bool           `json:"isAuthor"`
	Extra     map[string]any `json:"extra,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Author is a user projected into listing context. TotalReports counts the
// user's non-draft reports and is only computed for listings, not for single
// node lookups.
type Author struct {
	User
	TotalReports int64 `json:"totalReports"`
}

type AuthorSort string

const (
	AuthorSortLastName     AuthorSort = "last_name"
	AuthorSortTotalReports AuthorSort = "total_reports"
)

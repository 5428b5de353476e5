package es

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/openlobby/openlobby-server/internal/domain"
)

// ReportDocument is the index shape of a published report. Drafts never reach
// the index.
type ReportDocument struct {
	ID                string         `json:"id"`
	AuthorID          int64          `json:"author_id"`
	Date              time.Time      `json:"date"`
	Published         time.Time      `json:"published"`
	Title             string         `json:"title"`
	Body              string         `json:"body"`
	ReceivedBenefit   string         `json:"received_benefit"`
	ProvidedBenefit   string         `json:"provided_benefit"`
	OurParticipants   string         `json:"our_participants"`
	OtherParticipants string         `json:"other_participants"`
	Extra             map[string]any `json:"extra,omitempty"`
	IndexedAt         time.Time      `json:"indexed_at"`
}

// textFields are the report fields that participate in full-text matching and
// highlighting.
var textFields = []string{
	"title",
	"body",
	"received_benefit",
	"provided_benefit",
	"our_participants",
	"other_participants",
}

func mapToDocument(report domain.Report) ReportDocument {
	return ReportDocument{
		ID:                report.ID,
		AuthorID:          report.AuthorID,
		Date:              report.Date,
		Published:         report.Published,
		Title:             report.Title,
		Body:              report.Body,
		ReceivedBenefit:   report.ReceivedBenefit,
		ProvidedBenefit:   report.ProvidedBenefit,
		OurParticipants:   report.OurParticipants,
		OtherParticipants: report.OtherParticipants,
		Extra:             report.Extra,
		IndexedAt:         time.Now(),
	}
}

func (d ReportDocument) toDomain() domain.Report {
	return domain.Report{
		ID:                d.ID,
		AuthorID:          d.AuthorID,
		Date:              d.Date,
		Published:         d.Published,
		Title:             d.Title,
		Body:              d.Body,
		ReceivedBenefit:   d.ReceivedBenefit,
		ProvidedBenefit:   d.ProvidedBenefit,
		OurParticipants:   d.OurParticipants,
		OtherParticipants: d.OtherParticipants,
		Extra:             d.Extra,
	}
}

func buildMapping() types.TypeMapping {
	props := map[string]types.Property{
		"id":         types.NewKeywordProperty(),
		"author_id":  types.NewLongNumberProperty(),
		"date":       types.NewDateProperty(),
		"published":  types.NewDateProperty(),
		"extra":      types.NewObjectProperty(),
		"indexed_at": types.NewDateProperty(),
	}
	for _, field := range textFields {
		props[field] = types.NewTextProperty()
	}
	return types.TypeMapping{Properties: props}
}

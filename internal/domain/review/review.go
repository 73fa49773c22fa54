package review

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrChangeNotFound = errors.New("change not found")
	ErrReviewFailed   = errors.New("review failed")
	ErrNoReview       = errors.New("no review for change")
)

type ChangeStatus string

const (
	ChangeNew       ChangeStatus = "NEW"
	ChangeMerged    ChangeStatus = "MERGED"
	ChangeAbandoned ChangeStatus = "ABANDONED"
)

type FileStatus string

const (
	FileAdded    FileStatus = "ADDED"
	FileModified FileStatus = "MODIFIED"
	FileDeleted  FileStatus = "DELETED"
)

type FileChange struct {
	Path       string     `json:"path"`
	Status     FileStatus `json:"status"`
	Content    string     `json:"content"`
	OldContent string     `json:"oldContent,omitempty"`
}

// ChangeList is one patch set awaiting review.
type ChangeList struct {
	ID         string       `json:"id"`
	Project    string       `json:"project"`
	Branch     string       `json:"branch"`
	Subject    string       `json:"subject"`
	Status     ChangeStatus `json:"status"`
	Owner      string       `json:"owner"`
	Updated    string       `json:"updated"`
	Insertions int          `json:"insertions"`
	Deletions  int          `json:"deletions"`
	Files      []FileChange `json:"files"`
}

// Matches reports whether term occurs in the subject or the project,
// ignoring case.
func (c ChangeList) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Subject), term) ||
		strings.Contains(strings.ToLower(c.Project), term)
}

type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

type Suggestion struct {
	File     string   `json:"file"`
	Line     *int     `json:"line,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type AIReview struct {
	Summary     string       `json:"summary"`
	Sentiment   Sentiment    `json:"overallSentiment"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Normalize upper-cases the enums a model may return in mixed case and
// replaces unknown values with the neutral ones.
func (r AIReview) Normalize() AIReview {
	switch s := Sentiment(strings.ToUpper(strings.TrimSpace(string(r.Sentiment)))); s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		r.Sentiment = s
	default:
		r.Sentiment = SentimentNeutral
	}

	suggestions := make([]Suggestion, 0, len(r.Suggestions))
	for _, sg := range r.Suggestions {
		switch sev := Severity(strings.ToUpper(strings.TrimSpace(string(sg.Severity)))); sev {
		case SeverityLow, SeverityMedium, SeverityHigh:
			sg.Severity = sev
		default:
			sg.Severity = SeverityLow
		}
		suggestions = append(suggestions, sg)
	}
	r.Suggestions = suggestions
	return r
}

// Reviewer produces an AI review for a change.
type Reviewer interface {
	Review(ctx context.Context, change ChangeList) (AIReview, error)
}

// ChangeSource lists the patch sets available for review.
type ChangeSource interface {
	Changes(ctx context.Context) ([]ChangeList, error)
}

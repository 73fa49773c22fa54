// Package review serves the change dashboard and keeps the outcome of the
// last AI analysis requested for each change.
package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	domain "github.com/geritapp/gerit/internal/domain/review"
)

// FailureMessage is what a reader sees when an analysis could not finish.
const FailureMessage = "Falha ao analisar a alteração. Tente novamente."

type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Result is the analysis state of one change. Review is set when Status is
// done, Error when it is failed.
type Result struct {
	ChangeID   string           `json:"change_id"`
	Status     Status           `json:"status"`
	Review     *domain.AIReview `json:"review,omitempty"`
	Error      string           `json:"error,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}

// Observer is told how each analysis ended.
type Observer interface {
	ObserveReview(outcome Status, took time.Duration)
}

// Static serves a fixed list of changes.
type Static []domain.ChangeList

func (s Static) Changes(context.Context) ([]domain.ChangeList, error) {
	out := make([]domain.ChangeList, len(s))
	copy(out, s)
	return out, nil
}

type Option func(*Service)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) { s.log = logger.WithField("component", "review") }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

type Service struct {
	source   domain.ChangeSource
	reviewer domain.Reviewer
	observer Observer
	clock    clockwork.Clock
	log      *logrus.Entry

	mu      sync.Mutex
	results map[string]Result
}

func NewService(source domain.ChangeSource, reviewer domain.Reviewer, opts ...Option) *Service {
	s := &Service{
		source:   source,
		reviewer: reviewer,
		clock:    clockwork.NewRealClock(),
		log:      logrus.StandardLogger().WithField("component", "review"),
		results:  make(map[string]Result),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListChanges returns the changes whose subject or project contains term.
func (s *Service) ListChanges(ctx context.Context, term string) ([]domain.ChangeList, error) {
	changes, err := s.source.Changes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ChangeList, 0, len(changes))
	for _, c := range changes {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) GetChange(ctx context.Context, id string) (domain.ChangeList, error) {
	changes, err := s.source.Changes(ctx)
	if err != nil {
		return domain.ChangeList{}, err
	}
	for _, c := range changes {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.ChangeList{}, fmt.Errorf("%w: %s", domain.ErrChangeNotFound, id)
}

// Analyze asks the reviewer for one change and records the outcome. A
// failed call leaves a failed result behind until Reset or the next
// Analyze.
func (s *Service) Analyze(ctx context.Context, id string) (Result, error) {
	change, err := s.GetChange(ctx, id)
	if err != nil {
		return Result{}, err
	}

	started := s.clock.Now()
	s.store(Result{ChangeID: id, Status: StatusRunning, StartedAt: started})

	review, err := s.reviewer.Review(ctx, change)
	finished := s.clock.Now()
	took := finished.Sub(started)

	res := Result{ChangeID: id, StartedAt: started, FinishedAt: &finished}
	if err != nil {
		res.Status = StatusFailed
		res.Error = FailureMessage
		s.store(res)
		s.observe(StatusFailed, took)

		s.log.WithError(err).WithField("change_id", id).Warn("review failed")
		return res, fmt.Errorf("%w: %v", domain.ErrReviewFailed, err)
	}

	review = review.Normalize()
	res.Status = StatusDone
	res.Review = &review
	s.store(res)
	s.observe(StatusDone, took)

	s.log.WithFields(logrus.Fields{
		"change_id":   id,
		"sentiment":   review.Sentiment,
		"suggestions": len(review.Suggestions),
		"took":        took.String(),
	}).Info("review completed")
	return res, nil
}

func (s *Service) Result(id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.results[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrNoReview, id)
	}
	return res, nil
}

// Reset forgets the analysis of a change so it can be requested again.
func (s *Service) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, id)
}

func (s *Service) store(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.ChangeID] = res
}

func (s *Service) observe(outcome Status, took time.Duration) {
	if s.observer != nil {
		s.observer.ObserveReview(outcome, took)
	}
}

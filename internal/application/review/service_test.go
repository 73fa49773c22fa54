package review_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/application/review"
	domain "github.com/geritapp/gerit/internal/domain/review"
	"github.com/geritapp/gerit/internal/seed"
)

type fakeReviewer struct {
	clock  *clockwork.FakeClock
	err    error
	review domain.AIReview
	calls  int
}

func (f *fakeReviewer) Review(_ context.Context, change domain.ChangeList) (domain.AIReview, error) {
	f.calls++
	f.clock.Advance(3 * time.Second)
	return f.review, f.err
}

type observed struct {
	outcome review.Status
	took    time.Duration
}

type fakeObserver struct{ got []observed }

func (f *fakeObserver) ObserveReview(outcome review.Status, took time.Duration) {
	f.got = append(f.got, observed{outcome, took})
}

func newService(t *testing.T, reviewer *fakeReviewer, observer review.Observer) *review.Service {
	t.Helper()

	logger, _ := test.NewNullLogger()
	return review.NewService(review.Static(seed.Changes()), reviewer,
		review.WithClock(reviewer.clock),
		review.WithLogger(logger),
		review.WithObserver(observer),
	)
}

func TestListChanges(t *testing.T) {
	t.Parallel()

	svc := newService(t, &fakeReviewer{clock: clockwork.NewFakeClock()}, &fakeObserver{})

	all, err := svc.ListChanges(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := svc.ListChanges(context.Background(), "KERNEL")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "I98d7e6f", found[0].ID)

	_, err = svc.GetChange(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrChangeNotFound)
}

func TestAnalyzeStoresNormalizedReview(t *testing.T) {
	t.Parallel()

	line := 12
	reviewer := &fakeReviewer{
		clock: clockwork.NewFakeClock(),
		review: domain.AIReview{
			Summary:   "Looks fine.",
			Sentiment: "positive",
			Suggestions: []domain.Suggestion{
				{File: "services/geminiService.ts", Line: &line, Message: "Read the key from config.", Severity: "high"},
			},
		},
	}
	observer := &fakeObserver{}
	svc := newService(t, reviewer, observer)

	res, err := svc.Analyze(context.Background(), "I45a2b3c")
	require.NoError(t, err)
	assert.Equal(t, review.StatusDone, res.Status)
	require.NotNil(t, res.Review)
	assert.Equal(t, domain.SentimentPositive, res.Review.Sentiment)
	assert.Equal(t, domain.SeverityHigh, res.Review.Suggestions[0].Severity)

	stored, err := svc.Result("I45a2b3c")
	require.NoError(t, err)
	assert.Equal(t, res, stored)

	assert.Equal(t, []observed{{review.StatusDone, 3 * time.Second}}, observer.got)
}

func TestAnalyzeFailureAndReset(t *testing.T) {
	t.Parallel()

	reviewer := &fakeReviewer{clock: clockwork.NewFakeClock(), err: errors.New("quota exceeded")}
	svc := newService(t, reviewer, &fakeObserver{})

	res, err := svc.Analyze(context.Background(), "I98d7e6f")
	require.ErrorIs(t, err, domain.ErrReviewFailed)
	assert.Equal(t, review.StatusFailed, res.Status)
	assert.Equal(t, review.FailureMessage, res.Error)
	assert.Nil(t, res.Review)

	stored, err := svc.Result("I98d7e6f")
	require.NoError(t, err)
	assert.Equal(t, review.StatusFailed, stored.Status)

	svc.Reset("I98d7e6f")
	_, err = svc.Result("I98d7e6f")
	require.ErrorIs(t, err, domain.ErrNoReview)

	_, err = svc.Analyze(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrChangeNotFound)
	assert.Equal(t, 1, reviewer.calls)
}

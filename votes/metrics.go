package votes

import (
	"context"
	"time"

	"github.com/nasermirzaei89/talkboard/metrics"
)

const entityVote = "vote"

type MetricsMiddleware struct {
	metrics *metrics.Metrics
	next    Service
}

var _ Service = (*MetricsMiddleware)(nil)

func NewMetricsMiddleware(m *metrics.Metrics, next Service) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: m,
		next:    next,
	}
}

func (mw *MetricsMiddleware) CreateVote(ctx context.Context, req CreateVoteRequest) (vote *Vote, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityVote, "create", start, err) }(time.Now())

	return mw.next.CreateVote(ctx, req)
}

func (mw *MetricsMiddleware) ListVotes(ctx context.Context, params ListVotesParams) (votes []*Vote, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityVote, "list", start, err) }(time.Now())

	return mw.next.ListVotes(ctx, params)
}

func (mw *MetricsMiddleware) ListUpVotes(ctx context.Context) (votes []*Vote, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityVote, "list_up", start, err) }(time.Now())

	return mw.next.ListUpVotes(ctx)
}

func (mw *MetricsMiddleware) ListDownVotes(ctx context.Context) (votes []*Vote, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityVote, "list_down", start, err) }(time.Now())

	return mw.next.ListDownVotes(ctx)
}

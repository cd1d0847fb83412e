package discuss

import (
	"context"
	"time"

	"github.com/nasermirzaei89/talkboard/metrics"
)

const entityComment = "comment"

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

func (mw *MetricsMiddleware) CreateComment(ctx context.Context, req CreateCommentRequest) (comment *Comment, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityComment, "create", start, err) }(time.Now())

	return mw.next.CreateComment(ctx, req)
}

func (mw *MetricsMiddleware) EditComment(ctx context.Context, req EditCommentRequest) (comment *Comment, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityComment, "edit", start, err) }(time.Now())

	return mw.next.EditComment(ctx, req)
}

func (mw *MetricsMiddleware) GetComment(ctx context.Context, id string) (comment *Comment, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityComment, "get", start, err) }(time.Now())

	return mw.next.GetComment(ctx, id)
}

func (mw *MetricsMiddleware) ListComments(
	ctx context.Context,
	params ListCommentsParams,
) (comments []*Comment, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityComment, "list", start, err) }(time.Now())

	return mw.next.ListComments(ctx, params)
}

func (mw *MetricsMiddleware) DeleteComment(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityComment, "delete", start, err) }(time.Now())

	return mw.next.DeleteComment(ctx, id)
}

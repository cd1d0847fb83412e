package talks

import (
	"context"
	"time"

	"github.com/nasermirzaei89/talkboard/metrics"
)

const entityTalk = "talk"

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

func (mw *MetricsMiddleware) CreateTalk(ctx context.Context, req CreateTalkRequest) (talk *Talk, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityTalk, "create", start, err) }(time.Now())

	return mw.next.CreateTalk(ctx, req)
}

func (mw *MetricsMiddleware) GetTalk(ctx context.Context, id string) (talk *Talk, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityTalk, "get", start, err) }(time.Now())

	return mw.next.GetTalk(ctx, id)
}

func (mw *MetricsMiddleware) ListTalks(ctx context.Context, params ListTalksParams) (talks []*Talk, err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityTalk, "list", start, err) }(time.Now())

	return mw.next.ListTalks(ctx, params)
}

func (mw *MetricsMiddleware) AddSpeakers(ctx context.Context, talkID string, speakerIDs ...string) (err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityTalk, "add_speakers", start, err) }(time.Now())

	return mw.next.AddSpeakers(ctx, talkID, speakerIDs...)
}

func (mw *MetricsMiddleware) DeleteTalk(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { mw.metrics.Observe(entityTalk, "delete", start, err) }(time.Now())

	return mw.next.DeleteTalk(ctx, id)
}

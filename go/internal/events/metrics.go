package events

import (
	"context"
	"time"
)

// MetricsCollector records publish outcomes.
type MetricsCollector interface {
	RecordEventPublished(eventType string, success bool)
}

// MetricsFunc adapts a plain function to MetricsCollector.
type MetricsFunc func(eventType string, success bool)

func (f MetricsFunc) RecordEventPublished(eventType string, success bool) {
	f(eventType, success)
}

// MetricPublisher wraps a Publisher with metrics collection
type MetricPublisher struct {
	publisher Publisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher Publisher, metrics MetricsCollector) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, event Event) error {
	start := time.Now()

	err := p.publisher.Publish(ctx, event)

	p.metrics.RecordEventPublished(string(event.Type), err == nil)
	if err == nil {
		logPublished(event, time.Since(start))
	}
	return err
}

package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/keycalc/internal/event/topic"
)

// Subscription is a registered interest in a topic pattern.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  SubscriptionConfig
	seq     uint64

	cancelled atomic.Bool
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Filter is an optional predicate to filter events.
	Filter FilterFunc

	// Once indicates the subscription should auto-cancel after the first
	// successful delivery.
	Once bool
}

// SubscriptionOption is a function that configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce sets the subscription to auto-cancel after the first event.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

func newSubscription(pattern topic.Topic, h Handler, seq uint64, opts ...SubscriptionOption) *Subscription {
	cfg := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: h,
		config:  cfg,
		seq:     seq,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed topic pattern.
func (s *Subscription) Topic() topic.Topic { return s.pattern }

// Priority returns the subscription priority.
func (s *Subscription) Priority() Priority { return s.config.Priority }

// IsActive returns true until the subscription is cancelled.
func (s *Subscription) IsActive() bool { return !s.cancelled.Load() }

// Cancel stops delivery to this subscription.
func (s *Subscription) Cancel() { s.cancelled.Store(true) }

func (s *Subscription) shouldDeliver(ev Event) bool {
	if !s.IsActive() || !ev.Topic.Matches(s.pattern) {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(ev)
}

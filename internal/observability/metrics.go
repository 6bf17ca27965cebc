package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forumhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketChannelConnections is the gauge of connections per channel.
	WebSocketChannelConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forumhub_websocket_channel_connections",
		Help: "Number of WebSocket connections per channel",
	}, []string{"channel"})

	// MessageThroughput counts messages processed per channel and type.
	MessageThroughput = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_message_throughput_total",
		Help: "Total number of messages processed",
	}, []string{"channel", "message_type"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "forumhub_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// ThreadViewsTotal counts thread view increments by category.
	ThreadViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_thread_views_total",
		Help: "Total number of thread views recorded",
	}, []string{"category"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// WebSocketChannelMetrics tracks WebSocket channel and connection counts.
type WebSocketChannelMetrics struct {
	mu            sync.Mutex
	channelCounts map[string]int
}

// NewWebSocketChannelMetrics returns a new WebSocketChannelMetrics instance.
func NewWebSocketChannelMetrics() *WebSocketChannelMetrics {
	return &WebSocketChannelMetrics{
		channelCounts: make(map[string]int),
	}
}

// IncrementChannel increments the connection count for the channel.
func (m *WebSocketChannelMetrics) IncrementChannel(channel string) {
	m.mu.Lock()
	m.channelCounts[channel]++
	m.mu.Unlock()
	WebSocketChannelConnections.WithLabelValues(channel).Inc()
	WebSocketConnectionsTotal.Inc()
}

// DecrementChannel decrements the connection count for the channel.
func (m *WebSocketChannelMetrics) DecrementChannel(channel string) {
	m.mu.Lock()
	if m.channelCounts[channel] > 0 {
		m.channelCounts[channel]--
	}
	m.mu.Unlock()
	WebSocketChannelConnections.WithLabelValues(channel).Dec()
	WebSocketConnectionsTotal.Dec()
}

// GetChannelCount returns the current connection count for the channel.
func (m *WebSocketChannelMetrics) GetChannelCount(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelCounts[channel]
}

// RecordMessage increments message throughput counters for the channel and type.
func (*WebSocketChannelMetrics) RecordMessage(channel, messageType string) {
	MessageThroughput.WithLabelValues(channel, messageType).Inc()
}

// RecordWebSocketEvent increments the WebSocket events counter for the event type.
func (*WebSocketChannelMetrics) RecordWebSocketEvent(eventType string) {
	WebSocketEventsTotal.WithLabelValues(eventType).Inc()
}

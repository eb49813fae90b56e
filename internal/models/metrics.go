package models

import "time"

// SystemMetrics is the JSON snapshot served next to the Prometheus endpoint.
type SystemMetrics struct {
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	UpstreamCalls             uint64    `json:"upstreamCalls"`
	UpstreamFailures          uint64    `json:"upstreamFailures"`
	AverageUpstreamDurationMs float64   `json:"averageUpstreamDurationMs"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	Submissions               uint64    `json:"submissions"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

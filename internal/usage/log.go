// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package usage tracks API calls in memory and derives aggregate statistics.
// The log is append-only and volatile: it lives from process start to
// shutdown and is lost on restart.
package usage

import (
	"math"
	"sync"
	"time"
)

// Record is one immutable usage entry. APIKey and ErrorMessage are empty
// when not applicable.
type Record struct {
	Endpoint     string
	APIKey       string
	Timestamp    time.Time
	Success      bool
	ErrorMessage string
}

// Statistics are the aggregate counters served by /api/stats.
// RequestsPerSecond is averaged over the last 60 seconds; DailyRequests
// counts the last 24 hours.
type Statistics struct {
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	TotalRequests     int     `json:"totalRequests"`
	EndpointCount     int     `json:"endpointCount"`
	DailyRequests     int     `json:"dailyRequests"`
}

// Log is an append-safe in-memory usage log shared by all handlers.
// It is injected into the API server rather than accessed globally.
type Log struct {
	mu            sync.Mutex
	records       []Record
	endpointCount int

	// now is replaceable in tests to control time.
	now func() time.Time
}

// NewLog creates a usage log. endpointCount is the number of registered
// API endpoints, reported verbatim in Statistics.
func NewLog(endpointCount int) *Log {
	return &Log{
		endpointCount: endpointCount,
		now:           time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (l *Log) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Record appends one usage entry. Safe for concurrent use.
func (l *Log) Record(endpoint, apiKey string, success bool, errorMessage string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, Record{
		Endpoint:     endpoint,
		APIKey:       apiKey,
		Timestamp:    l.now(),
		Success:      success,
		ErrorMessage: errorMessage,
	})
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Recent returns up to limit entries, newest first.
func (l *Log) Recent(limit int) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 || limit > len(l.records) {
		limit = len(l.records)
	}
	out := make([]Record, limit)
	for i := 0; i < limit; i++ {
		out[i] = l.records[len(l.records)-1-i]
	}
	return out
}

// Statistics derives the aggregate counters from the log.
func (l *Log) Statistics() Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	minuteAgo := now.Add(-time.Minute)
	dayAgo := now.Add(-24 * time.Hour)

	var lastMinute, lastDay int
	for i := len(l.records) - 1; i >= 0; i-- {
		ts := l.records[i].Timestamp
		if ts.Before(dayAgo) {
			break
		}
		lastDay++
		if ts.After(minuteAgo) {
			lastMinute++
		}
	}

	return Statistics{
		RequestsPerSecond: math.Round(float64(lastMinute)/60*100) / 100,
		TotalRequests:     len(l.records),
		EndpointCount:     l.endpointCount,
		DailyRequests:     lastDay,
	}
}

// Copyright (c) 2026 The PollVenue developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// metrics is a singleton service that provides global access to a set of meters.
// It wraps multiple implementations and defaults to a no-op implementation,
// so that library users who never opt in pay nothing.
var metrics Metrics = &noopMetrics{}

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

// BucketHTTPReqs is the default bucket layout for http request durations, in ms.
var BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}

// CountMeter is a cumulative metric that can only increase.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter same as CountMeter but with labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a metric that can arbitrarily go up and down.
type GaugeMeter interface {
	Set(int64)
}

// HistogramVecMeter observes labeled values into configurable buckets.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// Counter returns a register-once counter by name.
func Counter(name string) CountMeter {
	return metrics.GetOrCreateCountMeter(name)
}

// CounterVec returns a register-once labeled counter by name.
func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

// Gauge returns a register-once gauge by name.
func Gauge(name string) GaugeMeter {
	return metrics.GetOrCreateGaugeMeter(name)
}

// HistogramVec returns a register-once labeled histogram by name.
func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.GetOrCreateHistogramVecMeter(name, labels, buckets)
}

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

type noopMetrics struct{}

type noopMeter struct{}

func (n *noopMeter) Add(int64)                                 {}
func (n *noopMeter) AddWithLabel(int64, map[string]string)     {}
func (n *noopMeter) Set(int64)                                 {}
func (n *noopMeter) ObserveWithLabels(int64, map[string]string) {}

func (n *noopMetrics) GetOrCreateCountMeter(string) CountMeter { return &noopMeter{} }

func (n *noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return &noopMeter{} }

func (n *noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter { return &noopMeter{} }

func (n *noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return &noopMeter{}
}

func (n *noopMetrics) GetOrCreateHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})
}

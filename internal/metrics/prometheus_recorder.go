package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	httpRequests       *prom.CounterVec
	generationDuration prom.Histogram
	suggestionsPerGen  prom.Histogram
	scheduleOutcomes   *prom.CounterVec
	approvals          prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "shopplan",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path, and status",
		}, []string{"method", "path", "status"}),
		generationDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "shopplan",
			Name:      "schedule_generation_duration_seconds",
			Help:      "Duration of weekly schedule generation",
			Buckets:   prom.DefBuckets,
		}),
		suggestionsPerGen: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "shopplan",
			Name:      "suggestions_per_schedule",
			Help:      "Number of suggestions kept per generated schedule",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 10},
		}),
		scheduleOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "shopplan",
			Name:      "schedule_outcomes_total",
			Help:      "Schedule generation outcomes",
		}, []string{"outcome"}),
		approvals: prom.NewCounter(prom.CounterOpts{
			Namespace: "shopplan",
			Name:      "suggestion_approvals_total",
			Help:      "Approved shopping suggestions",
		}),
	}
	reg.MustRegister(pr.httpRequests, pr.generationDuration, pr.suggestionsPerGen, pr.scheduleOutcomes, pr.approvals)
	return pr
}

func (p *PrometheusRecorder) IncHTTPRequest(method, path string, status int) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) ObserveScheduleGeneration(d time.Duration) {
	if p == nil || p.generationDuration == nil {
		return
	}
	p.generationDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveSuggestionsPerSchedule(n int) {
	if p == nil || p.suggestionsPerGen == nil {
		return
	}
	p.suggestionsPerGen.Observe(float64(n))
}

func (p *PrometheusRecorder) IncScheduleOutcome(outcome OutcomeLabel) {
	if p == nil || p.scheduleOutcomes == nil {
		return
	}
	p.scheduleOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncSuggestionApproved() {
	if p == nil || p.approvals == nil {
		return
	}
	p.approvals.Inc()
}

// HTTPHandler returns an http.Handler serving Prometheus metrics for the
// provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

package metrics

import (
	"sort"
	"time"

	"loadctl/internal/model"
)

// Metric names emitted by k6 that the aggregator routes. Anything else
// is counted as unmatched and otherwise ignored.
const (
	MetricRequests   = "http_reqs"
	MetricDuration   = "http_req_duration"
	MetricBlocked    = "http_req_blocked"
	MetricConnecting = "http_req_connecting"
	MetricTLS        = "http_req_tls_handshaking"
	MetricSending    = "http_req_sending"
	MetricWaiting    = "http_req_waiting"
	MetricReceiving  = "http_req_receiving"
	MetricChecks     = "checks"
	MetricDataSent   = "data_sent"
	MetricDataRecv   = "data_received"
	MetricVUs        = "vus"
)

// Aggregator routes samples into per-endpoint buckets and tracks the
// run-level VU peak.
type Aggregator struct {
	resolver  Resolver
	buckets   map[string]*model.Bucket
	peakVUs   int
	unmatched int
}

// NewAggregator creates an aggregator using the given resolver.
func NewAggregator(resolver Resolver) *Aggregator {
	return &Aggregator{
		resolver: resolver,
		buckets:  make(map[string]*model.Bucket),
	}
}

// Add routes one sample into its bucket.
func (a *Aggregator) Add(s model.Sample) {
	switch s.Metric {
	case MetricVUs:
		if v := int(s.Value); v > a.peakVUs {
			a.peakVUs = v
		}
	case MetricRequests:
		b := a.bucket(s)
		n := int(s.Value)
		b.Requests += n
		if !s.Time.IsZero() {
			if b.First.IsZero() || s.Time.Before(b.First) {
				b.First = s.Time
			}
			if s.Time.After(b.Last) {
				b.Last = s.Time
			}
			b.PerSecond[s.Time.Unix()] += n
		}
	case MetricDuration:
		b := a.bucket(s)
		b.Durations = append(b.Durations, s.Value)
	case MetricBlocked:
		a.bucket(s).Blocked.Add(s.Value)
	case MetricConnecting:
		a.bucket(s).Connecting.Add(s.Value)
	case MetricTLS:
		a.bucket(s).TLS.Add(s.Value)
	case MetricSending:
		a.bucket(s).Sending.Add(s.Value)
	case MetricWaiting:
		a.bucket(s).Waiting.Add(s.Value)
	case MetricReceiving:
		a.bucket(s).Receiving.Add(s.Value)
	case MetricChecks:
		b := a.bucket(s)
		if s.Value != 0 {
			b.ChecksPass++
		} else {
			b.ChecksFail++
		}
	case MetricDataSent:
		a.bucket(s).BytesSent += s.Value
	case MetricDataRecv:
		a.bucket(s).BytesReceived += s.Value
	default:
		a.unmatched++
	}
}

// AddAll routes every sample.
func (a *Aggregator) AddAll(samples []model.Sample) {
	for _, s := range samples {
		a.Add(s)
	}
}

// PeakVUs reports the highest vus value observed, 0 when none.
func (a *Aggregator) PeakVUs() int { return a.peakVUs }

// Unmatched reports how many samples carried a metric name the
// aggregator does not route.
func (a *Aggregator) Unmatched() int { return a.unmatched }

// Endpoints reports how many buckets were created.
func (a *Aggregator) Endpoints() int { return len(a.buckets) }

// Summarize finalizes all buckets into report rows sorted by endpoint
// name. now stamps rows whose bucket never saw a timestamped request.
func (a *Aggregator) Summarize(now time.Time) []model.Summary {
	names := make([]string, 0, len(a.buckets))
	for name := range a.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.Summary, 0, len(names))
	for _, name := range names {
		out = append(out, summarizeBucket(a.buckets[name], now))
	}
	return out
}

func (a *Aggregator) bucket(s model.Sample) *model.Bucket {
	name := a.resolver.Resolve(s)
	b, ok := a.buckets[name]
	if !ok {
		b = &model.Bucket{Endpoint: name, PerSecond: make(map[int64]int)}
		a.buckets[name] = b
	}
	return b
}

func summarizeBucket(b *model.Bucket, now time.Time) model.Summary {
	s := model.Summary{
		Endpoint:        b.Endpoint,
		Timestamp:       now.UTC(),
		TotalRequests:   b.Requests,
		AvgBlockedMs:    b.Blocked.Avg(),
		AvgConnectingMs: b.Connecting.Avg(),
		AvgTLSMs:        b.TLS.Avg(),
		AvgSendingMs:    b.Sending.Avg(),
		AvgWaitingMs:    b.Waiting.Avg(),
		AvgReceivingMs:  b.Receiving.Avg(),
		BytesSent:       b.BytesSent,
		BytesReceived:   b.BytesReceived,
	}
	if !b.Last.IsZero() {
		s.Timestamp = b.Last.UTC()
	}

	if st, err := Describe(b.Durations); err == nil {
		s.MinMs = st.Min
		s.MaxMs = st.Max
		s.AvgMs = st.Avg
		s.MedianMs = st.Median
		s.P90Ms = st.P90
		s.P95Ms = st.P95
		s.P99Ms = st.P99
	}

	// Zero observed checks reports 0, never NaN.
	if total := b.ChecksPass + b.ChecksFail; total > 0 {
		s.SuccessRatePct = 100 * float64(b.ChecksPass) / float64(total)
	}

	if span := b.Last.Sub(b.First).Seconds(); span > 0 {
		s.RequestsPerSec = float64(b.Requests) / span
	} else if b.Requests > 0 {
		// Every request landed in the same second; treat the span as
		// one second.
		s.RequestsPerSec = float64(b.Requests)
	}

	for _, n := range b.PerSecond {
		if n > s.PeakRPS {
			s.PeakRPS = n
		}
	}

	return s
}

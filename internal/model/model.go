package model

import "time"

// Sample is a single metric point decoded from a k6 NDJSON results file.
type Sample struct {
	Metric string
	Type   string // Point|Metric
	Time   time.Time
	Value  float64
	Tags   map[string]string
}

// Tag returns the named tag value, or "" when absent.
func (s Sample) Tag(key string) string {
	if s.Tags == nil {
		return ""
	}
	return s.Tags[key]
}

// Phase accumulates one http_req timing phase so its average can be
// computed without keeping every point.
type Phase struct {
	Sum float64
	N   int
}

// Add records one observation.
func (p *Phase) Add(v float64) {
	p.Sum += v
	p.N++
}

// Avg returns the mean of observed values, 0 when nothing was observed.
func (p Phase) Avg() float64 {
	if p.N == 0 {
		return 0
	}
	return p.Sum / float64(p.N)
}

// Bucket accumulates raw observations for one endpoint before
// summarization.
type Bucket struct {
	Endpoint      string
	Requests      int
	Durations     []float64
	ChecksPass    int
	ChecksFail    int
	BytesSent     float64
	BytesReceived float64
	Blocked       Phase
	Connecting    Phase
	TLS           Phase
	Sending       Phase
	Waiting       Phase
	Receiving     Phase
	// PerSecond counts requests by unix second for the peak rate.
	PerSecond map[int64]int
	First     time.Time
	Last      time.Time
}

// Summary is one finalized report row for an endpoint.
type Summary struct {
	Endpoint       string
	Timestamp      time.Time
	TotalRequests  int
	SuccessRatePct float64

	MinMs    float64
	MaxMs    float64
	AvgMs    float64
	MedianMs float64
	P90Ms    float64
	P95Ms    float64
	P99Ms    float64

	AvgBlockedMs    float64
	AvgConnectingMs float64
	AvgTLSMs        float64
	AvgSendingMs    float64
	AvgWaitingMs    float64
	AvgReceivingMs  float64

	BytesSent      float64
	BytesReceived  float64
	RequestsPerSec float64
	PeakRPS        int
}

package metrics

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"loadctl/internal/model"
)

// json serves the sample decode hot path; results files routinely run
// to hundreds of thousands of lines.
var json = jsoniter.ConfigFastest

// maxLineBytes bounds a single NDJSON line. k6 lines carrying URL tags
// get long but stay well under this.
const maxLineBytes = 1024 * 1024

type rawSample struct {
	Metric string  `json:"metric"`
	Type   string  `json:"type"`
	Data   rawData `json:"data"`
}

type rawData struct {
	Time  string            `json:"time"`
	Value float64           `json:"value"`
	Tags  map[string]string `json:"tags"`
}

// ReadFile reads a k6 NDJSON results file. See ReadSamples.
func ReadFile(path string) ([]model.Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return ReadSamples(f)
}

// ReadSamples decodes one JSON document per line into samples. Lines
// that fail to decode are skipped and counted; the count is returned so
// callers can surface it. Blank lines and metric definition records
// ("type":"Metric") are part of the stream format and are ignored
// without counting.
func ReadSamples(r io.Reader) ([]model.Sample, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var samples []model.Sample
	skipped := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var raw rawSample
		if err := json.Unmarshal(line, &raw); err != nil {
			skipped++
			continue
		}
		if raw.Type == "Metric" {
			// Definition record; carries no value.
			continue
		}
		if raw.Metric == "" {
			skipped++
			continue
		}

		// A bad timestamp zeroes Time but keeps the value.
		ts, _ := time.Parse(time.RFC3339Nano, raw.Data.Time)
		samples = append(samples, model.Sample{
			Metric: raw.Metric,
			Type:   raw.Type,
			Time:   ts,
			Value:  raw.Data.Value,
			Tags:   raw.Data.Tags,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}

	return samples, skipped, nil
}

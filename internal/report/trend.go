package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"loadctl/internal/model"
)

// Series groups one endpoint's rows across appended runs, in run order.
type Series struct {
	Endpoint string
	Runs     []model.Summary
}

// ReadFile parses a report produced by WriteFile and returns one block
// of rows per run. Blocks after the first carry no header line.
func ReadFile(path string) ([][]model.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseBlocks(string(data))
}

// Trend reorganizes run blocks into per-endpoint series sorted by
// endpoint name.
func Trend(blocks [][]model.Summary) []Series {
	byName := make(map[string][]model.Summary)
	names := []string{}
	for _, block := range blocks {
		for _, row := range block {
			if _, ok := byName[row.Endpoint]; !ok {
				names = append(names, row.Endpoint)
			}
			byName[row.Endpoint] = append(byName[row.Endpoint], row)
		}
	}
	sort.Strings(names)

	out := make([]Series, 0, len(names))
	for _, name := range names {
		out = append(out, Series{Endpoint: name, Runs: byName[name]})
	}
	return out
}

func parseBlocks(content string) ([][]model.Summary, error) {
	var blocks [][]model.Summary
	for _, chunk := range strings.Split(content, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		records, err := csv.NewReader(strings.NewReader(chunk)).ReadAll()
		if err != nil {
			return nil, err
		}

		rows := make([]model.Summary, 0, len(records))
		for _, rec := range records {
			if len(rec) > 0 && rec[0] == Header[0] {
				continue
			}
			row, err := parseRecord(rec)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		if len(rows) > 0 {
			blocks = append(blocks, rows)
		}
	}
	return blocks, nil
}

func parseRecord(rec []string) (model.Summary, error) {
	if len(rec) < len(Header) {
		return model.Summary{}, fmt.Errorf("short record: %d fields", len(rec))
	}

	ts, _ := time.ParseInLocation(timestampLayout, rec[1], time.UTC)
	s := model.Summary{
		Endpoint:  rec[0],
		Timestamp: ts,
	}
	s.TotalRequests, _ = strconv.Atoi(rec[2])
	s.SuccessRatePct = parseFloat(rec[3])
	s.MinMs = parseFloat(rec[4])
	s.MaxMs = parseFloat(rec[5])
	s.AvgMs = parseFloat(rec[6])
	s.MedianMs = parseFloat(rec[7])
	s.P90Ms = parseFloat(rec[8])
	s.P95Ms = parseFloat(rec[9])
	s.P99Ms = parseFloat(rec[10])
	s.AvgBlockedMs = parseFloat(rec[11])
	s.AvgConnectingMs = parseFloat(rec[12])
	s.AvgTLSMs = parseFloat(rec[13])
	s.AvgSendingMs = parseFloat(rec[14])
	s.AvgWaitingMs = parseFloat(rec[15])
	s.AvgReceivingMs = parseFloat(rec[16])
	s.BytesSent = parseFloat(rec[17]) * 1024
	s.BytesReceived = parseFloat(rec[18]) * 1024
	s.RequestsPerSec = parseFloat(rec[19])
	s.PeakRPS, _ = strconv.Atoi(rec[20])
	return s, nil
}

func parseFloat(v string) float64 {
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

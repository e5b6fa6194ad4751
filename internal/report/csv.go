package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"loadctl/internal/model"
)

// timestampLayout renders the Date/Time column. Always UTC.
const timestampLayout = "2006-01-02 15:04:05"

// Header is the fixed column order of report files.
var Header = []string{
	"Endpoint",
	"Date/Time",
	"Total Requests",
	"Success Rate %",
	"Min ms",
	"Max ms",
	"Avg ms",
	"Median ms",
	"P90 ms",
	"P95 ms",
	"P99 ms",
	"Avg Blocked ms",
	"Avg Connecting ms",
	"Avg TLS ms",
	"Avg Sending ms",
	"Avg Waiting ms",
	"Avg Receiving ms",
	"Data Sent KB",
	"Data Received KB",
	"Requests/sec",
	"Peak RPS",
}

// Options controls WriteFile.
type Options struct {
	// Append adds rows to an existing report instead of replacing it.
	// Runs are separated by one blank line and the header is written
	// only when the file is new or empty.
	Append bool
}

// Write renders summaries as CSV to w, header included. Every field is
// double-quoted, embedded quotes doubled per RFC 4180.
func Write(w io.Writer, summaries []model.Summary) error {
	if err := writeRow(w, Header); err != nil {
		return err
	}
	return writeRows(w, summaries)
}

// WriteFile writes or appends a report at path, creating parent
// directories. Appending to a missing or empty file is the same as
// creating it; appending zero rows is a no-op.
func WriteFile(path string, summaries []model.Summary, opts Options) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	appendTo := false
	if opts.Append {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.Size() > 0:
			appendTo = true
		case err != nil && !os.IsNotExist(err):
			return err
		}
	}

	var buf bytes.Buffer
	if appendTo {
		if len(summaries) == 0 {
			return nil
		}
		buf.WriteByte('\n')
		if err := writeRows(&buf, summaries); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		if _, err := f.Write(buf.Bytes()); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	if err := Write(&buf, summaries); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// record renders one summary in Header order.
func record(s model.Summary) []string {
	return []string{
		s.Endpoint,
		s.Timestamp.UTC().Format(timestampLayout),
		strconv.Itoa(s.TotalRequests),
		formatFloat(s.SuccessRatePct),
		formatFloat(s.MinMs),
		formatFloat(s.MaxMs),
		formatFloat(s.AvgMs),
		formatFloat(s.MedianMs),
		formatFloat(s.P90Ms),
		formatFloat(s.P95Ms),
		formatFloat(s.P99Ms),
		formatFloat(s.AvgBlockedMs),
		formatFloat(s.AvgConnectingMs),
		formatFloat(s.AvgTLSMs),
		formatFloat(s.AvgSendingMs),
		formatFloat(s.AvgWaitingMs),
		formatFloat(s.AvgReceivingMs),
		formatFloat(s.BytesSent / 1024),
		formatFloat(s.BytesReceived / 1024),
		formatFloat(s.RequestsPerSec),
		strconv.Itoa(s.PeakRPS),
	}
}

func writeRows(w io.Writer, summaries []model.Summary) error {
	for _, s := range summaries {
		if err := writeRow(w, record(s)); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	_, err := fmt.Fprintln(w, strings.Join(quoted, ","))
	return err
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

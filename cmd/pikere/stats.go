package main

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// stats are the counters reported by -stats, in Prometheus text format.
type stats struct {
	set *metrics.Set

	linesScanned *metrics.Counter
	linesMatched *metrics.Counter
	bytesScanned *metrics.Counter
	filesFailed  *metrics.Counter
	scanDuration *metrics.Histogram
}

func newStats() *stats {
	set := metrics.NewSet()
	return &stats{
		set:          set,
		linesScanned: set.NewCounter("pikere_lines_scanned_total"),
		linesMatched: set.NewCounter("pikere_lines_matched_total"),
		bytesScanned: set.NewCounter("pikere_bytes_scanned_total"),
		filesFailed:  set.NewCounter("pikere_files_failed_total"),
		scanDuration: set.NewHistogram("pikere_file_scan_duration_seconds"),
	}
}

func (s *stats) write(w io.Writer) {
	s.set.WritePrometheus(w)
}

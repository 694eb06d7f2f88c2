package attack

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"
)

var csvHeader = []string{"attempt", "timestamp", "password", "http_status", "latency_ms"}

// WriteCSV writes one row per attempt
func WriteCSV(w io.Writer, attempts []Attempt) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, a := range attempts {
		row := []string{
			strconv.Itoa(a.Number),
			strconv.FormatFloat(unixSeconds(a.Timestamp), 'f', 6, 64),
			a.Password,
			strconv.Itoa(a.HTTPStatus),
			strconv.FormatFloat(millis(a.Latency), 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Summary aggregates a run. Latencies are in milliseconds.
type Summary struct {
	Total           int
	Success         bool
	SuccessAttempt  int
	SuccessPassword string
	Duration        time.Duration
	MeanMs          float64
	MedianMs        float64
	P95Ms           float64
	StatusCounts    map[int]int
}

// Summarize computes totals and latency statistics for result
func Summarize(result *Result) Summary {
	s := Summary{
		Total:        len(result.Attempts),
		Duration:     result.Duration,
		StatusCounts: make(map[int]int),
	}

	if found, ok := result.Found(); ok {
		s.Success = true
		s.SuccessAttempt = found.Number
		s.SuccessPassword = found.Password
	}

	latencies := make([]float64, 0, len(result.Attempts))
	for _, a := range result.Attempts {
		s.StatusCounts[a.HTTPStatus]++
		latencies = append(latencies, millis(a.Latency))
	}
	if len(latencies) == 0 {
		return s
	}

	sort.Float64s(latencies)
	s.MeanMs = mean(latencies)
	s.MedianMs = median(latencies)
	s.P95Ms = Percentile(latencies, 95)
	return s
}

// Percentile returns the value at index int(len*p/100) of sorted, clamped to
// the slice bounds. sorted must be ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p / 100)
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// WriteSummary prints s in a human-readable block
func WriteSummary(w io.Writer, s Summary, csvPath string) {
	fmt.Fprintln(w, "\n--- SUMMARY ---")
	fmt.Fprintf(w, "Total attempts: %d\n", s.Total)
	if s.Success {
		fmt.Fprintf(w, "Success on attempt %d with password: %s\n", s.SuccessAttempt, s.SuccessPassword)
	} else {
		fmt.Fprintln(w, "Password not found")
	}
	fmt.Fprintf(w, "Total time: %.3f s\n", s.Duration.Seconds())
	if s.Total > 0 {
		fmt.Fprintf(w, "Mean latency: %.2f ms\n", s.MeanMs)
		fmt.Fprintf(w, "Median latency: %.2f ms\n", s.MedianMs)
		fmt.Fprintf(w, "p95 latency: %.2f ms\n", s.P95Ms)

		statuses := make([]int, 0, len(s.StatusCounts))
		for status := range s.StatusCounts {
			statuses = append(statuses, status)
		}
		sort.Ints(statuses)
		for _, status := range statuses {
			fmt.Fprintf(w, "HTTP %d: %d\n", status, s.StatusCounts[status])
		}
	}
	if csvPath != "" {
		fmt.Fprintf(w, "CSV written to: %s\n", csvPath)
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// median of an ascending, non-empty slice
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

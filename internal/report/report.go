// Package report implements the JSON/CSV stats and health-report
// formatters (D5). No third-party JSON or CSV library appears anywhere
// in the retrieval pack, so this component uses the standard library's
// encoding/json and encoding/csv directly (see DESIGN.md).
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/RamXX/vlt/internal/graph"
)

// StatsReport is the JSON/CSV-serializable view of a vault's Link Graph
// statistics (spec §4.5 Stats, enriched with a humanized edge count for
// D10's report-byte/edge-count messaging, plus the RFC 3339 UTC timestamp
// both report formats carry per spec §6).
type StatsReport struct {
	TotalNodes      int     `json:"total_nodes"`
	TotalEdges      int     `json:"total_edges"`
	TotalEdgesHuman string  `json:"total_edges_human"`
	OrphanCount     int     `json:"orphan_count"`
	AvgDegree       float64 `json:"avg_degree"`
	Density         float64 `json:"density"`
	CycleCount      int     `json:"cycle_count"`
	Timestamp       string  `json:"timestamp"`
}

// NewStatsReport builds a StatsReport from a graph.Stats snapshot, stamped
// with the current time.
func NewStatsReport(s graph.Stats) StatsReport {
	return StatsReport{
		TotalNodes:      s.TotalNodes,
		TotalEdges:      s.TotalEdges,
		TotalEdgesHuman: humanize.Comma(int64(s.TotalEdges)),
		OrphanCount:     s.OrphanCount,
		AvgDegree:       s.AvgDegree,
		Density:         s.Density,
		CycleCount:      s.CycleCount,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

// WriteStatsJSON writes a StatsReport as indented JSON.
func WriteStatsJSON(w io.Writer, s graph.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewStatsReport(s))
}

// WriteStatsCSV writes a StatsReport as a single-row CSV, the same named
// fields as WriteStatsJSON plus the header row.
func WriteStatsCSV(w io.Writer, s graph.Stats) error {
	r := NewStatsReport(s)
	cw := csv.NewWriter(w)
	header := []string{
		"total_nodes", "total_edges", "total_edges_human",
		"orphan_count", "avg_degree", "density", "cycle_count", "timestamp",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := []string{
		strconv.Itoa(r.TotalNodes),
		strconv.Itoa(r.TotalEdges),
		r.TotalEdgesHuman,
		strconv.Itoa(r.OrphanCount),
		strconv.FormatFloat(r.AvgDegree, 'f', -1, 64),
		strconv.FormatFloat(r.Density, 'f', -1, 64),
		strconv.Itoa(r.CycleCount),
		r.Timestamp,
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// BrokenLinkRow is one row of a broken-links CSV health report.
type BrokenLinkRow struct {
	Source string
	Target string
	Kind   string
}

// WriteBrokenLinksCSV writes every broken edge as a CSV row, sorted by
// (source, target) for deterministic output.
func WriteBrokenLinksCSV(w io.Writer, edges []graph.Edge) error {
	rows := make([]BrokenLinkRow, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, BrokenLinkRow{Source: e.Source, Target: e.Target, Kind: string(e.Kind)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Source != rows[j].Source {
			return rows[i].Source < rows[j].Source
		}
		return rows[i].Target < rows[j].Target
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target", "kind"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Source, r.Target, r.Kind}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileSizeDiagnostic renders a FileTooLarge-style message with a
// human-readable byte count (D10), matching the error taxonomy's Size
// field.
func FileSizeDiagnostic(path string, size, limit int64) string {
	return path + ": " + humanize.Bytes(uint64(size)) + " exceeds limit of " + humanize.Bytes(uint64(limit))
}

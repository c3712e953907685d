package blindbench

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// Row is the flat tabular projection of one mode's result: one row per mode
// per run, consumed by the presentation/export layer.
type Row struct {
	Timestamp    time.Time `json:"timestamp"`
	DatasetID    string    `json:"datasetId"`
	DatasetSize  int       `json:"datasetSize"`
	Query        string    `json:"query"`
	Mode         Mode      `json:"mode"`
	TotalMs      float64   `json:"totalMs"`
	IndexMs      float64   `json:"indexMs"`
	FetchMs      float64   `json:"fetchMs"`
	DecryptMs    float64   `json:"decryptMs"`
	ScanMs       float64   `json:"scanMs"`
	CacheBuildMs float64   `json:"cacheBuildMs"`
	ResultCount  int       `json:"resultCount"`
	SampleNote   string    `json:"sampleNote"`
}

// csvHeader fixes the export column order. Do not reorder: downstream
// consumers import by position.
var csvHeader = []string{
	"timestamp", "datasetId", "datasetSize", "query", "mode",
	"totalMs", "indexMs", "fetchMs", "decryptMs", "scanMs", "cacheBuildMs",
	"resultCount", "sampleNote",
}

// NewRow projects a result into its flat export form.
func NewRow(ts time.Time, datasetID string, datasetSize int, query string, res *Result) Row {
	return Row{
		Timestamp:    ts,
		DatasetID:    datasetID,
		DatasetSize:  datasetSize,
		Query:        query,
		Mode:         res.Mode,
		TotalMs:      res.TotalMs,
		IndexMs:      res.Breakdown.IndexMs,
		FetchMs:      res.Breakdown.FetchMs,
		DecryptMs:    res.Breakdown.DecryptMs,
		ScanMs:       res.Breakdown.ScanMs,
		CacheBuildMs: res.Breakdown.CacheBuildMs,
		ResultCount:  res.ResultCount,
		SampleNote:   res.SampleNote,
	}
}

func (r Row) strings() []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.DatasetID,
		strconv.Itoa(r.DatasetSize),
		r.Query,
		string(r.Mode),
		formatMs(r.TotalMs),
		formatMs(r.IndexMs),
		formatMs(r.FetchMs),
		formatMs(r.DecryptMs),
		formatMs(r.ScanMs),
		formatMs(r.CacheBuildMs),
		strconv.Itoa(r.ResultCount),
		r.SampleNote,
	}
}

func formatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 3, 64)
}

// WriteCSV writes the header and one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

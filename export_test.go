package blindbench

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRow(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	res := &Result{
		Mode:    ModeBlindIndex,
		TotalMs: 4.5,
		Breakdown: Breakdown{
			IndexMs:   1.5,
			FetchMs:   2.0,
			DecryptMs: 1.0,
		},
		ResultCount: 75,
		SampleNote:  "index bucket holds 75 matches; fetched and decrypted only the first 50",
	}

	row := NewRow(ts, "persons", 1000, "an", res)
	assert.Equal(t, ts, row.Timestamp)
	assert.Equal(t, "persons", row.DatasetID)
	assert.Equal(t, 1000, row.DatasetSize)
	assert.Equal(t, "an", row.Query)
	assert.Equal(t, ModeBlindIndex, row.Mode)
	assert.Equal(t, 4.5, row.TotalMs)
	assert.Equal(t, 1.5, row.IndexMs)
	assert.Equal(t, 75, row.ResultCount)
	assert.NotEmpty(t, row.SampleNote)
}

func TestWriteCSV(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{
			Timestamp:   ts,
			DatasetID:   "persons",
			DatasetSize: 3,
			Query:       "an",
			Mode:        ModeDecryptScan,
			TotalMs:     12.345,
			FetchMs:     10.0,
			DecryptMs:   2.0,
			ScanMs:      0.345,
			ResultCount: 2,
		},
		{
			Timestamp:   ts,
			DatasetID:   "persons",
			DatasetSize: 3,
			Query:       "an",
			Mode:        ModeBlindIndex,
			TotalMs:     1.5,
			IndexMs:     1.5,
			ResultCount: 2,
			SampleNote:  "note, with comma",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)

	assert.Equal(t, csvHeader, parsed[0])

	first := parsed[1]
	require.Len(t, first, len(csvHeader))
	assert.Equal(t, "2026-08-01T12:00:00Z", first[0])
	assert.Equal(t, "persons", first[1])
	assert.Equal(t, "3", first[2])
	assert.Equal(t, "an", first[3])
	assert.Equal(t, "decrypt-scan", first[4])
	assert.Equal(t, "12.345", first[5])
	assert.Equal(t, "10.000", first[7])
	assert.Equal(t, "2", first[11])
	assert.Equal(t, "", first[12])

	// csv quoting keeps the note intact.
	assert.Equal(t, "note, with comma", parsed[2][12])
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, csvHeader, parsed[0])
}

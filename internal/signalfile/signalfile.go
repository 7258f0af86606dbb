// Package signalfile imports trend and metrics exports stored as JSONL
// into a store.SignalStore.
package signalfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cognicore/kwscout/pkg/kwscout/store"
)

// Row is one line of a signal export. Absent fields keep the value already
// stored for the phrase.
type Row struct {
	Phrase      string    `json:"phrase"`
	Trend       *int      `json:"trend,omitempty"`
	Volume      *int      `json:"volume,omitempty"`
	Competition *float64  `json:"competition,omitempty"`
	ObservedAt  time.Time `json:"observed_at,omitempty"`
}

// Stats summarizes an import.
type Stats struct {
	Rows    int // rows written
	Skipped int // malformed or empty rows
}

const maxLine = 1 << 20

// ImportFile reads path and writes its rows into st.
func ImportFile(ctx context.Context, path string, st store.SignalStore, log zerolog.Logger) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(ctx, f, st, log.With().Str("file", path).Logger())
}

// Import streams JSONL rows from r into st. Malformed lines are logged and
// skipped; store failures abort the import.
func Import(ctx context.Context, r io.Reader, st store.SignalStore, log zerolog.Logger) (Stats, error) {
	var stats Stats
	now := time.Now().UTC()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		row, err := ParseRow([]byte(text))
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping malformed signal row")
			stats.Skipped++
			continue
		}
		if row.ObservedAt.IsZero() {
			row.ObservedAt = now
		}
		if err := write(ctx, st, row); err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		stats.Rows++
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read signals: %w", err)
	}
	log.Info().Int("rows", stats.Rows).Int("skipped", stats.Skipped).Msg("signal import complete")
	return stats, nil
}

// ParseRow decodes and validates one line.
func ParseRow(data []byte) (Row, error) {
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return Row{}, err
	}
	row.Phrase = strings.TrimSpace(row.Phrase)
	switch {
	case row.Phrase == "":
		return Row{}, errors.New("missing phrase")
	case row.Trend == nil && row.Volume == nil && row.Competition == nil:
		return Row{}, errors.New("no signals")
	case row.Trend != nil && *row.Trend < 0:
		return Row{}, fmt.Errorf("negative trend %d", *row.Trend)
	case row.Volume != nil && *row.Volume < 0:
		return Row{}, fmt.Errorf("negative volume %d", *row.Volume)
	case row.Competition != nil && (math.IsNaN(*row.Competition) || *row.Competition < 0 || *row.Competition > 1):
		return Row{}, fmt.Errorf("competition %v outside [0,1]", *row.Competition)
	}
	return row, nil
}

func write(ctx context.Context, st store.SignalStore, row Row) error {
	if row.Trend != nil {
		if err := st.UpsertTrend(ctx, row.Phrase, *row.Trend, row.ObservedAt); err != nil {
			return err
		}
	}
	if row.Volume == nil && row.Competition == nil {
		return nil
	}

	// fields absent from the row keep their stored value
	volume, competition := 0, 1.0
	if row.Volume == nil || row.Competition == nil {
		prev, ok, err := st.GetMetrics(ctx, row.Phrase)
		if err != nil {
			return err
		}
		if ok {
			volume, competition = prev.Volume, prev.Competition
		}
	}
	if row.Volume != nil {
		volume = *row.Volume
	}
	if row.Competition != nil {
		competition = *row.Competition
	}
	return st.UpsertMetrics(ctx, row.Phrase, volume, competition, row.ObservedAt)
}

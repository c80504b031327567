package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/JonMunkholm/numanalyzer/internal/logging"
	"github.com/google/uuid"
)

// ContextCheckInterval is how often (in rows) to check for context cancellation.
var ContextCheckInterval = 100

// AnalyzeFile opens path, runs Analyze on it and closes the file on every
// exit path.
func AnalyzeFile(ctx context.Context, path string, s Settings) (*Analysis, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	return Analyze(ctx, f, path, s)
}

// Analyze reads the whole input, validates every row and then aggregates the
// accepted numbers. Row-level problems are recorded in the result; an error
// is returned only when the input cannot be read at all.
func Analyze(ctx context.Context, r io.Reader, source string, s Settings) (*Analysis, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	a := &Analysis{
		ID:         uuid.NewString(),
		Source:     source,
		Settings:   s,
		Valid:      []int64{},
		Rejections: []Rejection{},
	}

	ctx = logging.WithRunID(ctx, a.ID)
	logger := logging.WithFields(ctx, "source", source, "column", s.ColumnLabel())
	logger.Info("analysis started", "range", s.RangeLabel(), "threshold", s.Threshold)

	src, err := NewRowSource(r, s)
	if err != nil {
		return nil, err
	}

	col, rej, err := src.ReadHeader(s)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if rej != nil {
		logger.Warn("analysis stopped at header", "reason", rej.Reason)
		a.Rejections = append(a.Rejections, *rej)
		a.Structural = true
		a.finish(start)
		return a, nil
	}

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("analysis cancelled after %d rows: %w", i, err)
			}
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		res := ValidateRow(row.Fields, col, row.Line, s)
		if !res.OK() {
			logger.Debug("row rejected", "line", res.Rejection.Line, "reason", res.Rejection.Reason)
			a.Rejections = append(a.Rejections, res.Rejection)
			continue
		}
		a.Valid = append(a.Valid, res.Value)
	}

	a.finish(start)
	logger.Info("analysis complete",
		"valid", a.Stats.Count,
		"rejected", len(a.Rejections),
		"low", len(a.Partition.Low),
		"high", len(a.Partition.High),
		"duration_ms", a.Duration.Milliseconds(),
	)
	return a, nil
}

// finish runs the aggregation step once all rows are known.
func (a *Analysis) finish(start time.Time) {
	a.Partition = Categorize(a.Valid, a.Settings.Threshold)
	a.Stats = Summarize(a.Valid)
	a.Duration = time.Since(start)
}

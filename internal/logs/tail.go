package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	pollInterval  = 250 * time.Millisecond
	maxLineLength = 1024 * 1024
)

// Options selects which lines Tail returns.
//
// A negative Offset means "the last Limit lines"; Limit 0 then returns nothing
// and only reports the end offset. A non-negative Offset reads everything
// written after it. Match, when set, must appear in a line for it to count.
type Options struct {
	Offset int64
	Limit  int
	Match  string
	Follow bool
	Wait   time.Duration
}

// Result carries the lines read and the offset to pass on the next call.
type Result struct {
	Lines  []string
	Offset int64
}

// Tail reads path according to opts. A missing file is not an error; the log
// simply has not been written yet.
func Tail(ctx context.Context, path string, opts Options) (Result, error) {
	result := Result{Offset: opts.Offset}
	if strings.TrimSpace(path) == "" {
		return result, errors.New("log path is not configured")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Offset = 0
			return result, nil
		}
		return result, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("log path %q is a directory", path)
	}
	if opts.Wait < 0 {
		opts.Wait = 0
	}

	if opts.Offset < 0 {
		lines, offset, err := scan(path, 0, opts.Match, opts.Limit)
		if err != nil {
			return result, err
		}
		result = Result{Lines: lines, Offset: offset}
	} else {
		offset := opts.Offset
		if offset > info.Size() {
			// Truncated or rotated; start over.
			offset = 0
		}
		lines, next, err := scan(path, offset, opts.Match, -1)
		if err != nil {
			return result, err
		}
		result = Result{Lines: lines, Offset: next}
	}

	if opts.Follow && opts.Wait > 0 && len(result.Lines) == 0 {
		return poll(ctx, path, result.Offset, opts.Match, opts.Wait)
	}
	return result, nil
}

// scan reads from offset to EOF. limit < 0 keeps every matching line; limit
// >= 0 keeps only the last limit lines.
func scan(path string, offset int64, match string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewScanner(file)
	reader.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var kept []string
	for reader.Scan() {
		line := reader.Text()
		if match != "" && !strings.Contains(line, match) {
			continue
		}
		if limit == 0 {
			continue
		}
		kept = append(kept, line)
		if limit > 0 && len(kept) > limit {
			kept = kept[1:]
		}
	}
	if err := reader.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	end, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("determine log offset: %w", err)
	}
	return kept, end, nil
}

func poll(ctx context.Context, path string, offset int64, match string, wait time.Duration) (Result, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	result := Result{Offset: offset}
	for {
		lines, next, err := scan(path, offset, match, -1)
		if err != nil {
			return result, err
		}
		result.Offset = next
		if len(lines) > 0 {
			result.Lines = lines
			return result, nil
		}
		if time.Now().After(deadline) {
			return result, nil
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}

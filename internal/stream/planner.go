package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformed      = errors.New("malformed range header")
	ErrNotSatisfiable = errors.New("range not satisfiable")
)

// Plan is a byte window over a file of Size bytes. Start and End are
// inclusive, 0 <= Start <= End < Size.
type Plan struct {
	Start   int64
	End     int64
	Size    int64
	Partial bool
}

func (p Plan) Length() int64 {
	return p.End - p.Start + 1
}

// FullPlan covers the whole file as a non-partial response.
func FullPlan(size int64) Plan {
	return Plan{Start: 0, End: size - 1, Size: size, Partial: false}
}

// PlanRange parses a Range header against a known file size. An empty
// header yields a full-file plan. When the end is omitted it is capped
// at window bytes past the start, so an open-ended request never
// produces an unbounded response. A start at or past the file size is
// ErrNotSatisfiable; unparseable header text is ErrMalformed.
func PlanRange(header string, size, window int64) (Plan, error) {
	if header == "" {
		return FullPlan(size), nil
	}

	h := strings.TrimSpace(strings.ToLower(header))
	if !strings.HasPrefix(h, "bytes=") {
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformed, header)
	}

	rangeSpec := strings.TrimPrefix(h, "bytes=")
	if strings.Contains(rangeSpec, ",") {
		// multi-range requests are not supported
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformed, header)
	}

	se := strings.SplitN(strings.TrimSpace(rangeSpec), "-", 2)
	if len(se) != 2 {
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformed, header)
	}

	// suffix form: bytes=-N is the last N bytes
	if se[0] == "" {
		n, err := strconv.ParseInt(se[1], 10, 64)
		if err != nil || n <= 0 {
			return Plan{}, fmt.Errorf("%w: %q", ErrMalformed, header)
		}
		if size == 0 {
			return Plan{}, fmt.Errorf("%w: empty file", ErrNotSatisfiable)
		}
		if n > size {
			n = size
		}
		return Plan{Start: size - n, End: size - 1, Size: size, Partial: true}, nil
	}

	start, err := strconv.ParseInt(se[0], 10, 64)
	if err != nil || start < 0 {
		return Plan{}, fmt.Errorf("%w: %q", ErrMalformed, header)
	}
	if start >= size {
		return Plan{}, fmt.Errorf("%w: start %d beyond size %d", ErrNotSatisfiable, start, size)
	}

	var end int64
	if se[1] == "" {
		end = start + window - 1
	} else {
		end, err = strconv.ParseInt(se[1], 10, 64)
		if err != nil || end < start {
			return Plan{}, fmt.Errorf("%w: %q", ErrMalformed, header)
		}
	}
	if end > size-1 {
		end = size - 1
	}

	return Plan{Start: start, End: end, Size: size, Partial: true}, nil
}

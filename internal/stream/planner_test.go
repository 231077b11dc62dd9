package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = int64(1 << 20)

func TestPlanRangeNoHeader(t *testing.T) {
	plan, err := PlanRange("", 10_000_000, window)
	require.NoError(t, err)
	assert.False(t, plan.Partial)
	assert.Equal(t, int64(0), plan.Start)
	assert.Equal(t, int64(9_999_999), plan.End)
	assert.Equal(t, int64(10_000_000), plan.Length())
}

func TestPlanRangeExplicit(t *testing.T) {
	plan, err := PlanRange("bytes=0-1048575", 10_000_000, window)
	require.NoError(t, err)
	assert.True(t, plan.Partial)
	assert.Equal(t, int64(0), plan.Start)
	assert.Equal(t, int64(1_048_575), plan.End)
	assert.Equal(t, int64(1_048_576), plan.Length())
}

func TestPlanRangeOpenEndedClampsToWindow(t *testing.T) {
	plan, err := PlanRange("bytes=0-", 10_000_000, window)
	require.NoError(t, err)
	assert.True(t, plan.Partial)
	assert.Equal(t, window, plan.Length())
}

func TestPlanRangeOpenEndedNearEOF(t *testing.T) {
	plan, err := PlanRange("bytes=9999990-", 10_000_000, window)
	require.NoError(t, err)
	assert.Equal(t, int64(9_999_990), plan.Start)
	assert.Equal(t, int64(9_999_999), plan.End)
	assert.Equal(t, int64(10), plan.Length())
}

func TestPlanRangeEndClampedToSize(t *testing.T) {
	plan, err := PlanRange("bytes=5-999999999", 100, window)
	require.NoError(t, err)
	assert.Equal(t, int64(5), plan.Start)
	assert.Equal(t, int64(99), plan.End)
}

func TestPlanRangeSuffix(t *testing.T) {
	plan, err := PlanRange("bytes=-10", 100, window)
	require.NoError(t, err)
	assert.Equal(t, int64(90), plan.Start)
	assert.Equal(t, int64(99), plan.End)

	// suffix longer than the file covers the whole file
	plan, err = PlanRange("bytes=-500", 100, window)
	require.NoError(t, err)
	assert.Equal(t, int64(0), plan.Start)
	assert.Equal(t, int64(99), plan.End)
}

func TestPlanRangeNotSatisfiable(t *testing.T) {
	for _, header := range []string{"bytes=100-", "bytes=100-200", "bytes=500-"} {
		_, err := PlanRange(header, 100, window)
		assert.ErrorIs(t, err, ErrNotSatisfiable, "header %q", header)
	}
}

func TestPlanRangeSuffixEmptyFile(t *testing.T) {
	// a suffix window against an empty file has no bytes to serve
	_, err := PlanRange("bytes=-10", 0, window)
	assert.ErrorIs(t, err, ErrNotSatisfiable)
}

func TestPlanRangeMalformed(t *testing.T) {
	for _, header := range []string{
		"bites=0-10",
		"bytes=abc-def",
		"bytes=10",
		"bytes=0-5,10-20",
		"bytes=-0",
		"bytes=-abc",
		"bytes=5-2",
		"bytes=-",
	} {
		_, err := PlanRange(header, 100, window)
		assert.ErrorIs(t, err, ErrMalformed, "header %q", header)
	}
}

func TestContentTypeForName(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentTypeForName("a.mp4"))
	assert.Equal(t, "video/x-matroska", ContentTypeForName("a.MKV"))
	assert.Equal(t, "video/x-msvideo", ContentTypeForName("a.avi"))
	assert.Equal(t, "video/quicktime", ContentTypeForName("a.mov"))
	assert.Equal(t, "video/webm", ContentTypeForName("a.webm"))
	assert.Equal(t, "application/octet-stream", ContentTypeForName("a.bin"))
}

package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0.0s"},
		{12.34, "12.3s"},
		{59.95, "60.0s"},
		{59.999, "60.0s"},
		{60, "1m 0s"},
		{61.9, "1m 1s"},
		{3599, "59m 59s"},
		{3599.9, "59m 59s"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{90061, "25h 1m"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatDuration(tc.seconds), "seconds=%v", tc.seconds)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048575, "1024.00 KB"},
		{1048576, "1.00 MB"},
		{1073741823, "1024.00 MB"},
		{1073741824, "1.00 GB"},
		{5 * 1073741824, "5.00 GB"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatFileSize(tc.bytes), "bytes=%d", tc.bytes)
	}
}

func TestFormatDateRendersPtBR(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	require.Equal(t, "18/10/2026, 14:30:05", FormatDate("2026-10-18T14:30:05", loc))
	require.Equal(t, "18/10/2026, 14:30:05", FormatDate("2026-10-18T14:30:05.123456", loc))
	require.Equal(t, "18/10/2026, 11:30:05", FormatDate("2026-10-18T14:30:05Z", loc))
	require.Equal(t, "18/10/2026, 00:00:00", FormatDate("2026-10-18", loc))
}

func TestFormatDateInvalidInput(t *testing.T) {
	require.Equal(t, InvalidDate, FormatDate("", time.UTC))
	require.Equal(t, InvalidDate, FormatDate("yesterday", time.UTC))

	_, err := ParseDate("18/10/2026", time.UTC)
	require.True(t, errors.Is(err, ErrInvalidDate))
}

func TestFormatCountGroupsDigits(t *testing.T) {
	require.Equal(t, "999", FormatCount(999))
	require.Equal(t, "1.234.567", FormatCount(1234567))
}

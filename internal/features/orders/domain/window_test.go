package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInCatchUpWindow(t *testing.T) {
	tests := []struct {
		name string
		at   string
		want bool
	}{
		{name: "Start", at: "2024-06-01T03:00:00Z", want: true},
		{name: "Inside", at: "2024-06-01T03:02:00Z", want: true},
		{name: "LastMinute", at: "2024-06-01T03:05:59Z", want: true},
		{name: "JustAfter", at: "2024-06-01T03:06:00Z", want: false},
		{name: "JustBefore", at: "2024-06-01T02:59:59Z", want: false},
		{name: "Afternoon", at: "2024-06-01T15:02:00Z", want: false},
		{name: "Morning", at: "2024-06-01T10:00:00Z", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := time.Parse(time.RFC3339, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, InCatchUpWindow(at))
		})
	}
}

func TestInCatchUpWindow_UsesLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	// 00:02 UTC is 03:02 in Moscow.
	at := time.Date(2024, 6, 1, 0, 2, 0, 0, time.UTC)

	assert.False(t, InCatchUpWindow(at))
	assert.True(t, InCatchUpWindow(at.In(moscow)))
}

func TestInitialSince(t *testing.T) {
	t.Run("DefaultLookback", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 6, 1, 9, 45, 0, 0, time.UTC), InitialSince(now, 0))
	})

	t.Run("CustomLookback", func(t *testing.T) {
		for _, d := range []time.Duration{time.Minute, 15 * time.Minute, 2 * time.Hour, 36 * time.Hour} {
			now := time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC)
			assert.Equal(t, now.Add(-d), InitialSince(now, d), "lookback %s", d)
		}
	})

	t.Run("CatchUpIgnoresLookback", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 3, 2, 0, 0, time.UTC)
		want := time.Date(2024, 5, 31, 3, 2, 0, 0, time.UTC)

		assert.Equal(t, want, InitialSince(now, 0))
		assert.Equal(t, want, InitialSince(now, 5*time.Minute))
		assert.Equal(t, want, InitialSince(now, 72*time.Hour))
	})
}

func TestCatchUpSince_DST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Clocks moved from 02:00 CET to 03:00 CEST on 2024-03-31; the day before is 23 hours long.
	now := time.Date(2024, 3, 31, 3, 2, 0, 0, berlin)
	since := CatchUpSince(now)

	assert.Equal(t, "2024-03-30T03:02:00+01:00", since.Format(W3CLayout))
	assert.Equal(t, 23*time.Hour, now.Sub(since))
	assert.Equal(t, since, InitialSince(now, 0))
}

func TestWindow_Format(t *testing.T) {
	w := Window{
		Since: time.Date(2024, 6, 1, 9, 45, 0, 0, time.UTC),
		To:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "2024-06-01T09:45:00+00:00", w.FormatSince())
	assert.Equal(t, "2024-06-01T10:00:00+00:00", w.FormatTo())

	msk := Window{Since: w.Since.In(time.FixedZone("MSK", 3*60*60))}
	assert.Equal(t, "2024-06-01T12:45:00+03:00", msk.FormatSince())
}

func TestParseWindowMode(t *testing.T) {
	m, err := ParseWindowMode("frozen")
	require.NoError(t, err)
	assert.Equal(t, WindowFrozen, m)

	m, err = ParseWindowMode("advance")
	require.NoError(t, err)
	assert.Equal(t, WindowAdvance, m)

	m, err = ParseWindowMode("")
	require.NoError(t, err)
	assert.Equal(t, WindowFrozen, m)

	_, err = ParseWindowMode("sliding")
	assert.Error(t, err)
}

package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		candles []Candle
		wantErr error
	}{
		{
			name:    "empty",
			candles: nil,
			wantErr: ErrEmptySeries,
		},
		{
			name: "ordered",
			candles: []Candle{
				{Time: t0, Close: 1, Volume: 1},
				{Time: t0.Add(time.Hour), Close: 2, Volume: 1},
			},
		},
		{
			name: "duplicate time",
			candles: []Candle{
				{Time: t0, Close: 1, Volume: 1},
				{Time: t0, Close: 2, Volume: 1},
			},
			wantErr: ErrOutOfOrder,
		},
		{
			name: "backwards",
			candles: []Candle{
				{Time: t0.Add(time.Hour), Close: 1, Volume: 1},
				{Time: t0, Close: 2, Volume: 1},
			},
			wantErr: ErrOutOfOrder,
		},
		{
			name: "zero time between timestamps",
			candles: []Candle{
				{Time: t0.Add(time.Hour), Close: 1, Volume: 1},
				{Close: 2, Volume: 1},
				{Time: t0.Add(2 * time.Hour), Close: 3, Volume: 1},
			},
			wantErr: ErrOutOfOrder,
		},
		{
			name: "timestamp after untimed candle",
			candles: []Candle{
				{Close: 1, Volume: 1},
				{Time: t0, Close: 2, Volume: 1},
			},
			wantErr: ErrOutOfOrder,
		},
		{
			name: "zero times allowed",
			candles: []Candle{
				{Close: 1, Volume: 1},
				{Close: 2, Volume: 1},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewSeries("test", tt.candles)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.candles), s.Len())
		})
	}
}

func TestSeriesCopiesInput(t *testing.T) {
	t.Parallel()

	in := []Candle{{Close: 1, Volume: 1}, {Close: 2, Volume: 1}}
	s, err := NewSeries("test", in)
	require.NoError(t, err)

	in[0].Close = 99
	assert.Equal(t, 1.0, s.Close(0))
}

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	s, err := FromCloses([]float64{100, 101, 99}, 10)
	require.NoError(t, err)
	assert.NoError(t, s.Validate())

	bad, err := FromCloses([]float64{100, 0, 99}, 10)
	require.NoError(t, err)
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candle 1")
}

func TestSeriesSplit(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	s, err := FromCloses(closes, 1)
	require.NoError(t, err)

	train, val, err := s.Split(0.2)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, val.Len())
	assert.Equal(t, 108.0, val.Close(0))

	_, _, err = s.Split(1.5)
	assert.Error(t, err)
}

func TestSyntheticDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Synthetic(SyntheticOptions{Candles: 200, Seed: 42})
	require.NoError(t, err)
	b, err := Synthetic(SyntheticOptions{Candles: 200, Seed: 42})
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.At(i), b.At(i))
	}
	assert.NoError(t, a.Validate())

	for i := 0; i < a.Len(); i++ {
		c := a.At(i)
		assert.GreaterOrEqual(t, c.High, c.Low)
		assert.GreaterOrEqual(t, c.Volume, 100.0)
		assert.Less(t, c.Volume, 1000.0)
	}
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	data := `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,101,99,100.5,10
2024-01-01 01:00:00,100.5,102,100,101.5,12

2024-01-01T02:00:00Z,101.5,103,101,102,9
`
	s, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	c := s.At(1)
	assert.Equal(t, 100.5, c.Open)
	assert.Equal(t, 102.0, c.High)
	assert.Equal(t, 100.0, c.Low)
	assert.Equal(t, 101.5, c.Close)
	assert.Equal(t, 12.0, c.Volume)
	assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), c.Time)
}

func TestReadCSVColumnOrderAndUnixMillis(t *testing.T) {
	t.Parallel()

	data := `close,volume,open,high,low,timestamp
10,1,9,11,8,1704067200000
11,2,10,12,9,1704070800000
`
	s, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 11.0, s.Close(1))
	assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), s.At(1).Time)
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"missing column", "timestamp,open,high,low,close\n", "missing column"},
		{"bad number", "timestamp,open,high,low,close,volume\n2024-01-01,1,2,x,1,1\n", "bad low"},
		{"bad time", "timestamp,open,high,low,close,volume\nyesterday,1,2,1,1,1\n", "bad timestamp"},
		{"out of order", "timestamp,open,high,low,close,volume\n2024-01-02,1,1,1,1,1\n2024-01-01,1,1,1,1,1\n", "chronological"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "BTCUSDT_1h.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp,open,high,low,close,volume\n2024-01-01,1,1,1,1,1\n"), 0644))

	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT_1h.csv", s.Source)
	assert.Equal(t, 1, s.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEndTime(t *testing.T) {
	testData := map[string]struct {
		tSlice        TimeSlice
		expectedStart time.Time
		expectedEnd   time.Time
	}{
		"nil input": {},
		"valid": {
			tSlice: TimeSlice{
				time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2014, 1, 12, 0, 0, 0, 0, time.UTC),
				time.Date(2014, 1, 19, 0, 0, 0, 0, time.UTC),
			},
			expectedStart: time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC),
			expectedEnd:   time.Date(2014, 1, 19, 0, 0, 0, 0, time.UTC),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expectedStart, td.tSlice.StartTime())
			assert.Equal(t, td.expectedEnd, td.tSlice.EndTime())
		})
	}
}

func TestEstimateFreq(t *testing.T) {
	week := 7 * 24 * time.Hour
	testData := map[string]struct {
		tSlice   TimeSlice
		expected time.Duration
		err      error
	}{
		"single point": {
			tSlice: TimeSlice{time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC)},
			err:    ErrCannotInferFreq,
		},
		"weekly": {
			tSlice:   TimeSlice(GenerateT(10, week, time.Now)),
			expected: week,
		},
		"weekly with a gap": {
			tSlice: TimeSlice{
				time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2014, 1, 12, 0, 0, 0, 0, time.UTC),
				time.Date(2014, 1, 19, 0, 0, 0, 0, time.UTC),
				time.Date(2014, 2, 2, 0, 0, 0, 0, time.UTC),
			},
			expected: week,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			freq, err := td.tSlice.EstimateFreq()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, freq)
		})
	}
}

func TestExtend(t *testing.T) {
	week := 7 * 24 * time.Hour
	tSlice := TimeSlice{
		time.Date(2014, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2014, 1, 12, 0, 0, 0, 0, time.UTC),
	}
	assert.Nil(t, tSlice.Extend(0, week))

	res := tSlice.Extend(2, week)
	assert.Equal(t, []time.Time{
		time.Date(2014, 1, 19, 0, 0, 0, 0, time.UTC),
		time.Date(2014, 1, 26, 0, 0, 0, 0, time.UTC),
	}, res)
}

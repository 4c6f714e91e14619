package timedataset

import (
	"errors"
	"math"
	"time"
)

var ErrCannotInferFreq = errors.New("cannot infer frequency from time slice")

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common spacing between consecutive points. Ties resolve
// to the smallest spacing.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := time.Duration(math.MaxInt64)
	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// Extend returns n time points following the last point at the given frequency
func (t TimeSlice) Extend(n int, freq time.Duration) []time.Time {
	if n <= 0 {
		return nil
	}
	last := t.EndTime()
	out := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, last.Add(time.Duration(i)*freq))
	}
	return out
}

package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n points spaced by interval where the last point is one interval
// before the truncated day of nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := nowFunc().UTC().Truncate(24 * time.Hour).Add(-time.Duration(n) * interval)
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY generates a line starting at bias increasing by slope per point
func GenerateTrendY(n int, bias, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, bias+slope*float64(i))
	}
	return Series(y)
}

// GenerateWaveY generates a sine wave with a period measured in points
func GenerateWaveY(n int, amp float64, period int, offset float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*(float64(i)+offset)/float64(period)))
	}
	return Series(y)
}

// GenerateNoise generates gaussian noise from a fixed seed so repeated calls are identical
func GenerateNoise(n int, scale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateIntegratedNoise integrates seeded gaussian noise by (1-B)(1-B^period), producing a
// seasonal random walk whose differences are white noise
func GenerateIntegratedNoise(n int, scale float64, period int, seed uint64) Series {
	a := GenerateNoise(n, scale, seed)
	u := make([]float64, n)
	for t := 0; t < n; t++ {
		v := a[t]
		if t >= 1 {
			v += u[t-1]
		}
		if period > 1 && t >= period {
			v += u[t-period]
			if t >= period+1 {
				v -= u[t-period-1]
			}
		}
		u[t] = v
	}
	return Series(u)
}

// GenerateLogNormal generates seeded lognormal amounts, the usual shape of individual order
// values
func GenerateLogNormal(n int, mu, sigma float64, seed uint64) Series {
	y := GenerateNoise(n, sigma, seed)
	for i := range y {
		y[i] = math.Exp(mu + y[i])
	}
	return y
}

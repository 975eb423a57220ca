// internal/eligibility/dist.go
package eligibility

import (
	"math"
	"math/rand"
)

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gammaSample draws from Gamma(shape, scale) using the Marsaglia-Tsang
// squeeze method. Valid for shape >= 1, which is all this package needs.
func gammaSample(r *rand.Rand, shape, scale float64) float64 {
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := r.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := r.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// lognormalSample draws from LogNormal(mu, sigma) on the underlying normal.
func lognormalSample(r *rand.Rand, mu, sigma float64) float64 {
	return math.Exp(mu + sigma*r.NormFloat64())
}

// betaSample draws from Beta(a, b) as a ratio of gamma variates.
func betaSample(r *rand.Rand, a, b float64) float64 {
	x := gammaSample(r, a, 1.0)
	y := gammaSample(r, b, 1.0)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

func normalClipped(r *rand.Rand, mean, std, lo, hi float64) float64 {
	return clip(mean+std*r.NormFloat64(), lo, hi)
}

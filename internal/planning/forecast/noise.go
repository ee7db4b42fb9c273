package forecast

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	noiseLow  = 0.9
	noiseHigh = 1.1
)

// Noise supplies the multiplicative perturbation applied to each forecast day.
// Factor must return a value in [0.9, 1.1].
type Noise interface {
	Factor() float64
}

// UniformNoise draws factors uniformly from [0.9, 1.1].
type UniformNoise struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformNoise seeds a PCG source. A zero seed draws one from the clock.
func NewUniformNoise(seed uint64) *UniformNoise {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &UniformNoise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *UniformNoise) Factor() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return noiseLow + n.rng.Float64()*(noiseHigh-noiseLow)
}

// FixedNoise always returns the same factor, clamped to the noise bounds.
type FixedNoise float64

func (f FixedNoise) Factor() float64 {
	v := float64(f)
	if v < noiseLow {
		return noiseLow
	}
	if v > noiseHigh {
		return noiseHigh
	}
	return v
}

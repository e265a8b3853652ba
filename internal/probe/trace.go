package probe

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/joltlabs/jolt/internal/client"
	"github.com/joltlabs/jolt/internal/domain/model"
)

// Jolt magnitude range injected into the trace.
const (
	joltMin = 18.0
	joltMax = 28.0

	baselineNoise = 1.5
	driftPerFix   = 0.0002
	jitterPerFix  = 0.00005
)

// SimSource is a synthetic MotionSource: low-amplitude road noise with a
// strong jolt injected at a fixed interval.
type SimSource struct {
	sampleInterval time.Duration
	joltInterval   time.Duration
	rng            *rand.Rand
}

// NewSimSource creates a trace generator.
func NewSimSource(sampleInterval, joltInterval time.Duration, seed int64) *SimSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimSource{
		sampleInterval: sampleInterval,
		joltInterval:   joltInterval,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Subscribe starts emitting samples until released or ctx is done.
func (s *SimSource) Subscribe(ctx context.Context) (<-chan model.Sample, func(), error) {
	out := make(chan model.Sample)
	stop := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() { close(stop) })
	}

	go func() {
		defer close(out)
		sampleTick := time.NewTicker(s.sampleInterval)
		defer sampleTick.Stop()
		joltTick := time.NewTicker(s.joltInterval)
		defer joltTick.Stop()

		for {
			var sample model.Sample
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-joltTick.C:
				mag := joltMin + s.rng.Float64()*(joltMax-joltMin)
				sample = model.NewSample(mag, s.rng.NormFloat64(), s.rng.NormFloat64())
			case <-sampleTick.C:
				sample = model.NewSample(
					s.rng.NormFloat64()*baselineNoise,
					s.rng.NormFloat64()*baselineNoise,
					s.rng.NormFloat64()*baselineNoise,
				)
			}

			select {
			case out <- sample:
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return out, release, nil
}

// SimLocator replays a drifting GPS track: each fix advances along the
// road with a little jitter, like a vehicle in motion.
type SimLocator struct {
	mu  sync.Mutex
	lat float64
	lon float64
	rng *rand.Rand
}

// NewSimLocator anchors the track at the given coordinate.
func NewSimLocator(lat, lon float64, seed int64) *SimLocator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimLocator{lat: lat, lon: lon, rng: rand.New(rand.NewSource(seed))}
}

// Locate returns the next fix along the track.
func (l *SimLocator) Locate(context.Context) (client.Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lat += driftPerFix + l.rng.NormFloat64()*jitterPerFix
	l.lon += driftPerFix + l.rng.NormFloat64()*jitterPerFix
	return client.Position{Latitude: l.lat, Longitude: l.lon}, nil
}

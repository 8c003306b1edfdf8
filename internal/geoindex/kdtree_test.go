package geoindex

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointIndexRejectsGeodeticInput(t *testing.T) {
	_, err := NewPointIndex([]Point{{Easting: -3.96894, Northing: 52.99787}})
	assert.ErrorIs(t, err, ErrMixedFrame)
}

func TestNewPointIndexRejectsEmptyLayer(t *testing.T) {
	_, err := NewPointIndex(nil)
	assert.ErrorIs(t, err, ErrEmptyLayer)
}

func TestNearest(t *testing.T) {
	idx, err := NewPointIndex([]Point{
		{267000, 346000},
		{268000, 346500},
		{270000, 348000},
	})
	require.NoError(t, err)

	m, ok := idx.Nearest(267958, 346317, 2000)
	require.True(t, ok)
	assert.Equal(t, 1, m.Ordinal)
	assert.InDelta(t, 187.76, m.Distance, 0.5)
}

func TestNearestThresholdBoundary(t *testing.T) {
	// A feature exactly at the threshold distance matches; one meter beyond
	// it does not. Exercised at both policy distances.
	for _, maxDist := range []float64{50, 300} {
		idx, err := NewPointIndex([]Point{{100000 + maxDist, 200000}})
		require.NoError(t, err)

		m, ok := idx.Nearest(100000, 200000, maxDist)
		require.True(t, ok, "feature at exactly %vm must match", maxDist)
		assert.Equal(t, maxDist, m.Distance)

		idx, err = NewPointIndex([]Point{{100000 + maxDist + 1, 200000}})
		require.NoError(t, err)
		_, ok = idx.Nearest(100000, 200000, maxDist)
		assert.False(t, ok, "feature at %vm+1 must not match", maxDist)
	}
}

func TestNearestTieBreaksByInputOrder(t *testing.T) {
	// Two features equidistant from the query on opposite sides: the
	// first-encountered feature must win, on every run.
	points := []Point{
		{100100, 200000}, // 100m east
		{99900, 200000},  // 100m west
	}
	for run := 0; run < 25; run++ {
		idx, err := NewPointIndex(points)
		require.NoError(t, err)
		m, ok := idx.Nearest(100000, 200000, 500)
		require.True(t, ok)
		assert.Equal(t, 0, m.Ordinal, "tie must resolve to first input ordinal")
	}
}

func TestNearestMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]Point, 5000)
	for i := range points {
		points[i] = Point{
			Easting:  100000 + rng.Float64()*500000,
			Northing: 100000 + rng.Float64()*500000,
		}
	}
	idx, err := NewPointIndex(points)
	require.NoError(t, err)
	assert.Equal(t, len(points), idx.Len())

	for q := 0; q < 200; q++ {
		qe := 100000 + rng.Float64()*500000
		qn := 100000 + rng.Float64()*500000

		bestOrd, bestD := -1, 1e18
		for i, p := range points {
			if d := distance(Point{qe, qn}, p); d < bestD {
				bestOrd, bestD = i, d
			}
		}

		m, ok := idx.Nearest(qe, qn, 1e18)
		require.True(t, ok)
		assert.Equal(t, bestOrd, m.Ordinal)
		assert.InDelta(t, bestD, m.Distance, 1e-9)
	}
}

func TestConcurrentQueries(t *testing.T) {
	points := make([]Point, 1000)
	for i := range points {
		points[i] = Point{Easting: 100000 + float64(i)*13, Northing: 200000 + float64(i%97)*29}
	}
	idx, err := NewPointIndex(points)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for q := 0; q < 500; q++ {
				_, _ = idx.Nearest(100000+rng.Float64()*13000, 200000+rng.Float64()*3000, 1e9)
			}
		}(int64(w))
	}
	wg.Wait()
}

func TestDensifyLine(t *testing.T) {
	line := []Point{{100000, 200000}, {100010, 200000}}
	dense := DensifyLine(line, 2)
	require.Len(t, dense, 6)
	assert.Equal(t, line[0], dense[0])
	assert.Equal(t, line[1], dense[len(dense)-1])
	assert.InDelta(t, 100004, dense[2].Easting, 1e-9)

	// Shorter than the spacing: endpoints survive.
	stub := DensifyLine([]Point{{100000, 200000}, {100000.5, 200000}}, 2)
	require.Len(t, stub, 2)
}

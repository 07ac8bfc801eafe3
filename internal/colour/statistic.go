package colour

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sort"
	"sync"
)

// ErrNoPixels is returned when a statistic is asked to reduce an empty
// pixel sequence.
var ErrNoPixels = errors.New("pixel sequence is empty")

// minChunkSize is the smallest pixel range worth handing to its own
// goroutine during a chunked reduction.
const minChunkSize = 4096

// Average returns the channel-wise mean of all pixels, each channel summed
// as an unsigned 64-bit integer and truncated by integer division over the
// fully combined sum.
func Average(pixels []RGB) (RGB, error) {
	if len(pixels) == 0 {
		return RGB{}, fmt.Errorf("average: %w", ErrNoPixels)
	}

	sums := sumChannels(pixels)
	n := uint64(len(pixels))
	return RGB{
		Red:   uint8(sums[0] / n),
		Green: uint8(sums[1] / n),
		Blue:  uint8(sums[2] / n),
	}, nil
}

// sumChannels computes per-channel sums over chunked pixel ranges.
// Partial sums are combined before any division so truncation happens
// exactly once.
func sumChannels(pixels []RGB) [3]uint64 {
	chunks := chunkRanges(len(pixels))
	partials := make([][3]uint64, len(chunks))

	var wg sync.WaitGroup
	for i, r := range chunks {
		wg.Add(1)
		go func(i int, lo, hi int) {
			defer wg.Done()
			var sum [3]uint64
			for _, p := range pixels[lo:hi] {
				sum[0] += uint64(p.Red)
				sum[1] += uint64(p.Green)
				sum[2] += uint64(p.Blue)
			}
			partials[i] = sum
		}(i, r[0], r[1])
	}
	wg.Wait()

	var total [3]uint64
	for _, sum := range partials {
		total[0] += sum[0]
		total[1] += sum[1]
		total[2] += sum[2]
	}
	return total
}

// Median returns the channel-wise median of all pixels. Each channel is
// sorted and reduced in isolation, so the result is not guaranteed to match
// any pixel present in the image.
func Median(pixels []RGB) (RGB, error) {
	if len(pixels) == 0 {
		return RGB{}, fmt.Errorf("median: %w", ErrNoPixels)
	}

	channels := [3]func(RGB) uint8{
		func(p RGB) uint8 { return p.Red },
		func(p RGB) uint8 { return p.Green },
		func(p RGB) uint8 { return p.Blue },
	}

	var out [3]uint8
	var wg sync.WaitGroup
	for ch := range channels {
		wg.Add(1)
		go func(ch int) {
			defer wg.Done()
			values := make([]uint8, len(pixels))
			for i, p := range pixels {
				values[i] = channels[ch](p)
			}
			slices.Sort(values)
			out[ch] = channelMedian(values)
		}(ch)
	}
	wg.Wait()

	return RGB{Red: out[0], Green: out[1], Blue: out[2]}, nil
}

// channelMedian reduces one sorted channel. Even lengths take the truncated
// mean of the two middle values. Odd lengths take the element one position
// below the exact midpoint; downstream consumers depend on this placement,
// so it is kept as-is rather than moved to the conventional middle element.
func channelMedian(sorted []uint8) uint8 {
	n := len(sorted)
	if n%2 == 0 {
		lo := uint16(sorted[n/2-1])
		hi := uint16(sorted[n/2])
		return uint8((lo + hi) / 2)
	}
	idx := n/2 - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// Prevalent returns the k most frequently occurring distinct pixel values
// in descending order of occurrence count. Fewer than k colours are
// returned when the image has fewer distinct values. The relative order of
// colours with equal counts is unspecified.
func Prevalent(pixels []RGB, k int) ([]RGB, error) {
	if len(pixels) == 0 {
		return nil, fmt.Errorf("prevalent: %w", ErrNoPixels)
	}
	if k < 1 {
		return nil, fmt.Errorf("prevalent: colour count must be at least 1, got %d", k)
	}

	counts := countPixels(pixels)

	type frequency struct {
		colour RGB
		count  int
	}
	ranked := make([]frequency, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, frequency{colour: c, count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]RGB, k)
	for i := range out {
		out[i] = ranked[i].colour
	}
	return out, nil
}

// countPixels tallies occurrences per distinct pixel value using chunked
// local maps merged at the end.
func countPixels(pixels []RGB) map[RGB]int {
	chunks := chunkRanges(len(pixels))
	partials := make([]map[RGB]int, len(chunks))

	var wg sync.WaitGroup
	for i, r := range chunks {
		wg.Add(1)
		go func(i int, lo, hi int) {
			defer wg.Done()
			local := make(map[RGB]int)
			for _, p := range pixels[lo:hi] {
				local[p]++
			}
			partials[i] = local
		}(i, r[0], r[1])
	}
	wg.Wait()

	counts := partials[0]
	for _, local := range partials[1:] {
		for c, n := range local {
			counts[c] += n
		}
	}
	return counts
}

// chunkRanges splits [0, n) into at most GOMAXPROCS half-open ranges.
// Small inputs get a single range.
func chunkRanges(n int) [][2]int {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if n < minChunkSize*2 || workers == 1 {
		return [][2]int{{0, n}}
	}
	if n/workers < minChunkSize {
		workers = n / minChunkSize
	}

	size := n / workers
	ranges := make([][2]int, 0, workers)
	for i := 0; i < workers; i++ {
		lo := i * size
		hi := lo + size
		if i == workers-1 {
			hi = n
		}
		ranges = append(ranges, [2]int{lo, hi})
	}
	return ranges
}

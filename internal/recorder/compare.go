package recorder

import (
	"errors"
	"math"
	"time"

	"github.com/ayusman/airmouse/internal/store"
)

// FrameInterval is the nominal capture period used to derive a duration
// for recordings that carry only a frame count.
const FrameInterval = 33 * time.Millisecond

// EstimateDuration returns the duration of n frames captured at FrameInterval.
func EstimateDuration(n int) time.Duration {
	return time.Duration(n) * FrameInterval
}

// Comparison scores how alike two recordings are.
type Comparison struct {
	// Similarity is in [0, 1], 1 for identical sequences. It compares the
	// frames pairwise over the shorter recording.
	Similarity float64 `json:"similarity"`
	// Distance is the dynamic time warping distance between the two
	// sequences, normalized by the longer length. It tolerates the same
	// movement performed at different speeds.
	Distance float64 `json:"distance"`
	Frames   [2]int  `json:"frames"`
}

// ErrNoFrames is returned by Compare when a recording holds no frames.
var ErrNoFrames = errors.New("recording has no frames")

// similarityScale turns a mean absolute coordinate difference into a
// similarity penalty. A mean difference of 0.1 or more scores 0.
const similarityScale = 10

// Compare scores a against b.
func Compare(a, b *store.Recording) (Comparison, error) {
	c := Comparison{Frames: [2]int{len(a.Frames), len(b.Frames)}}
	if len(a.Frames) == 0 || len(b.Frames) == 0 {
		return c, ErrNoFrames
	}

	n := min(len(a.Frames), len(b.Frames))
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		fa, fb := a.Frames[i], b.Frames[i]
		for j := 0; j < len(fa) && j < len(fb); j++ {
			sum += math.Abs(fa[j] - fb[j])
			count++
		}
	}
	if count > 0 {
		c.Similarity = math.Max(0, 1-sum/float64(count)*similarityScale)
	}

	c.Distance = dtwDistance(a.Frames, b.Frames)
	return c, nil
}

// dtwDistance is the dynamic time warping distance between two frame
// sequences, using the Euclidean distance between flattened frames.
func dtwDistance(a, b [][]float64) float64 {
	n, m := len(a), len(b)

	// two rows of the (n+1) x (m+1) cost matrix
	prev := make([]float64, m+1)
	cur := make([]float64, m+1)
	for j := range prev {
		prev[j] = math.Inf(1)
	}
	prev[0] = 0

	for i := 1; i <= n; i++ {
		cur[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			cost := frameDistance(a[i-1], b[j-1])
			cur[j] = cost + min(prev[j], cur[j-1], prev[j-1])
		}
		prev, cur = cur, prev
	}

	return prev[m] / float64(max(n, m))
}

func frameDistance(a, b []float64) float64 {
	var sum float64
	for i := 0; i < len(a) && i < len(b); i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

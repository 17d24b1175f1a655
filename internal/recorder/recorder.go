// Package recorder captures landmark sequences from the live pipeline for
// later analysis. It is fed from the frame loop and never affects pointer
// control.
package recorder

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/store"
)

// Recording limits.
const (
	MaxDuration = 10 * time.Second
	MinFrames   = 5
)

// TimestampLayout is the layout of File.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	// ErrAlreadyRecording is returned by Start while a recording is in progress.
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording is returned by Stop without a recording in progress.
	ErrNotRecording = errors.New("not recording")
	// ErrTooFewFrames is returned by Stop when fewer than MinFrames were captured.
	ErrTooFewFrames = errors.New("too few frames recorded")
	// ErrEmptyName is returned by Start without a name.
	ErrEmptyName = errors.New("recording name is required")
)

// File is the exported form of a recording.
type File struct {
	Name       string      `json:"name"`
	Timestamp  string      `json:"timestamp"`
	FrameCount int         `json:"frame_count"`
	Landmarks  [][]float64 `json:"landmarks"`
}

// Export converts a stored recording to its file form.
func Export(rec *store.Recording) File {
	return File{
		Name:       rec.Name,
		Timestamp:  rec.CreatedAt.Format(TimestampLayout),
		FrameCount: len(rec.Frames),
		Landmarks:  rec.Frames,
	}
}

// Status describes the recorder state.
type Status struct {
	Recording  bool          `json:"recording"`
	Name       string        `json:"name"`
	FrameCount int           `json:"frame_count"`
	Elapsed    time.Duration `json:"elapsed"`
	Remaining  time.Duration `json:"remaining"`
}

// Recorder accumulates flattened landmarks between Start and Stop. It is
// safe for concurrent use: the frame loop calls Observe while HTTP handlers
// call Start, Stop and Status.
type Recorder struct {
	repo *store.RecordingRepository
	now  func() time.Time

	mu        sync.Mutex
	recording bool
	name      string
	started   time.Time
	frames    [][]float64
}

// New creates a Recorder persisting into repo. A nil repo keeps recordings
// in memory only; Stop still returns them.
func New(repo *store.RecordingRepository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Start begins a recording called name.
func (r *Recorder) Start(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}
	r.recording = true
	r.name = name
	r.started = r.now()
	r.frames = nil

	log.Printf("recorder: started %q", name)
	return nil
}

// Observe appends the hand to the current recording. It returns true when
// the frame was recorded. Frames after MaxDuration are ignored until Stop.
func (r *Recorder) Observe(hand *detector.HandLandmarks) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording || hand == nil {
		return false
	}
	if r.now().Sub(r.started) > MaxDuration {
		return false
	}
	r.frames = append(r.frames, hand.Flatten())
	return true
}

// Stop ends the recording and persists it. Recordings shorter than
// MinFrames are discarded with ErrTooFewFrames.
func (r *Recorder) Stop() (*store.Recording, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	name, started, frames := r.name, r.started, r.frames
	elapsed := r.now().Sub(started)
	r.recording = false
	r.name = ""
	r.frames = nil
	r.mu.Unlock()

	if len(frames) < MinFrames {
		log.Printf("recorder: discarded %q, %d frames", name, len(frames))
		return nil, fmt.Errorf("%w: %d < %d", ErrTooFewFrames, len(frames), MinFrames)
	}
	if elapsed > MaxDuration {
		elapsed = MaxDuration
	}

	rec := &store.Recording{
		Name:      name,
		Duration:  elapsed,
		CreatedAt: started,
		Frames:    frames,
	}
	rec.FrameCount = len(frames)

	if r.repo != nil {
		if err := r.repo.Create(rec); err != nil {
			return nil, fmt.Errorf("save recording %q: %w", name, err)
		}
	}

	log.Printf("recorder: saved %q, %d frames", name, len(frames))
	return rec, nil
}

// Cancel drops the recording in progress, if any.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}
	log.Printf("recorder: cancelled %q", r.name)
	r.recording = false
	r.name = ""
	r.frames = nil
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Status returns the current recorder state.
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return Status{}
	}

	elapsed := r.now().Sub(r.started)
	remaining := MaxDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Recording:  true,
		Name:       r.name,
		FrameCount: len(r.frames),
		Elapsed:    elapsed,
		Remaining:  remaining,
	}
}

// Analysis summarises a recording.
type Analysis struct {
	FrameCount int           `json:"frame_count"`
	Duration   time.Duration `json:"duration"`
	// Mean and StdDev hold one value per flattened coordinate.
	Mean   []float64 `json:"mean"`
	StdDev []float64 `json:"std_dev"`
	RangeX float64   `json:"range_x"`
	RangeY float64   `json:"range_y"`
	RangeZ float64   `json:"range_z"`
}

// Analyze computes per-coordinate statistics and the movement range on
// each axis. A recording without frames yields a zero Analysis. A missing
// duration is estimated from the frame count.
func Analyze(rec *store.Recording) Analysis {
	a := Analysis{FrameCount: len(rec.Frames), Duration: rec.Duration}
	if a.Duration == 0 {
		a.Duration = EstimateDuration(a.FrameCount)
	}
	if len(rec.Frames) == 0 {
		return a
	}

	width := len(rec.Frames[0])
	a.Mean = make([]float64, width)
	a.StdDev = make([]float64, width)

	var lo, hi [3]float64
	for i := range lo {
		lo[i], hi[i] = math.Inf(1), math.Inf(-1)
	}

	for _, f := range rec.Frames {
		for j := 0; j < width && j < len(f); j++ {
			a.Mean[j] += f[j]
			axis := j % 3
			lo[axis] = math.Min(lo[axis], f[j])
			hi[axis] = math.Max(hi[axis], f[j])
		}
	}
	n := float64(len(rec.Frames))
	for j := range a.Mean {
		a.Mean[j] /= n
	}

	for _, f := range rec.Frames {
		for j := 0; j < width && j < len(f); j++ {
			d := f[j] - a.Mean[j]
			a.StdDev[j] += d * d
		}
	}
	for j := range a.StdDev {
		a.StdDev[j] = math.Sqrt(a.StdDev[j] / n)
	}

	a.RangeX, a.RangeY, a.RangeZ = hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2]
	return a
}

package engine

import (
	"sync"
	"time"
)

// fpsWindow is the number of recent frame times averaged into the FPS
// reading.
const fpsWindow = 60

// Statistics tracks frame timing over a sliding window.
type Statistics struct {
	mu          sync.Mutex
	frameCount  uint64
	samples     [fpsWindow]time.Duration
	sampleCount int
	next        int
	lastReport  time.Time
}

// NewStatistics creates an empty frame counter.
func NewStatistics() *Statistics {
	return &Statistics{lastReport: time.Now()}
}

// RecordFrame adds one frame's duration to the window.
func (s *Statistics) RecordFrame(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameCount++
	s.samples[s.next] = dt
	s.next = (s.next + 1) % fpsWindow
	if s.sampleCount < fpsWindow {
		s.sampleCount++
	}
}

// FrameCount returns the total number of frames recorded.
func (s *Statistics) FrameCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCount
}

// FPS returns the average frame rate over the window, zero before the
// first frame.
func (s *Statistics) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sampleCount == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < s.sampleCount; i++ {
		total += s.samples[i]
	}
	if total <= 0 {
		return 0
	}
	return float64(s.sampleCount) / total.Seconds()
}

// ShouldReport returns true at most once per interval, advancing the
// report clock when it fires.
func (s *Statistics) ShouldReport(interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if now.Sub(s.lastReport) < interval {
		return false
	}
	s.lastReport = now
	return true
}

package input

import "time"

const (
	// scrollWindow is how long a wheel notch contributes to the velocity
	scrollWindow = 750 * time.Millisecond
	// scrollSensitivity scales notches per window into velocity
	scrollSensitivity = 0.05
)

type scrollSample struct {
	at  time.Time
	dir int
}

// scrollLog averages wheel notches over a sliding window
type scrollLog struct {
	samples []scrollSample
}

func (s *scrollLog) add(now time.Time, dir int) {
	// Reversing direction discards momentum
	if n := len(s.samples); n > 0 && s.samples[n-1].dir != dir {
		s.samples = s.samples[:0]
	}
	s.samples = append(s.samples, scrollSample{at: now, dir: dir})
}

func (s *scrollLog) expire(now time.Time) {
	keep := s.samples[:0]
	for _, sm := range s.samples {
		if now.Sub(sm.at) < scrollWindow {
			keep = append(keep, sm)
		}
	}
	s.samples = keep
}

func (s *scrollLog) velocity(now time.Time) float64 {
	sum := 0
	for _, sm := range s.samples {
		if now.Sub(sm.at) < scrollWindow {
			sum += sm.dir
		}
	}
	return float64(sum) * scrollSensitivity / scrollWindow.Seconds()
}

package widgets

import (
	"context"
	"fmt"
	"time"
)

// BootLines is the scripted boot log shown while the site loads
var BootLines = []string{
	"INITIALIZING_TACTICAL_UPLINK...",
	"TARGET_ACQUIRED: ODENSE, DENMARK [HQ_NODE]",
	"ESTABLISHING_HANDSHAKE_V14.2...",
	"SYNC_SUCCESS: KNOWLEDGE_CORE_EXTRACTED",
	"BOOTSTRAPPING_WRITING_UMBRACO_ENGINE...",
	"ROUTING_PACKETS_TO_SUBCONTINENT...",
	"SYNCING_GEOSPATIAL_COORDINATES...",
	"PATH_CALCULATED: NORTH_TO_SOUTH_AXIS",
	"CROSSING_GEOSPATIAL_BOUNDARIES...",
	"APPROACHING_KERALA_CLUSTER...",
	"FINALIZING_LOCAL_NODE_SYNC...",
	"UPLINK_STABLE: WELCOME_TO_THE_HUB",
}

// Loader timings
const (
	LoaderLineInterval = 500 * time.Millisecond
	LoaderFinishDelay  = 800 * time.Millisecond
)

// LogLine is one emitted loader line
type LogLine struct {
	Text     string  `json:"text"`
	Progress float64 `json:"progress"`
}

// LoaderSequence emits scripted lines on a fixed interval, then calls
// OnComplete once the finish delay has passed.
type LoaderSequence struct {
	Lines       []string
	Interval    time.Duration
	FinishDelay time.Duration
	Now         func() time.Time
	OnLine      func(LogLine)
	OnComplete  func()
}

// NewLoaderSequence returns the boot sequence with default timings
func NewLoaderSequence(onLine func(LogLine), onComplete func()) *LoaderSequence {
	return &LoaderSequence{
		Lines:       BootLines,
		Interval:    LoaderLineInterval,
		FinishDelay: LoaderFinishDelay,
		Now:         time.Now,
		OnLine:      onLine,
		OnComplete:  onComplete,
	}
}

// Line formats line i as "[HH:MM:SS] text" with its progress percentage
func (s *LoaderSequence) Line(i int, at time.Time) LogLine {
	return LogLine{
		Text:     fmt.Sprintf("[%s] %s", at.Format("15:04:05"), s.Lines[i]),
		Progress: float64(i+1) / float64(len(s.Lines)) * 100,
	}
}

// Run plays the sequence. It returns ctx.Err() if cancelled before
// OnComplete fires.
func (s *LoaderSequence) Run(ctx context.Context) error {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for i := 0; i <= len(s.Lines); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if i == len(s.Lines) {
			break
		}
		if s.OnLine != nil {
			s.OnLine(s.Line(i, now()))
		}
	}
	ticker.Stop()

	finish := time.NewTimer(s.FinishDelay)
	defer finish.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-finish.C:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.OnComplete != nil {
		s.OnComplete()
	}
	return nil
}

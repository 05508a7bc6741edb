package schedule

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Monitor periodically re-evaluates the open/closed status for display and
// logging. Submission gating never relies on it; callers re-check live at
// submission time.
type Monitor struct {
	Hours    Hours
	Interval time.Duration
	Logger   *logrus.Logger
}

func NewMonitor(hours Hours, logger *logrus.Logger) *Monitor {
	return &Monitor{
		Hours:    hours,
		Interval: 30 * time.Second,
		Logger:   logger,
	}
}

// Run blocks until ctx is cancelled, logging open/closed transitions.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	last := m.Hours.StatusAt(time.Now())
	m.logStatus(last)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := m.Hours.StatusAt(time.Now())
			if status.OpenNow != last.OpenNow {
				m.logStatus(status)
			}
			last = status
		}
	}
}

func (m *Monitor) logStatus(status Status) {
	if m.Logger == nil {
		return
	}
	m.Logger.WithFields(logrus.Fields{
		"open_now":      status.OpenNow,
		"open_hour":     status.OpenHour,
		"close_hour":    status.CloseHour,
		"hours_to_open": status.HoursToOpen,
	}).Info("store status")
}

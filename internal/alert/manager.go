package alert

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"GoldSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// Manager decides when a forecast deserves an out-of-band alert.
// At most one alert is sent per calendar day.
type Manager struct {
	mu           sync.Mutex
	state        *State
	filePath     string
	thresholdPct float64
}

// NewManager creates a Manager, loading state from disk.
func NewManager(filePath string, thresholdPct float64) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load alert state: %w", err)
	}
	return &Manager{state: state, filePath: filePath, thresholdPct: thresholdPct}, nil
}

// GetState returns a copy of the current state.
func (m *Manager) GetState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// ObserveRun updates the trend streak. Repeated runs on the same day count
// once, and a missed day restarts the streak.
func (m *Manager) ObserveRun(f *model.Forecast, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := now.Format(dateLayout)
	if m.state.LastRunDate != today {
		switch {
		case !strings.Contains(f.Trend, "BULLISH"):
			m.state.ConsecutiveBullishDays = 0
		case isDayBefore(m.state.LastRunDate, now):
			m.state.ConsecutiveBullishDays++
		default:
			// first run, or days were missed since the last one
			m.state.ConsecutiveBullishDays = 1
		}
	}
	m.state.LastRunDate = today
	m.state.LastTrend = f.Trend
	return m.save()
}

// isDayBefore reports whether date (YYYY-MM-DD) is the calendar day before now.
func isDayBefore(date string, now time.Time) bool {
	last, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return false
	}
	return last.AddDate(0, 0, 1).Format(dateLayout) == now.Format(dateLayout)
}

// ShouldAlert reports whether f warrants an alert today and why.
func (m *Manager) ShouldAlert(f *model.Forecast, now time.Time) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.LastAlertDate == now.Format(dateLayout) {
		return false, ""
	}
	switch {
	case f.Trend == "STRONGLY BULLISH" || f.Trend == "BEARISH":
		return true, "trend " + f.Trend
	case m.thresholdPct > 0 && math.Abs(f.ChangePct) >= m.thresholdPct:
		return true, fmt.Sprintf("forecast move %+.2f%% beyond ±%.2f%%", f.ChangePct, m.thresholdPct)
	case m.state.ConsecutiveBullishDays >= 5 && m.state.ConsecutiveBullishDays%5 == 0:
		return true, fmt.Sprintf("%d consecutive bullish days", m.state.ConsecutiveBullishDays)
	}
	return false, ""
}

// RecordAlert marks today's alert as sent.
func (m *Manager) RecordAlert(q *model.GoldQuote, f *model.Forecast, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastAlertDate = now.Format(dateLayout)
	m.state.LastAlertTrend = f.Trend
	m.state.LastAlertPrice = q.Price24K10g
	return m.save()
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}

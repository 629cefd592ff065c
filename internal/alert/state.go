package alert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State is the persisted alert bookkeeping between runs.
type State struct {
	LastRunDate            string    `json:"last_run_date"`
	LastAlertDate          string    `json:"last_alert_date"`
	LastAlertTrend         string    `json:"last_alert_trend"`
	LastAlertPrice         int64     `json:"last_alert_price"`
	LastTrend              string    `json:"last_trend"`
	ConsecutiveBullishDays int       `json:"consecutive_bullish_days"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// LoadState reads the alert state from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState writes the alert state to a JSON file, creating its directory.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vporoshin/docdecay/internal/model"
)

const stateFileName = "last_seen.json"

// loadState reads the per-source state map. A missing or corrupt file
// starts fresh rather than failing the run.
func loadState(dir string) map[string]*model.SourceState {
	raw, err := os.ReadFile(filepath.Join(dir, stateFileName))
	if err != nil {
		return make(map[string]*model.SourceState)
	}

	var state map[string]*model.SourceState
	if err := json.Unmarshal(raw, &state); err != nil || state == nil {
		return make(map[string]*model.SourceState)
	}
	return state
}

// saveState writes the state map, creating the state directory on demand.
func saveState(dir string, state map[string]*model.SourceState) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal monitor state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, stateFileName), raw, 0o644); err != nil {
		return fmt.Errorf("write monitor state: %w", err)
	}
	return nil
}

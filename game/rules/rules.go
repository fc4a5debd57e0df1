package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Rules holds the tunable parameters of a guessing round.
type Rules struct {
	RoundSeconds int `json:"round_seconds"`
	MaxAttempts  int `json:"max_attempts"`
	MinPlayers   int `json:"min_players"`
	PointsPerWin int `json:"points_per_win"`
}

// Default returns the standard ruleset: 60-second rounds, 3 guesses per
// player, 3 players to start, 10 points for the winner.
func Default() Rules {
	return Rules{
		RoundSeconds: 60,
		MaxAttempts:  3,
		MinPlayers:   3,
		PointsPerWin: 10,
	}
}

// RoundDuration returns the round length as a time.Duration.
func (r Rules) RoundDuration() time.Duration {
	return time.Duration(r.RoundSeconds) * time.Second
}

// Validate checks that all parameters are usable.
func (r Rules) Validate() error {
	if r.RoundSeconds < 1 {
		return fmt.Errorf("round_seconds must be positive, got %d", r.RoundSeconds)
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive, got %d", r.MaxAttempts)
	}
	if r.MinPlayers < 2 {
		return fmt.Errorf("min_players must be at least 2, got %d", r.MinPlayers)
	}
	if r.PointsPerWin < 1 {
		return fmt.Errorf("points_per_win must be positive, got %d", r.PointsPerWin)
	}
	return nil
}

// Load reads a JSON rules file and overlays it on the defaults, so partial
// files are fine. The result is validated before being returned.
func Load(path string) (Rules, error) {
	r := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if err := r.Validate(); err != nil {
		return r, fmt.Errorf("invalid rules in %s: %w", path, err)
	}

	return r, nil
}

package team

import (
	"fmt"
	"strings"
)

// Team is a side whose record is folded from its match results.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Matches reports whether a scorecard team label refers to this team.
func (t Team) Matches(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	return strings.EqualFold(label, t.ID) ||
		strings.EqualFold(label, t.Name) ||
		(t.ShortName != "" && strings.EqualFold(label, t.ShortName))
}

package teamstats

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is a team's result in one match, from the team's point of view.
type Outcome string

const (
	OutcomeWin      Outcome = "W"
	OutcomeLoss     Outcome = "L"
	OutcomeNoResult Outcome = "NR"
)

// StreakKind is the type of the current run of results.
type StreakKind string

const (
	StreakNone StreakKind = "none"
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

var completedStatuses = map[string]struct{}{
	"completed": {},
	"complete":  {},
	"finished":  {},
	"result":    {},
}

// MatchResult is one match in a team's history.
type MatchResult struct {
	MatchID   string    `json:"matchId"`
	MatchDate time.Time `json:"matchDate"`
	Team1     string    `json:"team1"`
	Team2     string    `json:"team2"`
	Venue     string    `json:"venue,omitempty"`
	Status    string    `json:"status,omitempty"`
	WinnerID  string    `json:"winnerId,omitempty"`
	Result    string    `json:"result,omitempty"`
}

func (m MatchResult) Validate() error {
	if strings.TrimSpace(m.MatchID) == "" {
		return fmt.Errorf("match id is required")
	}
	return nil
}

// IsCompleted treats an empty status with a declared winner as completed.
func (m MatchResult) IsCompleted() bool {
	status := strings.ToLower(strings.TrimSpace(m.Status))
	if status == "" {
		return strings.TrimSpace(m.WinnerID) != ""
	}
	_, ok := completedStatuses[status]
	return ok
}

type Streak struct {
	Kind  StreakKind `json:"type"`
	Count int        `json:"count"`
}

type RecentMatch struct {
	MatchID   string    `json:"matchId"`
	MatchDate time.Time `json:"matchDate"`
	Opponent  string    `json:"opponent,omitempty"`
	Venue     string    `json:"venue,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Result    string    `json:"result,omitempty"`
}

// Record is a team's aggregate, rebuilt from its full match list on every recompute.
type Record struct {
	TeamID            string        `json:"teamId"`
	Matches           int           `json:"matches"`
	Wins              int           `json:"wins"`
	Losses            int           `json:"losses"`
	NoResults         int           `json:"noResults"`
	WinPercentage     float64       `json:"winPercentage"`
	CurrentStreak     Streak        `json:"currentStreak"`
	LongestWinStreak  int           `json:"longestWinStreak"`
	LongestLossStreak int           `json:"longestLossStreak"`
	RecentMatches     []RecentMatch `json:"recentMatches"`
	RecentForm        []Outcome     `json:"recentForm"`
	Skipped           int           `json:"skipped"`
}

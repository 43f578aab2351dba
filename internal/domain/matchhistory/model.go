package matchhistory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
)

var ErrInvalidContribution = errors.New("invalid contribution")

// ContributionType discriminates the payload carried by a Contribution.
type ContributionType string

const (
	TypeBatting  ContributionType = "batting"
	TypeBowling  ContributionType = "bowling"
	TypeFielding ContributionType = "fielding"
)

const MaxWicketsPerInnings = 10

type Batting struct {
	Runs      int    `json:"runs"`
	Balls     int    `json:"balls"`
	Fours     int    `json:"fours"`
	Sixes     int    `json:"sixes"`
	Dismissal string `json:"dismissal"`
}

type Bowling struct {
	Overs   float64 `json:"overs"`
	Maidens int     `json:"maidens"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
}

type Fielding struct {
	Action dismissal.FieldingAction `json:"action"`
	Count  int                      `json:"count"`
}

// Contribution is one typed record of a player's involvement in one innings.
// Exactly the payload matching Type is read; the others are ignored.
type Contribution struct {
	Type     ContributionType `json:"type"`
	Batting  *Batting         `json:"batting,omitempty"`
	Bowling  *Bowling         `json:"bowling,omitempty"`
	Fielding *Fielding        `json:"fielding,omitempty"`
}

// DismissalRecord is one scorecard line for a batter of the opposing side.
// Fielding credits can be inferred from it when the entry has no explicit fielding.
type DismissalRecord struct {
	Batter string `json:"batter"`
	Status string `json:"status"`
}

// Entry is one match a player or team took part in.
type Entry struct {
	MatchID       string            `json:"matchId"`
	MatchDate     time.Time         `json:"matchDate"`
	Team1         string            `json:"team1"`
	Team2         string            `json:"team2"`
	Venue         string            `json:"venue,omitempty"`
	Result        string            `json:"result,omitempty"`
	Contributions []Contribution    `json:"contributions,omitempty"`
	Dismissals    []DismissalRecord `json:"dismissals,omitempty"`
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.MatchID) == "" {
		return fmt.Errorf("match id is required")
	}
	return nil
}

// HasExplicitFielding reports whether the entry already records fielding contributions.
func (e Entry) HasExplicitFielding() bool {
	for _, c := range e.Contributions {
		if c.Type == TypeFielding {
			return true
		}
	}
	return false
}

func (c Contribution) Validate() error {
	switch c.Type {
	case TypeBatting:
		if c.Batting == nil {
			return fmt.Errorf("%w: batting payload is missing", ErrInvalidContribution)
		}
		return c.Batting.Validate()
	case TypeBowling:
		if c.Bowling == nil {
			return fmt.Errorf("%w: bowling payload is missing", ErrInvalidContribution)
		}
		return c.Bowling.Validate()
	case TypeFielding:
		if c.Fielding == nil {
			return fmt.Errorf("%w: fielding payload is missing", ErrInvalidContribution)
		}
		return c.Fielding.Validate()
	default:
		return fmt.Errorf("%w: unknown contribution type %q", ErrInvalidContribution, c.Type)
	}
}

func (b Batting) Validate() error {
	if b.Runs < 0 || b.Balls < 0 || b.Fours < 0 || b.Sixes < 0 {
		return fmt.Errorf("%w: batting counts must not be negative", ErrInvalidContribution)
	}
	return nil
}

func (b Bowling) Validate() error {
	if b.Maidens < 0 || b.Runs < 0 || b.Wickets < 0 {
		return fmt.Errorf("%w: bowling counts must not be negative", ErrInvalidContribution)
	}
	if b.Wickets > MaxWicketsPerInnings {
		return fmt.Errorf("%w: %d wickets exceeds %d", ErrInvalidContribution, b.Wickets, MaxWicketsPerInnings)
	}
	if _, err := ParseOvers(b.Overs); err != nil {
		return err
	}
	return nil
}

func (f Fielding) Validate() error {
	switch f.Action {
	case dismissal.FieldingCatch, dismissal.FieldingRunOut, dismissal.FieldingStumping:
	default:
		return fmt.Errorf("%w: unknown fielding action %q", ErrInvalidContribution, f.Action)
	}
	if f.Count < 0 {
		return fmt.Errorf("%w: fielding count must not be negative", ErrInvalidContribution)
	}
	return nil
}

package httpapi

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
)

// matchDate accepts RFC 3339 timestamps and plain 2006-01-02 dates, which is
// how most scorecards record them.
type matchDate struct {
	time.Time
}

func (d *matchDate) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var text string
	if err := sonic.Unmarshal(raw, &text); err != nil {
		return fmt.Errorf("match date must be a string: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("match date %q is neither RFC 3339 nor YYYY-MM-DD", text)
}

type battingRequest struct {
	Runs      int    `json:"runs" validate:"gte=0"`
	Balls     int    `json:"balls" validate:"gte=0"`
	Fours     int    `json:"fours" validate:"gte=0"`
	Sixes     int    `json:"sixes" validate:"gte=0"`
	Dismissal string `json:"dismissal" validate:"max=200"`
}

type bowlingRequest struct {
	Overs   float64 `json:"overs" validate:"gte=0"`
	Maidens int     `json:"maidens" validate:"gte=0"`
	Runs    int     `json:"runs" validate:"gte=0"`
	Wickets int     `json:"wickets" validate:"gte=0,lte=10"`
}

type fieldingRequest struct {
	Action string `json:"action" validate:"required,oneof=catch run_out stumping"`
	Count  int    `json:"count" validate:"gte=0"`
}

type contributionRequest struct {
	Type     string           `json:"type" validate:"required,oneof=batting bowling fielding"`
	Batting  *battingRequest  `json:"batting" validate:"required_if=Type batting"`
	Bowling  *bowlingRequest  `json:"bowling" validate:"required_if=Type bowling"`
	Fielding *fieldingRequest `json:"fielding" validate:"required_if=Type fielding"`
}

type dismissalRequest struct {
	Batter string `json:"batter" validate:"max=100"`
	Status string `json:"status" validate:"required,max=200"`
}

type appendPlayerMatchRequest struct {
	MatchID       string                `json:"matchId" validate:"required,max=100"`
	MatchDate     matchDate             `json:"matchDate"`
	Team1         string                `json:"team1" validate:"max=100"`
	Team2         string                `json:"team2" validate:"max=100"`
	Venue         string                `json:"venue" validate:"max=200"`
	Result        string                `json:"result" validate:"max=300"`
	Contributions []contributionRequest `json:"contributions" validate:"max=20,dive"`
	Dismissals    []dismissalRequest    `json:"dismissals" validate:"max=22,dive"`
}

func (req appendPlayerMatchRequest) toEntry() matchhistory.Entry {
	entry := matchhistory.Entry{
		MatchID:   strings.TrimSpace(req.MatchID),
		MatchDate: req.MatchDate.Time,
		Team1:     req.Team1,
		Team2:     req.Team2,
		Venue:     req.Venue,
		Result:    req.Result,
	}
	for _, c := range req.Contributions {
		item := matchhistory.Contribution{Type: matchhistory.ContributionType(c.Type)}
		if c.Batting != nil {
			item.Batting = &matchhistory.Batting{
				Runs:      c.Batting.Runs,
				Balls:     c.Batting.Balls,
				Fours:     c.Batting.Fours,
				Sixes:     c.Batting.Sixes,
				Dismissal: c.Batting.Dismissal,
			}
		}
		if c.Bowling != nil {
			item.Bowling = &matchhistory.Bowling{
				Overs:   c.Bowling.Overs,
				Maidens: c.Bowling.Maidens,
				Runs:    c.Bowling.Runs,
				Wickets: c.Bowling.Wickets,
			}
		}
		if c.Fielding != nil {
			item.Fielding = &matchhistory.Fielding{
				Action: dismissal.FieldingAction(c.Fielding.Action),
				Count:  c.Fielding.Count,
			}
		}
		entry.Contributions = append(entry.Contributions, item)
	}
	for _, d := range req.Dismissals {
		entry.Dismissals = append(entry.Dismissals, matchhistory.DismissalRecord{Batter: d.Batter, Status: d.Status})
	}
	return entry
}

type appendTeamMatchRequest struct {
	MatchID   string    `json:"matchId" validate:"required,max=100"`
	MatchDate matchDate `json:"matchDate"`
	Team1     string    `json:"team1" validate:"max=100"`
	Team2     string    `json:"team2" validate:"max=100"`
	Venue     string    `json:"venue" validate:"max=200"`
	Status    string    `json:"status" validate:"max=50"`
	WinnerID  string    `json:"winnerId" validate:"max=100"`
	Result    string    `json:"result" validate:"max=300"`
}

func (req appendTeamMatchRequest) toResult() teamstats.MatchResult {
	return teamstats.MatchResult{
		MatchID:   strings.TrimSpace(req.MatchID),
		MatchDate: req.MatchDate.Time,
		Team1:     req.Team1,
		Team2:     req.Team2,
		Venue:     req.Venue,
		Status:    req.Status,
		WinnerID:  req.WinnerID,
		Result:    req.Result,
	}
}

type classifyDismissalsRequest struct {
	Statuses []string `json:"statuses" validate:"required,min=1,max=200,dive,max=200"`
}

type classifiedDismissalDTO struct {
	Status   string           `json:"status"`
	HowOut   dismissal.HowOut `json:"howOut"`
	Fielders []string         `json:"fielders,omitempty"`
}

type recomputeJobRequest struct {
	Entity     string `json:"entity" validate:"omitempty,oneof=player team"`
	ID         string `json:"id" validate:"required_with=Entity,max=100"`
	All        bool   `json:"all"`
	DryRun     bool   `json:"dryRun"`
	MaxWorkers int    `json:"maxWorkers" validate:"gte=0,lte=64"`
}

type appendMatchResponse struct {
	Queued bool `json:"queued"`
	Stats  any  `json:"stats,omitempty"`
}

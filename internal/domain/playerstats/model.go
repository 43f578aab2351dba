package playerstats

import (
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
)

// OversMode selects how bowling overs are accumulated across spells.
type OversMode string

const (
	// OversModeBalls sums exact deliveries, so 4.4 + 4.4 = 9.2.
	OversModeBalls OversMode = "balls"
	// OversModeLegacyDecimal sums the notation as decimals, so 4.4 + 4.4 = 8.8.
	OversModeLegacyDecimal OversMode = "legacy_decimal"
)

// AmbiguousFielderPolicy decides who gets credit when a fielder name matches
// several roster players.
type AmbiguousFielderPolicy string

const (
	AmbiguousFirstMatch AmbiguousFielderPolicy = "first_match"
	AmbiguousSkip       AmbiguousFielderPolicy = "skip"
)

type MilestoneKind string

const (
	MilestoneFifty          MilestoneKind = "fifty"
	MilestoneCentury        MilestoneKind = "century"
	MilestoneHatTrick       MilestoneKind = "hat_trick"
	MilestoneFiveWicketHaul MilestoneKind = "five_wicket_haul"
)

type BattingBest struct {
	Runs    int    `json:"runs"`
	Balls   int    `json:"balls"`
	Fours   int    `json:"fours"`
	Sixes   int    `json:"sixes"`
	NotOut  bool   `json:"notOut"`
	MatchID string `json:"matchId"`
}

type Batting struct {
	Innings      int          `json:"innings"`
	Runs         int          `json:"runs"`
	Balls        int          `json:"balls"`
	Fours        int          `json:"fours"`
	Sixes        int          `json:"sixes"`
	HighestScore int          `json:"highestScore"`
	NotOuts      int          `json:"notOuts"`
	Ducks        int          `json:"ducks"`
	Fifties      int          `json:"fifties"`
	Centuries    int          `json:"centuries"`
	Best         *BattingBest `json:"best,omitempty"`
}

// Dismissals is innings batted minus not-outs.
func (b Batting) Dismissals() int {
	return b.Innings - b.NotOuts
}

type Figures struct {
	Wickets int    `json:"wickets"`
	Runs    int    `json:"runs"`
	MatchID string `json:"matchId,omitempty"`
}

type Bowling struct {
	Innings int `json:"innings"`
	// Overs is the accumulated notation under the career's OversMode.
	Overs   float64  `json:"overs"`
	Balls   int      `json:"balls"`
	Maidens int      `json:"maidens"`
	Runs    int      `json:"runs"`
	Wickets int      `json:"wickets"`
	Best    *Figures `json:"best,omitempty"`
	// HatTricks counts innings with three or more wickets. Ball-by-ball data is
	// not recorded, so consecutive deliveries cannot be checked.
	HatTricks       int `json:"hatTricks"`
	FiveWicketHauls int `json:"fiveWicketHauls"`
}

type Fielding struct {
	Catches   int `json:"catches"`
	RunOuts   int `json:"runOuts"`
	Stumpings int `json:"stumpings"`
}

type Milestone struct {
	Kind      MilestoneKind `json:"kind"`
	MatchID   string        `json:"matchId"`
	MatchDate time.Time     `json:"matchDate"`
	Value     int           `json:"value"`
}

type RecentScore struct {
	MatchID   string    `json:"matchId"`
	MatchDate time.Time `json:"matchDate"`
	Runs      int       `json:"runs"`
	Balls     int       `json:"balls"`
	NotOut    bool      `json:"notOut"`
}

// ReviewFlag marks a fielding attribution a human should check.
type ReviewFlag struct {
	MatchID          string                   `json:"matchId"`
	Action           dismissal.FieldingAction `json:"action"`
	Batter           string                   `json:"batter,omitempty"`
	Reference        player.Reference         `json:"reference"`
	Credited         bool                     `json:"credited"`
	CreditedPlayerID string                   `json:"creditedPlayerId,omitempty"`
}

// Career is a player's aggregate. It is derived data: Fold rebuilds it from
// match history and rates are computed on read.
type Career struct {
	PlayerID     string                   `json:"playerId"`
	OversMode    OversMode                `json:"oversMode"`
	Matches      int                      `json:"matches"`
	Batting      Batting                  `json:"batting"`
	Bowling      Bowling                  `json:"bowling"`
	Fielding     Fielding                 `json:"fielding"`
	RecentScores []RecentScore            `json:"recentScores"`
	Milestones   []Milestone              `json:"milestones"`
	Rejected     []matchhistory.Rejection `json:"rejected,omitempty"`
	Review       []ReviewFlag             `json:"review,omitempty"`
}

type Rates struct {
	BattingAverage    float64 `json:"battingAverage"`
	StrikeRate        float64 `json:"strikeRate"`
	BowlingAverage    float64 `json:"bowlingAverage"`
	Economy           float64 `json:"economy"`
	BowlingStrikeRate float64 `json:"bowlingStrikeRate"`
}

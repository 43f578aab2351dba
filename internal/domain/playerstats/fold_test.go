package playerstats

import (
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
)

func matchDate(n int) time.Time {
	return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bat(runs, balls int, status string) matchhistory.Contribution {
	return matchhistory.Contribution{
		Type:    matchhistory.TypeBatting,
		Batting: &matchhistory.Batting{Runs: runs, Balls: balls, Dismissal: status},
	}
}

func bowl(overs float64, maidens, runs, wickets int) matchhistory.Contribution {
	return matchhistory.Contribution{
		Type:    matchhistory.TypeBowling,
		Bowling: &matchhistory.Bowling{Overs: overs, Maidens: maidens, Runs: runs, Wickets: wickets},
	}
}

func field(action dismissal.FieldingAction, count int) matchhistory.Contribution {
	return matchhistory.Contribution{
		Type:     matchhistory.TypeFielding,
		Fielding: &matchhistory.Fielding{Action: action, Count: count},
	}
}

func TestFoldEndToEnd(t *testing.T) {
	history := []matchhistory.Entry{
		{
			MatchID:   "A",
			MatchDate: matchDate(1),
			Contributions: []matchhistory.Contribution{
				bat(45, 32, "c Sharma b Kumar"),
				bowl(4, 0, 25, 2),
			},
		},
		{
			MatchID:   "B",
			MatchDate: matchDate(2),
			Contributions: []matchhistory.Contribution{
				bat(102, 80, "not out"),
			},
		},
	}

	career := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	if career.Matches != 2 {
		t.Fatalf("expected 2 matches, got %d", career.Matches)
	}
	if career.Batting.Runs != 147 || career.Batting.Balls != 112 {
		t.Fatalf("unexpected batting totals: %+v", career.Batting)
	}
	if career.Batting.Centuries != 1 || career.Batting.NotOuts != 1 || career.Batting.HighestScore != 102 {
		t.Fatalf("unexpected batting records: %+v", career.Batting)
	}
	if career.Batting.Best == nil || career.Batting.Best.MatchID != "B" || !career.Batting.Best.NotOut {
		t.Fatalf("unexpected career best: %+v", career.Batting.Best)
	}
	if career.Bowling.Wickets != 2 || career.Bowling.Balls != 24 || career.Bowling.Overs != 4 {
		t.Fatalf("unexpected bowling totals: %+v", career.Bowling)
	}

	rates := ComputeRates(career)
	if rates.BowlingAverage != 12.5 {
		t.Fatalf("expected bowling average 12.5, got %v", rates.BowlingAverage)
	}
	if rates.BattingAverage != 147 {
		t.Fatalf("expected batting average 147, got %v", rates.BattingAverage)
	}
	if rates.StrikeRate != 131.25 {
		t.Fatalf("expected strike rate 131.25, got %v", rates.StrikeRate)
	}
	if rates.Economy != 6.25 {
		t.Fatalf("expected economy 6.25, got %v", rates.Economy)
	}
	if rates.BowlingStrikeRate != 12 {
		t.Fatalf("expected bowling strike rate 12, got %v", rates.BowlingStrikeRate)
	}

	wantScores := []RecentScore{
		{MatchID: "A", MatchDate: matchDate(1), Runs: 45, Balls: 32},
		{MatchID: "B", MatchDate: matchDate(2), Runs: 102, Balls: 80, NotOut: true},
	}
	if !reflect.DeepEqual(career.RecentScores, wantScores) {
		t.Fatalf("recent scores = %+v, want %+v", career.RecentScores, wantScores)
	}
}

func TestFoldIsIdempotentAndPure(t *testing.T) {
	history := []matchhistory.Entry{
		{MatchID: "B", MatchDate: matchDate(2), Contributions: []matchhistory.Contribution{bat(0, 3, "b Kumar"), bowl(3.4, 1, 18, 3)}},
		{MatchID: "A", MatchDate: matchDate(1), Contributions: []matchhistory.Contribution{bat(61, 40, "lbw b Kumar"), field(dismissal.FieldingCatch, 2)}},
	}

	first := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	second := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fold is not deterministic:\n%+v\n%+v", first, second)
	}
	if history[0].MatchID != "B" {
		t.Fatalf("input history must not be reordered")
	}
	if first.RecentScores[0].MatchID != "A" {
		t.Fatalf("expected chronological recent scores, got %+v", first.RecentScores)
	}
}

func TestFoldTotalsIgnoreContributionOrder(t *testing.T) {
	contributions := []matchhistory.Contribution{
		bat(30, 20, "c Sharma b Kumar"),
		bowl(2.3, 0, 20, 1),
		field(dismissal.FieldingCatch, 1),
		bowl(1.4, 0, 9, 2),
		field(dismissal.FieldingStumping, 1),
	}
	reversed := make([]matchhistory.Contribution, len(contributions))
	for i, c := range contributions {
		reversed[len(contributions)-1-i] = c
	}

	a := Fold(Input{PlayerID: "p1", History: []matchhistory.Entry{{MatchID: "m", Contributions: contributions}}}, DefaultOptions())
	b := Fold(Input{PlayerID: "p1", History: []matchhistory.Entry{{MatchID: "m", Contributions: reversed}}}, DefaultOptions())

	if a.Batting.Runs != b.Batting.Runs || a.Fielding != b.Fielding {
		t.Fatalf("batting or fielding totals differ: %+v vs %+v", a, b)
	}
	if a.Bowling.Runs != b.Bowling.Runs || a.Bowling.Wickets != b.Bowling.Wickets || a.Bowling.Balls != b.Bowling.Balls || a.Bowling.Overs != b.Bowling.Overs {
		t.Fatalf("bowling totals differ: %+v vs %+v", a.Bowling, b.Bowling)
	}
	if a.Bowling.Balls != 25 || a.Bowling.Overs != 4.1 {
		t.Fatalf("expected 25 balls (4.1 overs), got %d (%v)", a.Bowling.Balls, a.Bowling.Overs)
	}
}

func TestFoldCareerBestIgnoresContributionOrder(t *testing.T) {
	slow := bat(40, 60, "c Sharma b Kumar")
	quick := bat(40, 20, "b Kumar")

	for _, order := range [][]matchhistory.Contribution{{slow, quick}, {quick, slow}} {
		career := Fold(Input{PlayerID: "p1", History: []matchhistory.Entry{{MatchID: "test-1", Contributions: order}}}, DefaultOptions())
		best := career.Batting.Best
		if best == nil || best.Runs != 40 || best.Balls != 20 {
			t.Fatalf("expected 40 off 20 as career best, got %+v", best)
		}
	}
}

func TestIsBetterInnings(t *testing.T) {
	base := BattingBest{Runs: 50, Balls: 40, Fours: 5, Sixes: 1, MatchID: "m2"}

	tests := []struct {
		name string
		a    BattingBest
		want bool
	}{
		{name: "more runs", a: BattingBest{Runs: 51, Balls: 90}, want: true},
		{name: "fewer runs", a: BattingBest{Runs: 49, Balls: 10}, want: false},
		{name: "fewer balls", a: BattingBest{Runs: 50, Balls: 39}, want: true},
		{name: "unbeaten", a: BattingBest{Runs: 50, Balls: 40, NotOut: true}, want: true},
		{name: "more fours", a: BattingBest{Runs: 50, Balls: 40, Fours: 6}, want: true},
		{name: "more sixes", a: BattingBest{Runs: 50, Balls: 40, Fours: 5, Sixes: 2}, want: true},
		{name: "lower match id", a: BattingBest{Runs: 50, Balls: 40, Fours: 5, Sixes: 1, MatchID: "m1"}, want: true},
		{name: "identical", a: base, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsBetterInnings(tc.a, base); got != tc.want {
				t.Fatalf("IsBetterInnings(%+v) = %v, want %v", tc.a, got, tc.want)
			}
		})
	}
}

func TestComputeRatesZeroDenominators(t *testing.T) {
	tests := []struct {
		name   string
		career Career
		want   Rates
	}{
		{
			name:   "empty career",
			career: Career{},
			want:   Rates{},
		},
		{
			name: "never dismissed with runs",
			career: Career{Batting: Batting{Innings: 2, NotOuts: 2, Runs: 37, Balls: 0}},
			want:   Rates{BattingAverage: 37},
		},
		{
			name:   "bowled without wickets",
			career: Career{Bowling: Bowling{Balls: 12, Overs: 2, Runs: 20}},
			want:   Rates{Economy: 10},
		},
		{
			name:   "legacy decimal economy",
			career: Career{OversMode: OversModeLegacyDecimal, Bowling: Bowling{Balls: 56, Overs: 8.8, Runs: 44, Wickets: 4}},
			want:   Rates{BowlingAverage: 11, Economy: 5, BowlingStrikeRate: 14},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeRates(tc.career)
			if got != tc.want {
				t.Fatalf("ComputeRates = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestFoldMilestonesAndDucks(t *testing.T) {
	history := []matchhistory.Entry{
		{MatchID: "m1", MatchDate: matchDate(1), Contributions: []matchhistory.Contribution{bat(100, 60, "not out")}},
		{MatchID: "m2", MatchDate: matchDate(2), Contributions: []matchhistory.Contribution{bat(0, 1, "b Kumar")}},
		{MatchID: "m3", MatchDate: matchDate(3), Contributions: []matchhistory.Contribution{bat(0, 0, "not out")}},
		{MatchID: "m4", MatchDate: matchDate(4), Contributions: []matchhistory.Contribution{bat(50, 41, "retired hurt")}},
		{MatchID: "m5", MatchDate: matchDate(5), Contributions: []matchhistory.Contribution{bowl(10, 2, 31, 5)}},
	}

	career := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	b := career.Batting
	if b.Centuries != 1 || b.Fifties != 1 || b.NotOuts != 2 || b.Ducks != 1 || b.HighestScore != 100 {
		t.Fatalf("unexpected batting: %+v", b)
	}
	if b.Dismissals() != 2 {
		t.Fatalf("expected 2 dismissals, got %d", b.Dismissals())
	}
	if career.Bowling.HatTricks != 1 || career.Bowling.FiveWicketHauls != 1 {
		t.Fatalf("expected five-for to count as both hauls, got %+v", career.Bowling)
	}

	kinds := make([]MilestoneKind, 0, len(career.Milestones))
	for _, m := range career.Milestones {
		kinds = append(kinds, m.Kind)
	}
	want := []MilestoneKind{MilestoneCentury, MilestoneFifty, MilestoneHatTrick, MilestoneFiveWicketHaul}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("milestones = %v, want %v", kinds, want)
	}
}

func TestIsBetterFigures(t *testing.T) {
	if !IsBetterFigures(Figures{Wickets: 3, Runs: 15}, Figures{Wickets: 3, Runs: 20}) {
		t.Fatalf("fewer runs at equal wickets must win")
	}
	if !IsBetterFigures(Figures{Wickets: 3, Runs: 40}, Figures{Wickets: 2, Runs: 5}) {
		t.Fatalf("more wickets must win regardless of runs")
	}
	if IsBetterFigures(Figures{Wickets: 3, Runs: 20}, Figures{Wickets: 3, Runs: 20}) {
		t.Fatalf("identical figures must not replace")
	}
}

func TestFoldBestFiguresTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		spells [2]matchhistory.Contribution
		want   Figures
	}{
		{
			name:   "fewer runs at equal wickets",
			spells: [2]matchhistory.Contribution{bowl(4, 0, 20, 3), bowl(4, 0, 15, 3)},
			want:   Figures{Wickets: 3, Runs: 15, MatchID: "m2"},
		},
		{
			name:   "more wickets",
			spells: [2]matchhistory.Contribution{bowl(4, 0, 5, 2), bowl(4, 0, 40, 3)},
			want:   Figures{Wickets: 3, Runs: 40, MatchID: "m2"},
		},
		{
			name:   "worse figures kept out",
			spells: [2]matchhistory.Contribution{bowl(4, 0, 12, 4), bowl(4, 0, 10, 3)},
			want:   Figures{Wickets: 4, Runs: 12, MatchID: "m1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			history := []matchhistory.Entry{
				{MatchID: "m1", MatchDate: matchDate(1), Contributions: []matchhistory.Contribution{tc.spells[0]}},
				{MatchID: "m2", MatchDate: matchDate(2), Contributions: []matchhistory.Contribution{tc.spells[1]}},
			}
			career := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
			if career.Bowling.Best == nil || *career.Bowling.Best != tc.want {
				t.Fatalf("best figures = %+v, want %+v", career.Bowling.Best, tc.want)
			}
		})
	}
}

func TestFoldOversModes(t *testing.T) {
	history := []matchhistory.Entry{
		{MatchID: "m1", MatchDate: matchDate(1), Contributions: []matchhistory.Contribution{bowl(4.4, 0, 30, 1)}},
		{MatchID: "m2", MatchDate: matchDate(2), Contributions: []matchhistory.Contribution{bowl(4.4, 0, 26, 1)}},
	}

	exact := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	if exact.Bowling.Overs != 9.2 || exact.Bowling.Balls != 56 {
		t.Fatalf("expected 9.2 overs from 56 balls, got %v from %d", exact.Bowling.Overs, exact.Bowling.Balls)
	}

	opts := DefaultOptions()
	opts.OversMode = OversModeLegacyDecimal
	legacy := Fold(Input{PlayerID: "p1", History: history}, opts)
	if legacy.Bowling.Overs != 8.8 || legacy.Bowling.Balls != 56 {
		t.Fatalf("expected legacy 8.8 overs from 56 balls, got %v from %d", legacy.Bowling.Overs, legacy.Bowling.Balls)
	}
	if legacy.OversMode != OversModeLegacyDecimal {
		t.Fatalf("expected legacy overs mode recorded, got %s", legacy.OversMode)
	}
}

func TestFoldRejectsBadContributionsAndContinues(t *testing.T) {
	history := []matchhistory.Entry{
		{
			MatchID:   "m1",
			MatchDate: matchDate(1),
			Contributions: []matchhistory.Contribution{
				bat(-5, 10, "b Kumar"),
				bat(20, 15, "b Kumar"),
				bowl(3, 0, 10, 12),
			},
		},
	}

	career := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	if len(career.Rejected) != 2 {
		t.Fatalf("expected 2 rejected contributions, got %+v", career.Rejected)
	}
	if career.Batting.Runs != 20 || career.Batting.Innings != 1 {
		t.Fatalf("expected the valid innings folded, got %+v", career.Batting)
	}
	if career.Bowling.Innings != 0 {
		t.Fatalf("expected the invalid spell dropped, got %+v", career.Bowling)
	}
}

func TestFoldInfersFieldingFromOppositionDismissals(t *testing.T) {
	roster := player.NewRoster([]player.Player{
		{ID: "p1", Name: "Rohit Sharma"},
		{ID: "p2", Name: "Ishant Sharma"},
		{ID: "p3", Name: "MS Dhoni"},
		{ID: "p4", Name: "Ravindra Jadeja"},
	})
	entry := matchhistory.Entry{
		MatchID:   "m1",
		MatchDate: matchDate(1),
		Dismissals: []matchhistory.DismissalRecord{
			{Batter: "A", Status: "c Dhoni b Jadeja"},
			{Batter: "B", Status: "st Dhoni b Jadeja"},
			{Batter: "C", Status: "run out (Jadeja/Dhoni)"},
			{Batter: "D", Status: "c&b Jadeja"},
			{Batter: "E", Status: "c Sharma b Jadeja"},
			{Batter: "F", Status: "c Smith b Jadeja"},
			{Batter: "G", Status: "b Jadeja"},
		},
	}

	dhoni := Fold(Input{PlayerID: "p3", History: []matchhistory.Entry{entry}, Roster: roster}, DefaultOptions())
	if dhoni.Fielding != (Fielding{Catches: 1, RunOuts: 1, Stumpings: 1}) {
		t.Fatalf("unexpected keeper fielding: %+v", dhoni.Fielding)
	}

	jadeja := Fold(Input{PlayerID: "p4", History: []matchhistory.Entry{entry}, Roster: roster}, DefaultOptions())
	if jadeja.Fielding != (Fielding{Catches: 1, RunOuts: 1}) {
		t.Fatalf("unexpected bowler fielding: %+v", jadeja.Fielding)
	}
	if len(jadeja.Review) != 1 || jadeja.Review[0].Reference.Kind != player.ReferenceUnresolved || jadeja.Review[0].Reference.RawName != "Smith" {
		t.Fatalf("expected unresolved Smith flagged, got %+v", jadeja.Review)
	}

	rohit := Fold(Input{PlayerID: "p1", History: []matchhistory.Entry{entry}, Roster: roster}, DefaultOptions())
	if rohit.Fielding.Catches != 1 {
		t.Fatalf("expected first ambiguous candidate credited, got %+v", rohit.Fielding)
	}
	ishant := Fold(Input{PlayerID: "p2", History: []matchhistory.Entry{entry}, Roster: roster}, DefaultOptions())
	if ishant.Fielding.Catches != 0 {
		t.Fatalf("expected later ambiguous candidate not credited, got %+v", ishant.Fielding)
	}

	var ambiguous *ReviewFlag
	for i := range ishant.Review {
		if ishant.Review[i].Reference.Kind == player.ReferenceAmbiguous {
			ambiguous = &ishant.Review[i]
		}
	}
	if ambiguous == nil || !ambiguous.Credited || ambiguous.CreditedPlayerID != "p1" || ambiguous.Batter != "E" {
		t.Fatalf("expected ambiguous credit flagged for review, got %+v", ishant.Review)
	}

	opts := DefaultOptions()
	opts.AmbiguousFielder = AmbiguousSkip
	skipped := Fold(Input{PlayerID: "p1", History: []matchhistory.Entry{entry}, Roster: roster}, opts)
	if skipped.Fielding.Catches != 0 {
		t.Fatalf("expected skip policy to credit nobody, got %+v", skipped.Fielding)
	}
}

func TestFoldDoesNotInferWhenFieldingIsExplicit(t *testing.T) {
	roster := player.NewRoster([]player.Player{{ID: "p3", Name: "MS Dhoni"}})
	entry := matchhistory.Entry{
		MatchID:       "m1",
		Contributions: []matchhistory.Contribution{field(dismissal.FieldingCatch, 2)},
		Dismissals:    []matchhistory.DismissalRecord{{Batter: "A", Status: "c Dhoni b Jadeja"}},
	}

	career := Fold(Input{PlayerID: "p3", History: []matchhistory.Entry{entry}, Roster: roster}, DefaultOptions())
	if career.Fielding.Catches != 2 {
		t.Fatalf("expected only explicit catches counted, got %+v", career.Fielding)
	}
}

func TestFoldCapsRecentScores(t *testing.T) {
	history := make([]matchhistory.Entry, 0, 12)
	for i := 1; i <= 12; i++ {
		history = append(history, matchhistory.Entry{
			MatchID:       string(rune('a' + i)),
			MatchDate:     matchDate(i),
			Contributions: []matchhistory.Contribution{bat(i, i, "b Kumar")},
		})
	}

	career := Fold(Input{PlayerID: "p1", History: history}, DefaultOptions())
	if len(career.RecentScores) != DefaultRecentInnings {
		t.Fatalf("expected %d recent scores, got %d", DefaultRecentInnings, len(career.RecentScores))
	}
	if career.RecentScores[0].Runs != 3 || career.RecentScores[9].Runs != 12 {
		t.Fatalf("expected the newest innings in order, got %+v", career.RecentScores)
	}
}

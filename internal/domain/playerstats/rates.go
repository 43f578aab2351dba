package playerstats

import "math"

// RoundRate rounds a derived rate to two decimal places.
func RoundRate(v float64) float64 {
	return math.Round(v*100) / 100
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// ComputeRates derives averages and strike rates. Every zero denominator yields
// zero, except a batter never dismissed, whose average is their run total.
func ComputeRates(c Career) Rates {
	bat := c.Batting
	bowl := c.Bowling

	battingAverage := float64(bat.Runs)
	if dismissals := bat.Dismissals(); dismissals > 0 {
		battingAverage = float64(bat.Runs) / float64(dismissals)
	}

	overs := float64(bowl.Balls) / 6
	if c.OversMode == OversModeLegacyDecimal {
		overs = bowl.Overs
	}

	return Rates{
		BattingAverage:    RoundRate(battingAverage),
		StrikeRate:        RoundRate(ratio(float64(bat.Runs), float64(bat.Balls)) * 100),
		BowlingAverage:    RoundRate(ratio(float64(bowl.Runs), float64(bowl.Wickets))),
		Economy:           RoundRate(ratio(float64(bowl.Runs), overs)),
		BowlingStrikeRate: RoundRate(ratio(float64(bowl.Balls), float64(bowl.Wickets))),
	}
}

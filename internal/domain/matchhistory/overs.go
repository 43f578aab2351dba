package matchhistory

import (
	"fmt"
	"math"
)

const BallsPerOver = 6

// Overs is an exact count of legal deliveries. Scorecards write it as
// wholeOvers.ballsWithinOver, where the fractional digit runs 0-5.
type Overs struct {
	balls int
}

// ParseOvers reads the scorecard notation. 4.3 is four overs and three balls.
func ParseOvers(notation float64) (Overs, error) {
	if math.IsNaN(notation) || math.IsInf(notation, 0) {
		return Overs{}, fmt.Errorf("%w: overs %v is not a number", ErrInvalidContribution, notation)
	}
	if notation < 0 {
		return Overs{}, fmt.Errorf("%w: overs %v is negative", ErrInvalidContribution, notation)
	}

	whole := math.Floor(notation)
	tenths := (notation - whole) * 10
	digit := math.Round(tenths)
	if math.Abs(tenths-digit) > 1e-6 {
		return Overs{}, fmt.Errorf("%w: overs %v has more than one fractional digit", ErrInvalidContribution, notation)
	}
	if digit >= BallsPerOver {
		return Overs{}, fmt.Errorf("%w: overs %v has %d balls within an over", ErrInvalidContribution, notation, int(digit))
	}

	return Overs{balls: int(whole)*BallsPerOver + int(digit)}, nil
}

func OversFromBalls(balls int) Overs {
	if balls < 0 {
		balls = 0
	}
	return Overs{balls: balls}
}

func (o Overs) Balls() int {
	return o.balls
}

func (o Overs) Add(other Overs) Overs {
	return Overs{balls: o.balls + other.balls}
}

// Notation renders the count back into scorecard form, so 56 balls is 9.2.
func (o Overs) Notation() float64 {
	return float64(o.balls/BallsPerOver) + float64(o.balls%BallsPerOver)/10
}

// Decimal is the true number of overs, so 56 balls is 9.333...
func (o Overs) Decimal() float64 {
	return float64(o.balls) / BallsPerOver
}

func (o Overs) String() string {
	return fmt.Sprintf("%d.%d", o.balls/BallsPerOver, o.balls%BallsPerOver)
}

// AddDecimalOvers sums two notations as plain decimals, which is how historical
// aggregates were accumulated (4.4 + 4.4 = 8.8). The result is rounded to one
// decimal place to drop float noise.
func AddDecimalOvers(a, b float64) float64 {
	return math.Round((a+b)*10) / 10
}

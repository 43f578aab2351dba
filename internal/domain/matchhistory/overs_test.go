package matchhistory

import (
	"errors"
	"testing"
)

func TestParseOvers(t *testing.T) {
	tests := []struct {
		notation  float64
		wantBalls int
		wantErr   bool
	}{
		{notation: 0, wantBalls: 0},
		{notation: 4, wantBalls: 24},
		{notation: 4.3, wantBalls: 27},
		{notation: 4.5, wantBalls: 29},
		{notation: 0.1, wantBalls: 1},
		{notation: 19.5, wantBalls: 119},
		{notation: 4.6, wantErr: true},
		{notation: 4.35, wantErr: true},
		{notation: -1, wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseOvers(tc.notation)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidContribution) {
				t.Fatalf("ParseOvers(%v) expected ErrInvalidContribution, got %v", tc.notation, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseOvers(%v) unexpected error: %v", tc.notation, err)
		}
		if got.Balls() != tc.wantBalls {
			t.Fatalf("ParseOvers(%v) balls = %d, want %d", tc.notation, got.Balls(), tc.wantBalls)
		}
	}
}

func TestOversAddCarriesBalls(t *testing.T) {
	a, _ := ParseOvers(4.4)
	b, _ := ParseOvers(4.4)

	sum := a.Add(b)
	if sum.Balls() != 56 {
		t.Fatalf("expected 56 balls, got %d", sum.Balls())
	}
	if sum.Notation() != 9.2 {
		t.Fatalf("expected notation 9.2, got %v", sum.Notation())
	}
	if sum.String() != "9.2" {
		t.Fatalf("expected string 9.2, got %s", sum.String())
	}

	c, _ := ParseOvers(4.5)
	d, _ := ParseOvers(4.3)
	if got := c.Add(d).Notation(); got != 9.2 {
		t.Fatalf("expected 4.5 + 4.3 = 9.2, got %v", got)
	}
}

func TestAddDecimalOvers(t *testing.T) {
	if got := AddDecimalOvers(4.4, 4.4); got != 8.8 {
		t.Fatalf("expected legacy sum 8.8, got %v", got)
	}
	if got := AddDecimalOvers(0.1, 0.2); got != 0.3 {
		t.Fatalf("expected legacy sum 0.3, got %v", got)
	}
}

func TestOversDecimal(t *testing.T) {
	if got := OversFromBalls(27).Decimal(); got != 4.5 {
		t.Fatalf("expected 4.5 true overs, got %v", got)
	}
	if got := OversFromBalls(-3).Balls(); got != 0 {
		t.Fatalf("expected negative balls clamped to 0, got %d", got)
	}
}

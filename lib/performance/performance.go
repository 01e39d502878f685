// Package performance computes FIDE tournament performance ratings: the average
// rating of the opponents plus the rating difference dP for the scored fraction p.
package performance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDivision = errors.New("performance: rounds must be positive")
	ErrLookup   = errors.New("performance: score has no rating difference")
)

// LookupError is returned when a score ratio falls outside [0.00, 1.00].
type LookupError struct {
	Score decimal.Decimal
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("performance: score %s has no rating difference", e.Score.StringFixed(2))
}

func (e *LookupError) Unwrap() error {
	return ErrLookup
}

var hundred = decimal.NewFromInt(100)

// Offset returns the rating difference for a score ratio, the score must already
// be rounded to two decimals.
func Offset(score decimal.Decimal) (int, error) {
	hundredths := score.Mul(hundred)
	if !hundredths.IsInteger() {
		return 0, &LookupError{Score: score}
	}
	idx := hundredths.IntPart()
	if idx < 0 || idx >= int64(len(ratingDifference)) {
		return 0, &LookupError{Score: score}
	}
	return ratingDifference[idx], nil
}

// Score returns points / rounds rounded to two decimals, halves are rounded to even.
func Score(points decimal.Decimal, rounds int) (decimal.Decimal, error) {
	if rounds <= 0 {
		return decimal.Decimal{}, ErrDivision
	}
	ratio := points.Div(decimal.NewFromInt(int64(rounds)))
	return ratio.RoundBank(2), nil
}

// Calculate returns the performance rating of a tournament where points were scored
// in rounds games against opponents averaging avgOpponent.
func Calculate(avgOpponent int, points decimal.Decimal, rounds int) (int, error) {
	score, err := Score(points, rounds)
	if err != nil {
		return 0, err
	}
	offset, err := Offset(score)
	if err != nil {
		return 0, err
	}
	return avgOpponent + offset, nil
}

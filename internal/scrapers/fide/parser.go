package fide

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fidescrape/lib/htmlutil"
	"fidescrape/lib/performance"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// rows of a tournament are told apart by their background color
const (
	headerRowColor = "#CC9966"
	scoreRowColor  = "#e6e6e6"
)

// header row columns
const (
	headerColName = iota
	headerColCity
	headerColCountry
	headerColDate

	headerCols
)

// score row columns
const (
	scoreColAvgOpponents = iota
	scoreColOwnRating
	scoreColPoints
	scoreColRounds
	// scoreColChange is not the rating change that ends up applied, see scoreColRatingChange
	scoreColChange
	scoreColKFactor
	scoreColRatingChange
	scoreColExtra

	scoreCols
)

var scoreColNames = [scoreCols]string{
	scoreColAvgOpponents: "avg_opponents",
	scoreColOwnRating:    "own_rating",
	scoreColPoints:       "points",
	scoreColRounds:       "rounds",
	scoreColChange:       "change",
	scoreColKFactor:      "k_factor",
	scoreColRatingChange: "rating_change",
	scoreColExtra:        "extra",
}

func rowsWithColor(sel *goquery.Selection, color string) *goquery.Selection {
	return sel.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return strings.EqualFold(strings.TrimSpace(row.AttrOr("bgcolor", "")), color)
	})
}

// ParseTournaments extracts every tournament of a report with records, label is used
// as the rating period of each tournament.
func ParseTournaments(doc *goquery.Document, label string) ([]Tournament, error) {
	_, records, err := regions(doc)
	if err != nil {
		return nil, err
	}

	headers := rowsWithColor(records, headerRowColor)
	scores := rowsWithColor(records, scoreRowColor)
	if headers.Length() != scores.Length() {
		return nil, &StructuralMismatchError{
			Headers: headers.Length(),
			Scores:  scores.Length(),
		}
	}

	tournaments := make([]Tournament, 0, headers.Length())
	for i := 0; i < headers.Length(); i++ {
		headerCells := htmlutil.RowCells(headers.Eq(i))
		if len(headerCells) != headerCols {
			return nil, &RowShapeError{Row: i, Kind: "header", Want: headerCols, Got: len(headerCells)}
		}
		scoreCells := htmlutil.RowCells(scores.Eq(i))
		if len(scoreCells) != scoreCols {
			return nil, &RowShapeError{Row: i, Kind: "score", Want: scoreCols, Got: len(scoreCells)}
		}

		t, err := parseTournament(i, headerCells, scoreCells)
		if err != nil {
			return nil, err
		}
		t.RatingPeriod = label
		tournaments = append(tournaments, t)
	}

	return tournaments, nil
}

var (
	errNotPositive = errors.New("must be positive")
	errOutOfRange  = errors.New("must be between 0 and the number of rounds")
)

func parseTournament(row int, headerCells, scoreCells []string) (Tournament, error) {
	valueError := func(col int, err error) error {
		return &RowValueError{
			Row:    row,
			Column: scoreColNames[col],
			Value:  scoreCells[col],
			Err:    err,
		}
	}

	avgOpponents, err := strconv.Atoi(scoreCells[scoreColAvgOpponents])
	if err != nil {
		return Tournament{}, valueError(scoreColAvgOpponents, err)
	}
	points, err := parseDecimal(scoreCells[scoreColPoints])
	if err != nil {
		return Tournament{}, valueError(scoreColPoints, err)
	}
	rounds, err := strconv.Atoi(scoreCells[scoreColRounds])
	if err != nil {
		return Tournament{}, valueError(scoreColRounds, err)
	}
	if rounds <= 0 {
		return Tournament{}, valueError(scoreColRounds, errNotPositive)
	}
	if points.IsNegative() || points.GreaterThan(decimal.NewFromInt(int64(rounds))) {
		return Tournament{}, valueError(scoreColPoints, errOutOfRange)
	}
	ratingChange, err := parseDecimal(scoreCells[scoreColRatingChange])
	if err != nil {
		return Tournament{}, valueError(scoreColRatingChange, err)
	}

	perf, err := performance.Calculate(avgOpponents, points, rounds)
	if err != nil {
		return Tournament{}, fmt.Errorf("score row %d: %w", row, err)
	}

	return Tournament{
		Name:              headerCells[headerColName],
		City:              headerCells[headerColCity],
		Country:           headerCells[headerColCountry],
		Date:              headerCells[headerColDate],
		Points:            points,
		Rounds:            rounds,
		AvgOpponentRating: avgOpponents,
		RatingChange:      ratingChange,
		Performance:       perf,
	}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimPrefix(s, "+"))
}

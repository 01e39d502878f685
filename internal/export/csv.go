package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"fidescrape/internal/scrapers/fide"

	"github.com/shopspring/decimal"
)

// Columns is the header of every export.
var Columns = []string{
	"Rating Period",
	"Tournament Name",
	"City",
	"Country",
	"Pts.",
	"Rds.",
	"Avg. Opponents",
	"Rtg. Change",
	"Performance",
}

// FileName is the default csv file a player's tournaments are written to.
func FileName(playerId string) string {
	return fmt.Sprintf("%s.csv", playerId)
}

// formatNumber always keeps at least one decimal place, 7 is written as 7.0 and
// -16.20 as -16.2.
func formatNumber(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(1)
	}
	return d.String()
}

func row(t fide.Tournament) []string {
	return []string{
		t.RatingPeriod,
		t.Name,
		t.City,
		t.Country,
		formatNumber(t.Points),
		strconv.Itoa(t.Rounds),
		strconv.Itoa(t.AvgOpponentRating),
		formatNumber(t.RatingChange),
		strconv.Itoa(t.Performance),
	}
}

func WriteCSV(w io.Writer, tournaments []fide.Tournament) error {
	writer := csv.NewWriter(w)
	err := writer.Write(Columns)
	if err != nil {
		return err
	}
	for _, t := range tournaments {
		err = writer.Write(row(t))
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile creates (or truncates) path and writes the tournaments to it.
func WriteCSVFile(path string, tournaments []fide.Tournament) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	err = WriteCSV(file, tournaments)
	if err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

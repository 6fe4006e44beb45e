package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/slowflow/beerload/internal/models"
)

// ParseFirstBrewed parses the API's first_brewed text into a calendar date.
// "MM/YYYY" yields the first of that month, "YYYY" yields January 1 of that
// year. Anything else is a data-contract violation and returns a
// DateFormatError.
func ParseFirstBrewed(text string) (time.Time, error) {
	parts := strings.Split(text, "/")

	switch len(parts) {
	case 2:
		month, err := strconv.Atoi(parts[0])
		if err != nil || month < 1 || month > 12 {
			return time.Time{}, &models.DateFormatError{Text: text}
		}
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return time.Time{}, &models.DateFormatError{Text: text}
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
	case 1:
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return time.Time{}, &models.DateFormatError{Text: text}
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, &models.DateFormatError{Text: text}
	}
}

// Normalize maps one raw record into a staging table row: first_brewed
// parsed to a date, volume flattened to its numeric value, everything else
// carried through. Pure; the input record is not modified.
func Normalize(beer *models.Beer) (*models.BeerRow, error) {
	firstBrewed, err := ParseFirstBrewed(beer.FirstBrewed)
	if err != nil {
		return nil, err
	}

	return &models.BeerRow{
		ID:               beer.ID,
		Name:             beer.Name,
		Tagline:          beer.Tagline,
		FirstBrewed:      firstBrewed,
		Description:      beer.Description,
		ImageURL:         beer.ImageURL,
		ABV:              beer.ABV,
		IBU:              beer.IBU,
		TargetFG:         beer.TargetFG,
		TargetOG:         beer.TargetOG,
		EBC:              beer.EBC,
		SRM:              beer.SRM,
		PH:               beer.PH,
		AttenuationLevel: beer.AttenuationLevel,
		BrewersTips:      beer.BrewersTips,
		ContributedBy:    beer.ContributedBy,
		Volume:           int(beer.Volume.Value),
	}, nil
}

package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowflow/beerload/internal/database"
	"github.com/slowflow/beerload/internal/models"
)

func TestBuildInsertSQL(t *testing.T) {
	sql := buildInsertSQL()

	assert.True(t, strings.HasPrefix(sql, `INSERT INTO "staging_beers" VALUES (`))
	assert.Equal(t, len(database.StagingColumns), strings.Count(sql, "$"))
	assert.Contains(t, sql, "$17")
	assert.NotContains(t, sql, "$18")
}

func TestBuildMultirowSQL(t *testing.T) {
	t.Run("SingleRow", func(t *testing.T) {
		sql := buildMultirowSQL(1)
		assert.Equal(t, 17, strings.Count(sql, "$"))
		assert.Equal(t, 1, strings.Count(sql, "("))
	})

	t.Run("PlaceholdersContinueAcrossTuples", func(t *testing.T) {
		sql := buildMultirowSQL(3)

		assert.Equal(t, 51, strings.Count(sql, "$"))
		assert.Equal(t, 3, strings.Count(sql, "("))
		// Second tuple starts where the first left off.
		assert.Contains(t, sql, "($18, ")
		assert.Contains(t, sql, "($35, ")
		assert.True(t, strings.HasSuffix(sql, "$51);"))
	})
}

func TestNormalizeAll(t *testing.T) {
	beers := []models.Beer{
		{ID: 1, FirstBrewed: "09/2007", Volume: models.Volume{Value: 500}},
		{ID: 2, FirstBrewed: "2006", Volume: models.Volume{Value: 330}},
	}

	rows, err := normalizeAll(beers)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 330, rows[1].Volume)
}

func TestNormalizeAllFailsOnBadDate(t *testing.T) {
	beers := []models.Beer{
		{ID: 1, FirstBrewed: "09/2007"},
		{ID: 2, FirstBrewed: "not a date"},
	}

	_, err := normalizeAll(beers)

	var dateErr *models.DateFormatError
	assert.True(t, errors.As(err, &dateErr))
}

func TestEachRowStopsAtFirstError(t *testing.T) {
	beers := []models.Beer{
		{ID: 1, FirstBrewed: "09/2007"},
		{ID: 2, FirstBrewed: "garbage"},
		{ID: 3, FirstBrewed: "2006"},
	}

	var seen []int
	err := eachRow(beers, func(row *models.BeerRow) error {
		seen = append(seen, row.ID)
		return nil
	})

	assert.Error(t, err)
	assert.Equal(t, []int{1}, seen)
}

func TestEachRowPropagatesCallbackError(t *testing.T) {
	beers := []models.Beer{{ID: 1, FirstBrewed: "2006"}}
	callbackErr := fmt.Errorf("write failed")

	err := eachRow(beers, func(*models.BeerRow) error { return callbackErr })

	assert.ErrorIs(t, err, callbackErr)
}

// Zero rows must not reach the database at all: "INSERT ... VALUES" with no
// tuples is invalid SQL.
func TestExecMultirowEmptyInputIsNoop(t *testing.T) {
	l := &Loader{}

	err := l.execMultirow(context.Background(), "insert_multirow_values", nil)

	assert.NoError(t, err)
}

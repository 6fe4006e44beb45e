package models

import (
	"fmt"
	"time"
)

// Beer is a raw record as returned by the paginated beers API. Numeric
// fields the API reports as null are pointers so the distinction survives
// decoding.
type Beer struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Tagline          string   `json:"tagline"`
	FirstBrewed      string   `json:"first_brewed"`
	Description      string   `json:"description"`
	ImageURL         *string  `json:"image_url"`
	ABV              *float64 `json:"abv"`
	IBU              *float64 `json:"ibu"`
	TargetFG         *float64 `json:"target_fg"`
	TargetOG         *float64 `json:"target_og"`
	EBC              *float64 `json:"ebc"`
	SRM              *float64 `json:"srm"`
	PH               *float64 `json:"ph"`
	AttenuationLevel *float64 `json:"attenuation_level"`
	BrewersTips      string   `json:"brewers_tips"`
	ContributedBy    string   `json:"contributed_by"`
	Volume           Volume   `json:"volume"`
}

// Volume is the nested volume object on a raw record. Only Value is loaded;
// the staging table stores volumes as plain integers.
type Volume struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// BeerRow is a normalized record ready for the staging table: first_brewed
// parsed to a date and volume flattened to its numeric value. Field order
// matches the staging_beers column order.
type BeerRow struct {
	ID               int
	Name             string
	Tagline          string
	FirstBrewed      time.Time
	Description      string
	ImageURL         *string
	ABV              *float64
	IBU              *float64
	TargetFG         *float64
	TargetOG         *float64
	EBC              *float64
	SRM              *float64
	PH               *float64
	AttenuationLevel *float64
	BrewersTips      string
	ContributedBy    string
	Volume           int
}

// Values returns the row as a positional argument list in staging_beers
// column order. Every loader strategy binds through this method, so the
// column-order invariant lives in exactly one place.
func (r *BeerRow) Values() []any {
	return []any{
		r.ID,
		r.Name,
		r.Tagline,
		r.FirstBrewed,
		r.Description,
		r.ImageURL,
		r.ABV,
		r.IBU,
		r.TargetFG,
		r.TargetOG,
		r.EBC,
		r.SRM,
		r.PH,
		r.AttenuationLevel,
		r.BrewersTips,
		r.ContributedBy,
		r.Volume,
	}
}

// FetchError reports a failed page request against the beers API.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DateFormatError reports a first_brewed value matching neither MM/YYYY nor
// YYYY. It signals a broken upstream data contract and is never recovered.
type DateFormatError struct {
	Text string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unknown date format: %q", e.Text)
}

// LoadError wraps a destination write failure from a loader strategy. The
// staging table is recreated before every run, so no compensation is
// attempted for partially written batches.
type LoadError struct {
	Strategy string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: load failed: %v", e.Strategy, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
)

// lookup is the catalog query derived from a record.
type lookup struct {
	title  string
	year   string
	series bool
}

func newLookup(rec *media.Record) lookup {
	l := lookup{
		title:  strings.TrimSpace(rec.General.Title),
		series: rec.General.Series != nil,
	}
	if rec.General.Year != nil {
		l.year = strconv.Itoa(*rec.General.Year)
	}
	return l
}

func (l lookup) searchType() string {
	if l.series {
		return "series"
	}
	return "movie"
}

func (l lookup) key() string {
	return fmt.Sprintf("%s:%s:%s", l.searchType(), strings.ToLower(l.title), l.year)
}

// details holds the catalog fields copied into records.
type details struct {
	ImdbID      string
	Plot        string
	Genres      []string
	Rating      *float64
	RatingCount *int
	Poster      string
}

func (d *details) apply(rec *media.Record) {
	if d.Plot != "" {
		rec.General.Plot = d.Plot
	}
	if len(d.Genres) > 0 {
		rec.General.Genres = append([]string{}, d.Genres...)
	}
	if d.Rating != nil {
		rec.General.Rating = media.Ptr(*d.Rating)
	}
	if d.RatingCount != nil {
		rec.General.RatingCount = media.Ptr(*d.RatingCount)
	}
	if d.Poster != "" {
		rec.General.Poster = d.Poster
	}
}

func (e *Enricher) fetch(ctx context.Context, req lookup) (*details, error) {
	query := omdb.QueryData{
		Title:      req.title,
		Year:       req.year,
		SearchType: req.searchType(),
		Plot:       e.plot,
	}

	if err := e.limiter.wait(ctx); err != nil {
		return nil, err
	}

	result, err := e.client.SearchByTitle(query)
	if err != nil {
		return nil, e.mapError(err)
	}

	var d *details
	switch r := result.(type) {
	case omdb.MovieResult:
		d = newDetails(r.ImdbID, r.Plot, r.Genre, r.ImdbRating)
	case *omdb.MovieResult:
		d = newDetails(r.ImdbID, r.Plot, r.Genre, r.ImdbRating)
	case omdb.SeriesResult:
		d = newDetails(r.ImdbID, r.Plot, r.Genre, r.ImdbRating)
	case *omdb.SeriesResult:
		d = newDetails(r.ImdbID, r.Plot, r.Genre, r.ImdbRating)
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  req.searchType() + " not found",
		}
	}

	if d.ImdbID != "" {
		if err := e.fetchArtwork(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func newDetails(imdbID, plot, genre, rating string) *details {
	d := &details{
		ImdbID: imdbID,
		Genres: omdb.SplitAndTrim(genre),
	}
	if plot != "N/A" {
		d.Plot = plot
	}
	if r := float64(omdb.ParseRating(rating)); r > 0 {
		// One decimal, as displayed by IMDb.
		d.Rating = media.Ptr(math.Round(r*10) / 10)
	}
	return d
}

// artworkResponse holds the fields the typed client does not expose.
type artworkResponse struct {
	Poster    string `json:"Poster"`
	ImdbVotes string `json:"imdbVotes"`
	Response  string `json:"Response"`
	Error     string `json:"Error"`
}

// fetchArtwork completes d with the poster URL and vote count. Only
// cancellation is reported; the catalog fields are usable without them.
func (e *Enricher) fetchArtwork(ctx context.Context, d *details) error {
	if err := e.limiter.wait(ctx); err != nil {
		return err
	}
	httpReq, err := e.buildRequest(ctx, map[string]string{"i": d.ImdbID})
	if err != nil {
		return nil
	}
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return ctx.Err()
	}
	defer resp.Body.Close()

	var body artworkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Response == "False" {
		return nil
	}
	if body.Poster != "" && body.Poster != "N/A" {
		d.Poster = body.Poster
	}
	if n, ok := parseVotes(body.ImdbVotes); ok {
		d.RatingCount = media.Ptr(n)
	}
	return nil
}

package moviedb

import "fmt"

// TVShowResult is a single hit returned by the TV search endpoint.
type TVShowResult struct {
	PosterPath       *string  `json:"poster_path"`
	Popularity       float64  `json:"popularity"`
	ID               int64    `json:"id"`
	BackdropPath     *string  `json:"backdrop_path"`
	VoteAverage      float64  `json:"vote_average"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	OriginCountry    []string `json:"origin_country"`
	GenreIDs         []int64  `json:"genre_ids"`
	OriginalLanguage string   `json:"original_language"`
	VoteCount        int      `json:"vote_count"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
}

func (r *TVShowResult) UnmarshalJSON(b []byte) error {
	fields, err := newObjectFields("tv show result", b)
	if err != nil {
		return err
	}

	return fields.decode(
		nullable("poster_path", &r.PosterPath),
		required("popularity", &r.Popularity),
		required("id", &r.ID),
		nullable("backdrop_path", &r.BackdropPath),
		required("vote_average", &r.VoteAverage),
		required("overview", &r.Overview),
		required("first_air_date", &r.FirstAirDate),
		required("origin_country", &r.OriginCountry),
		required("genre_ids", &r.GenreIDs),
		required("original_language", &r.OriginalLanguage),
		required("vote_count", &r.VoteCount),
		required("name", &r.Name),
		required("original_name", &r.OriginalName),
	)
}

func (r *TVShowResult) String() string {
	return fmt.Sprintf("TVShowResult(id=%d name=%q original_name=%q)", r.ID, r.Name, r.OriginalName)
}

// MovieResult is a single hit returned by the movie search endpoint.
type MovieResult struct {
	PosterPath       *string `json:"poster_path"`
	Adult            bool    `json:"adult"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int64 `json:"genre_ids"`
	ID               int64   `json:"id"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Title            string  `json:"title"`
	BackdropPath     *string `json:"backdrop_path"`
	Popularity       float64 `json:"popularity"`
	VoteCount        int     `json:"vote_count"`
	Video            bool    `json:"video"`
	VoteAverage      float64 `json:"vote_average"`
}

func (r *MovieResult) UnmarshalJSON(b []byte) error {
	fields, err := newObjectFields("movie result", b)
	if err != nil {
		return err
	}

	return fields.decode(
		nullable("poster_path", &r.PosterPath),
		required("adult", &r.Adult),
		required("overview", &r.Overview),
		required("release_date", &r.ReleaseDate),
		required("genre_ids", &r.GenreIDs),
		required("id", &r.ID),
		required("original_title", &r.OriginalTitle),
		required("original_language", &r.OriginalLanguage),
		required("title", &r.Title),
		nullable("backdrop_path", &r.BackdropPath),
		required("popularity", &r.Popularity),
		required("vote_count", &r.VoteCount),
		required("video", &r.Video),
		required("vote_average", &r.VoteAverage),
	)
}

func (r *MovieResult) String() string {
	return fmt.Sprintf("MovieResult(id=%d title=%q original_title=%q)", r.ID, r.Title, r.OriginalTitle)
}

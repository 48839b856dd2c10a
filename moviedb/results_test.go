package moviedb

import (
	"encoding/json"
	"testing"

	"github.com/duke605/tmdb-search/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tvShowObject = `{
	"poster_path": "/poster.jpg",
	"popularity": 12.25,
	"id": 4607,
	"backdrop_path": null,
	"vote_average": 7.9,
	"overview": "Stripped of everything, the survivors of a plane crash are forced to work together.",
	"first_air_date": "2004-09-22",
	"origin_country": ["US", "CA"],
	"genre_ids": [18, 9648],
	"original_language": "en",
	"vote_count": 2814,
	"name": "Lost",
	"original_name": "Lost"
}`

const movieObject = `{
	"poster_path": null,
	"adult": true,
	"overview": "",
	"release_date": "1999-03-30",
	"genre_ids": [28],
	"id": 603,
	"original_title": "The Matrix",
	"original_language": "en",
	"title": "Matrix",
	"backdrop_path": "/backdrop.jpg",
	"popularity": 70.1,
	"vote_count": 24000,
	"video": true,
	"vote_average": 8.2
}`

func objectWithout(t *testing.T, object, key string) []byte {
	t.Helper()

	m := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(object), &m))
	delete(m, key)

	b, err := json.Marshal(m)
	require.NoError(t, err)

	return b
}

func objectKeys(t *testing.T, object string) []string {
	t.Helper()

	m := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(object), &m))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys
}

func TestTVShowResultCopiesEveryField(t *testing.T) {
	// Arranging
	r := &TVShowResult{}

	// Acting
	err := json.Unmarshal([]byte(tvShowObject), r)

	// Asserting
	require.NoError(t, err)
	assert.Equal(t, &TVShowResult{
		PosterPath:       utils.PP("/poster.jpg"),
		Popularity:       12.25,
		ID:               4607,
		BackdropPath:     nil,
		VoteAverage:      7.9,
		Overview:         "Stripped of everything, the survivors of a plane crash are forced to work together.",
		FirstAirDate:     "2004-09-22",
		OriginCountry:    []string{"US", "CA"},
		GenreIDs:         []int64{18, 9648},
		OriginalLanguage: "en",
		VoteCount:        2814,
		Name:             "Lost",
		OriginalName:     "Lost",
	}, r)
	assert.Equal(t, `TVShowResult(id=4607 name="Lost" original_name="Lost")`, r.String())
}

func TestMovieResultCopiesEveryField(t *testing.T) {
	// Arranging
	r := &MovieResult{}

	// Acting
	err := json.Unmarshal([]byte(movieObject), r)

	// Asserting
	require.NoError(t, err)
	assert.Equal(t, &MovieResult{
		PosterPath:       nil,
		Adult:            true,
		Overview:         "",
		ReleaseDate:      "1999-03-30",
		GenreIDs:         []int64{28},
		ID:               603,
		OriginalTitle:    "The Matrix",
		OriginalLanguage: "en",
		Title:            "Matrix",
		BackdropPath:     utils.PP("/backdrop.jpg"),
		Popularity:       70.1,
		VoteCount:        24000,
		Video:            true,
		VoteAverage:      8.2,
	}, r)
}

func TestTVShowResultRequiresEveryField(t *testing.T) {
	for _, key := range objectKeys(t, tvShowObject) {
		t.Run(key, func(t *testing.T) {
			err := json.Unmarshal(objectWithout(t, tvShowObject, key), &TVShowResult{})

			assert.ErrorIs(t, err, ErrMissingField)
			fieldErr := &FieldError{}
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, key, fieldErr.Field)
			assert.Equal(t, "tv show result", fieldErr.Object)
		})
	}
}

func TestMovieResultRequiresEveryField(t *testing.T) {
	for _, key := range objectKeys(t, movieObject) {
		t.Run(key, func(t *testing.T) {
			err := json.Unmarshal(objectWithout(t, movieObject, key), &MovieResult{})

			assert.ErrorIs(t, err, ErrMissingField)
			fieldErr := &FieldError{}
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, key, fieldErr.Field)
		})
	}
}

func TestResultRejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"id as string":    `{"id": "4607"}`,
		"name as null":    `{"name": null}`,
		"genre_ids mixed": `{"genre_ids": [1, "two"]}`,
	}

	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			// Arranging
			m := map[string]json.RawMessage{}
			require.NoError(t, json.Unmarshal([]byte(tvShowObject), &m))
			require.NoError(t, json.Unmarshal([]byte(patch), &m))
			b, err := json.Marshal(m)
			require.NoError(t, err)

			// Acting
			err = json.Unmarshal(b, &TVShowResult{})

			// Asserting
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.NotErrorIs(t, err, ErrMissingField)
		})
	}
}

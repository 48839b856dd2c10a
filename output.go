package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/duke605/tmdb-search/moviedb"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const titleWidth = 40

// tableColumn renders one cell of a row of type T. i is the row's position in the table.
type tableColumn[T any] struct {
	header string
	align  text.Align
	value  func(row T, i int) string
}

var tvShowColumns = []tableColumn[*moviedb.TVShowResult]{
	{"#", text.AlignRight, func(_ *moviedb.TVShowResult, i int) string { return strconv.Itoa(i + 1) }},
	{"ID", text.AlignRight, func(r *moviedb.TVShowResult, _ int) string { return strconv.FormatInt(r.ID, 10) }},
	{"Name", text.AlignLeft, func(r *moviedb.TVShowResult, _ int) string { return Truncate(r.Name, titleWidth) }},
	{"First Aired", text.AlignLeft, func(r *moviedb.TVShowResult, _ int) string { return r.FirstAirDate }},
	{"Country", text.AlignLeft, func(r *moviedb.TVShowResult, _ int) string { return strings.Join(r.OriginCountry, ",") }},
	{"Rating", text.AlignRight, func(r *moviedb.TVShowResult, _ int) string { return formatRating(r.VoteAverage) }},
}

var movieColumns = []tableColumn[*moviedb.MovieResult]{
	{"#", text.AlignRight, func(_ *moviedb.MovieResult, i int) string { return strconv.Itoa(i + 1) }},
	{"ID", text.AlignRight, func(r *moviedb.MovieResult, _ int) string { return strconv.FormatInt(r.ID, 10) }},
	{"Title", text.AlignLeft, func(r *moviedb.MovieResult, _ int) string { return Truncate(r.Title, titleWidth) }},
	{"Released", text.AlignLeft, func(r *moviedb.MovieResult, _ int) string { return r.ReleaseDate }},
	{"Language", text.AlignLeft, func(r *moviedb.MovieResult, _ int) string { return r.OriginalLanguage }},
	{"Rating", text.AlignRight, func(r *moviedb.MovieResult, _ int) string { return formatRating(r.VoteAverage) }},
}

var searchColumns = []tableColumn[*Search]{
	{"ID", text.AlignRight, func(s *Search, _ int) string { return strconv.FormatInt(s.ID, 10) }},
	{"Kind", text.AlignLeft, func(s *Search, _ int) string { return s.Kind }},
	{"Query", text.AlignLeft, func(s *Search, _ int) string { return Truncate(s.Query, titleWidth) }},
	{"Page", text.AlignRight, func(s *Search, _ int) string { return fmt.Sprintf("%d/%d", s.Page, s.TotalPages) }},
	{"Results", text.AlignRight, func(s *Search, _ int) string { return strconv.Itoa(s.TotalResults) }},
	{"Searched At", text.AlignLeft, func(s *Search, _ int) string { return s.CreatedAt.Local().Format(time.DateTime) }},
}

func formatRating(vote float64) string {
	return strconv.FormatFloat(vote, 'f', 1, 64)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable[T any](columns []tableColumn[T], rows []T) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		header = append(header, col.header)
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for i, row := range rows {
		r := make(table.Row, 0, len(columns))
		for _, col := range columns {
			r = append(r, col.value(row, i))
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}

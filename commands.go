package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/duke605/tmdb-search/moviedb"
	"github.com/duke605/tmdb-search/utils"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var configFile string

var rootCommand = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: "Searches The Movie Database from the command line",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		defer utils.ReturnPanic(&err)

		slog.SetDefault(srvCtn.Get(SrvCtnKeyLogger).(*slog.Logger))
		return nil
	},
}

var searchTVCommand = &cobra.Command{
	Use:   "search:tv <query>",
	Short: "Searches TV shows by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true
		defer utils.ReturnPanic(&err)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		searchSrv := srvCtn.Get(SrvCtnKeySearchSrv).(*SearchService)
		flags := cmd.Flags()
		opts := moviedb.TVShowSearchOptions{
			Language:         flagPtr(flags, "language", flags.GetString),
			Page:             flagPtr(flags, "page", flags.GetInt),
			IncludeAdult:     flagPtr(flags, "include-adult", flags.GetBool),
			FirstAirDateYear: flagPtr(flags, "first-air-date-year", flags.GetInt),
		}

		pages := utils.Must(flags.GetInt("pages"))
		if pages < 1 {
			return errors.New("--pages must be at least 1")
		}

		start := time.Now()
		pager := searchSrv.SearchTVShows(ctx, strings.Join(args, " "), opts, pages)
		results, err := utils.Collect(pager, -1)
		if err != nil {
			return err
		}
		cmd.PrintErrf("Found %d result(s). Took %s\n", len(results), HumanDuration(time.Since(start)))

		if utils.Must(flags.GetBool("json")) {
			return writeJSON(cmd, results)
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(tvShowColumns, results))

		return nil
	},
}

var searchMovieCommand = &cobra.Command{
	Use:   "search:movie <query>",
	Short: "Searches movies by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true
		defer utils.ReturnPanic(&err)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		searchSrv := srvCtn.Get(SrvCtnKeySearchSrv).(*SearchService)
		flags := cmd.Flags()
		opts := moviedb.MovieSearchOptions{
			Language:           flagPtr(flags, "language", flags.GetString),
			Page:               flagPtr(flags, "page", flags.GetInt),
			IncludeAdult:       flagPtr(flags, "include-adult", flags.GetBool),
			Region:             flagPtr(flags, "region", flags.GetString),
			Year:               flagPtr(flags, "year", flags.GetInt),
			PrimaryReleaseYear: flagPtr(flags, "primary-release-year", flags.GetInt),
		}

		pages := utils.Must(flags.GetInt("pages"))
		if pages < 1 {
			return errors.New("--pages must be at least 1")
		}

		start := time.Now()
		pager := searchSrv.SearchMovies(ctx, strings.Join(args, " "), opts, pages)
		results, err := utils.Collect(pager, -1)
		if err != nil {
			return err
		}
		cmd.PrintErrf("Found %d result(s). Took %s\n", len(results), HumanDuration(time.Since(start)))

		if utils.Must(flags.GetBool("json")) {
			return writeJSON(cmd, results)
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(movieColumns, results))

		return nil
	},
}

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Lists recorded searches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true
		defer utils.ReturnPanic(&err)

		searchSrv := srvCtn.Get(SrvCtnKeySearchSrv).(*SearchService)

		limit := utils.Must(cmd.Flags().GetInt("limit"))
		if limit < 1 {
			return errors.New("--limit must be at least 1")
		}

		searches, err := searchSrv.History(cmd.Context(), limit)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(searchColumns, searches))

		return nil
	},
}

var clearHistoryCommand = &cobra.Command{
	Use:   "history:clear",
	Short: "Deletes all recorded searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true
		defer utils.ReturnPanic(&err)

		searchesRepo := srvCtn.Get(SrvCtnKeySearchRepo).(*SearchesRepo)

		start := time.Now()
		n, err := searchesRepo.DeleteAll(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Finished deleting %d search(es). Took %s\n", n, HumanDuration(time.Since(start)))
		return nil
	},
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Applies all available migrations.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true
		defer utils.ReturnPanic(&err)

		database := srvCtn.Get(SrvCtnKeyDatabaseRaw).(*sqlx.DB)

		return migrateUp(database)
	},
}

var makeMigrationCommand = &cobra.Command{
	Use:   "make:migration <name>",
	Short: "Create writes a new blank migration file.",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return goose.SetDialect("sqlite3")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		migrationName := args[0]

		return goose.Create(nil, "migrations", migrationName, "sql")
	},
}

var rollbackMigrationCommand = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rolls back a single migration from the current version.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cmd.SilenceUsage = true
		defer utils.ReturnPanic(&err)

		database := srvCtn.Get(SrvCtnKeyDatabaseRaw).(*sqlx.DB)

		return migrateDown(database)
	},
}

// flagPtr returns nil unless the flag was set explicitly so that TMDB applies its own default.
func flagPtr[T any](flags *pflag.FlagSet, name string, get func(string) (T, error)) *T {
	if !flags.Changed(name) {
		return nil
	}

	return utils.PP(utils.Must(get(name)))
}

func addSearchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("language", "", "locale of the results, e.g. en-US")
	flags.Int("page", 1, "first result page to fetch")
	flags.Bool("include-adult", false, "include adult content")
	flags.Int("pages", 1, "maximum number of result pages to fetch")
	flags.Bool("json", false, "print results as JSON")
}

func init() {
	rootCommand.PersistentFlags().StringVar(&configFile, "config", ".env.yaml", "path of the config file")

	addSearchFlags(searchTVCommand)
	searchTVCommand.Flags().Int("first-air-date-year", 0, "only match shows first aired in this year")

	addSearchFlags(searchMovieCommand)
	searchMovieCommand.Flags().String("region", "", "ISO 3166-1 region used to match release dates")
	searchMovieCommand.Flags().Int("year", 0, "only match movies released in this year")
	searchMovieCommand.Flags().Int("primary-release-year", 0, "only match movies first released in this year")

	historyCommand.Flags().Int("limit", 20, "maximum number of searches to list")

	rootCommand.AddCommand(
		searchTVCommand,
		searchMovieCommand,
		historyCommand,
		clearHistoryCommand,
		migrateCommand,
		makeMigrationCommand,
		rollbackMigrationCommand,
	)
}

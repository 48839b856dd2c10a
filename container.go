package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/duke605/tmdb-search/moviedb"
	"github.com/duke605/tmdb-search/utils"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/sarulabs/di"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

const (
	SrvCtnKeyViper       = "viper"
	SrvCtnKeyLogFile     = "logFile"
	SrvCtnKeyLogger      = "logger"
	SrvCtnKeyDatabase    = "database"
	SrvCtnKeyDatabaseRaw = "databaseRaw"
	SrvCtnKeyHTTPClient  = "httpClient"
	SrvCtnKeyMovieDB     = "moviedbClient"
	SrvCtnKeySnowflakes  = "snowflakes"
	SrvCtnKeySearchRepo  = "searchesRepo"
	SrvCtnKeySearchSrv   = "searchService"
)

var srvCtn di.Container

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("moviedb.base_url", moviedb.DefaultBaseURL)
	v.SetDefault("moviedb.timeout", "10s")
	v.SetDefault("db.file", "tmdb-search.db")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("log.file", "log.jsonl")
	v.SetDefault("log.level", "info")
	v.SetDefault("snowflake.node", 1)
}

func newContainer(appFs afero.Fs, configFile string) (ctn di.Container, err error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return ctn, err
	}

	err = builder.Add(
		di.Def{
			Name: SrvCtnKeyViper,
			Build: func(ctn di.Container) (interface{}, error) {
				v := viper.New()
				v.SetFs(appFs)
				setConfigDefaults(v)
				v.SetConfigFile(configFile)
				v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
				v.AutomaticEnv()

				err := v.ReadInConfig()
				if errors.Is(err, fs.ErrNotExist) || errors.As(err, &viper.ConfigFileNotFoundError{}) {
					return v, nil
				}

				return v, err
			},
		},
		di.Def{
			Name: SrvCtnKeyLogFile,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)

				return utils.NewDateFile(appFs, v.GetString("log.file"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666), nil
			},
			Close: func(obj interface{}) error {
				return obj.(io.Closer).Close()
			},
		},
		di.Def{
			Name: SrvCtnKeyLogger,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)
				f := ctn.Get(SrvCtnKeyLogFile).(io.Writer)

				level := slog.LevelInfo
				if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
					return nil, fmt.Errorf("log.level: %w", err)
				}

				return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), nil
			},
		},
		// Migration commands use the raw database so that db.auto_migrate cannot undo a rollback.
		di.Def{
			Name: SrvCtnKeyDatabaseRaw,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)

				connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", v.GetString("db.file"))
				return sqlx.Connect("sqlite3", connStr)
			},
			Close: func(obj interface{}) error {
				return obj.(*sqlx.DB).Close()
			},
		},
		di.Def{
			Name: SrvCtnKeyDatabase,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)
				db := ctn.Get(SrvCtnKeyDatabaseRaw).(*sqlx.DB)

				if v.GetBool("db.auto_migrate") {
					if err := migrateUp(db); err != nil {
						return nil, err
					}
				}

				return db, nil
			},
		},
		di.Def{
			Name: SrvCtnKeyHTTPClient,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)

				httpClient := &http.Client{}
				if token := v.GetString("moviedb.access_token"); token != "" {
					t := oauth2.StaticTokenSource(&oauth2.Token{
						AccessToken: token,
						TokenType:   "bearer",
					})
					httpClient = oauth2.NewClient(context.Background(), t)
				}
				httpClient.Timeout = v.GetDuration("moviedb.timeout")

				return httpClient, nil
			},
		},
		di.Def{
			Name: SrvCtnKeyMovieDB,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)
				httpClient := ctn.Get(SrvCtnKeyHTTPClient).(*http.Client)
				logger := ctn.Get(SrvCtnKeyLogger).(*slog.Logger)

				apiKey := v.GetString("moviedb.api_key")
				if apiKey == "" && v.GetString("moviedb.access_token") == "" {
					return nil, errors.New("moviedb.api_key or moviedb.access_token must be configured")
				}

				return moviedb.NewClient(apiKey,
					moviedb.ClientOptionWithBaseURL(v.GetString("moviedb.base_url")),
					moviedb.ClientOptionWithHTTPClient(httpClient),
					moviedb.ClientOptionWithLogger(logger),
				)
			},
		},
		di.Def{
			Name: SrvCtnKeySnowflakes,
			Build: func(ctn di.Container) (interface{}, error) {
				v := ctn.Get(SrvCtnKeyViper).(*viper.Viper)

				return snowflake.NewNode(v.GetInt64("snowflake.node"))
			},
		},
		di.Def{
			Name: SrvCtnKeySearchRepo,
			Build: func(ctn di.Container) (interface{}, error) {
				return NewSearchesRepo(ctn.Get(SrvCtnKeyDatabase).(*sqlx.DB)), nil
			},
		},
		di.Def{
			Name: SrvCtnKeySearchSrv,
			Build: func(ctn di.Container) (interface{}, error) {
				return NewSearchService(
					ctn.Get(SrvCtnKeyMovieDB).(moviedb.Client),
					ctn.Get(SrvCtnKeySearchRepo).(*SearchesRepo),
					ctn.Get(SrvCtnKeySnowflakes).(*snowflake.Node),
				), nil
			},
		},
	)
	if err != nil {
		return ctn, err
	}

	return builder.Build(), nil
}

func migrateUp(db *sqlx.DB) error {
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.Up(db.DB, "migrations")
}

func migrateDown(db *sqlx.DB) error {
	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.Down(db.DB, "migrations")
}

package main

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/duke605/tmdb-search/utils"
	"github.com/jmoiron/sqlx"
)

const hitsBatchSize = 50

type SearchesRepo struct {
	db *sqlx.DB
}

func NewSearchesRepo(db *sqlx.DB) *SearchesRepo {
	return &SearchesRepo{db}
}

// Insert stores the search and its hits in a single transaction
func (repo *SearchesRepo) Insert(ctx context.Context, s *Search, hits []*SearchHit) (err error) {
	query, args, err := sq.Insert("searches").
		SetMap(s.ToMap()).
		ToSql()
	if err != nil {
		return err
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	start := time.Now()
	_, err = tx.ExecContext(ctx, query, args...)
	logQuery(ctx, "Inserting search", start, "query", query, "args", args)
	if err != nil {
		return err
	}

	bat := utils.NewBatcher(hitsBatchSize, func(hits []*SearchHit) error {
		return repo.insertHits(ctx, tx, hits)
	})
	if err = bat.AddAll(hits...); err != nil {
		return err
	}
	if err = bat.Flush(); err != nil {
		return err
	}

	slog.DebugContext(ctx, "Inserted search hits", "search_id", s.ID, "hits", bat.Flushed())
	return nil
}

func (repo *SearchesRepo) insertHits(ctx context.Context, tx *sqlx.Tx, hits []*SearchHit) error {
	cols := hits[0].GetColumns()
	builder := sq.Insert("search_hits").Columns(cols...)
	for _, hit := range hits {
		builder = builder.Values(hit.ToColumns(cols)...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	start := time.Now()
	defer logQuery(ctx, "Inserting many search hits", start, "query", query)
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// List pages through recorded searches, newest first
func (repo *SearchesRepo) List(ctx context.Context, pageSize uint64) utils.Pager[*Search] {
	builder := sq.Select("*").
		From("searches").
		OrderBy("created_at DESC", "id DESC").
		Limit(pageSize)

	return utils.NewPager(func(page int, buf []*Search) ([]*Search, error) {
		query, args, err := builder.Offset(uint64(page) * pageSize).ToSql()
		if err != nil {
			return nil, err
		}

		start := time.Now()
		defer logQuery(ctx, "Listing searches", start, "query", query, "args", args)

		buf = buf[:0]
		if err := repo.db.SelectContext(ctx, &buf, query, args...); err != nil {
			return nil, err
		}

		return buf, nil
	})
}

// GetHits returns the hits of a search in the order TMDB returned them
func (repo *SearchesRepo) GetHits(ctx context.Context, searchID int64) ([]*SearchHit, error) {
	query, args, err := sq.Select("*").
		From("search_hits").
		Where(sq.Eq{"search_id": searchID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer logQuery(ctx, "Getting hits for search", start, "query", query, "args", args)
	hits := []*SearchHit{}
	if err = repo.db.SelectContext(ctx, &hits, query, args...); err != nil {
		return nil, err
	}

	return hits, nil
}

func (repo *SearchesRepo) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int64
	for _, table := range []string{"search_hits", "searches"} {
		query, _, err := sq.Delete(table).ToSql()
		if err != nil {
			return 0, err
		}

		start := time.Now()
		r, err := tx.ExecContext(ctx, query)
		logQuery(ctx, "Deleting all rows", start, "query", query)
		if err != nil {
			return 0, err
		}

		n, _ = r.RowsAffected()
	}

	return n, tx.Commit()
}

func logQuery(ctx context.Context, msg string, start time.Time, args ...interface{}) {
	args = append(args, "duration", time.Since(start))
	slog.DebugContext(ctx, msg, args...)
}

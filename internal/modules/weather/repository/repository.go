package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"weatherboard/internal/modules/weather/types"
)

//go:embed sql/list-samples.sql
var listSamplesSQL string

//go:embed sql/top-k-samples.sql
var topKSamplesTemplate string

//go:embed sql/insert-sample.sql
var insertSampleSQL string

// sortColumns maps each API field to its weatherdata column.
var sortColumns = map[types.Field]string{
	types.FieldCity:        "city",
	types.FieldTemp:        "temp",
	types.FieldHumidity:    "humidity",
	types.FieldPressurePsi: "pressurepsi",
}

var sortDirections = map[types.Order]string{
	types.Ascending:  "ASC",
	types.Descending: "DESC",
}

// topKStatements holds one complete statement per sort key. It is built once
// from the constant tables above; request data never reaches it.
var topKStatements = buildTopKStatements()

func buildTopKStatements() map[types.SortKey]string {
	out := make(map[types.SortKey]string, len(sortColumns)*len(sortDirections))
	for field, column := range sortColumns {
		for order, dir := range sortDirections {
			out[types.SortKey{Field: field, Order: order}] = fmt.Sprintf(topKSamplesTemplate, column+" "+dir)
		}
	}
	return out
}

type WeatherRepository interface {
	TopK(ctx context.Context, key types.SortKey, limit int) ([]types.WeatherSample, error)
	List(ctx context.Context) ([]types.WeatherSample, error)
	Insert(ctx context.Context, sample types.WeatherSample) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) WeatherRepository {
	return &repositoryImpl{db: db}
}

// TopK runs the statement registered for key on a connection held only for
// the duration of the call.
func (r *repositoryImpl) TopK(ctx context.Context, key types.SortKey, limit int) ([]types.WeatherSample, error) {
	stmt, ok := topKStatements[key]
	if !ok {
		return nil, fmt.Errorf("no top-k statement for field %q order %q", key.Field, key.Order)
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release top-k connection", "error", err)
		}
	}()

	rows, err := conn.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close top-k rows", "error", err)
		}
	}()
	return scanSamples(rows, limit)
}

func (r *repositoryImpl) List(ctx context.Context) ([]types.WeatherSample, error) {
	rows, err := r.db.QueryContext(ctx, listSamplesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close samples rows", "error", err)
		}
	}()
	return scanSamples(rows, 0)
}

func (r *repositoryImpl) Insert(ctx context.Context, s types.WeatherSample) error {
	_, err := r.db.ExecContext(ctx, insertSampleSQL, s.ID, s.City, s.Temp, s.Humidity, s.PressurePsi)
	if err != nil {
		return fmt.Errorf("insert sample %q: %w", s.ID, err)
	}
	return nil
}

func scanSamples(rows *sql.Rows, capacity int) ([]types.WeatherSample, error) {
	out := make([]types.WeatherSample, 0, capacity)
	for rows.Next() {
		var s types.WeatherSample
		if err := rows.Scan(&s.ID, &s.City, &s.Temp, &s.Humidity, &s.PressurePsi); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

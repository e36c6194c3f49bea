package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/energydash/pkg/models"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bill1 REAL NOT NULL,
		bill2 REAL NOT NULL,
		bill3 REAL NOT NULL,
		predicted_bill REAL NOT NULL,
		predicted_units REAL NOT NULL,
		rounded_bill REAL NOT NULL,
		month_names TEXT,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	CREATE INDEX IF NOT EXISTS idx_predictions_published ON predictions(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// RecordPrediction stores a successful prediction with the bills that produced it
func (db *DB) RecordPrediction(ctx context.Context, bills []float64, p *models.Prediction) error {
	if len(bills) != 3 {
		return fmt.Errorf("expected 3 bills, got %d", len(bills))
	}
	_, err := db.InsertPrediction(ctx, &models.PredictionRecord{
		Bills:          bills,
		PredictedBill:  p.PredictedBill,
		PredictedUnits: p.PredictedUnits,
		RoundedBill:    p.RoundedBill,
		MonthNames:     p.MonthNames,
		CreatedAt:      time.Now(),
	})
	return err
}

// InsertPrediction inserts a prediction record and returns its ID
func (db *DB) InsertPrediction(ctx context.Context, r *models.PredictionRecord) (int, error) {
	query := `
	INSERT INTO predictions (bill1, bill2, bill3, predicted_bill, predicted_units, rounded_bill, month_names, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if len(r.Bills) != 3 {
		return 0, fmt.Errorf("expected 3 bills, got %d", len(r.Bills))
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := db.conn.ExecContext(ctx, query,
		r.Bills[0], r.Bills[1], r.Bills[2],
		r.PredictedBill, r.PredictedUnits, r.RoundedBill,
		strings.Join(r.MonthNames, ","),
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting prediction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading prediction id: %w", err)
	}
	return int(id), nil
}

// ListPredictions retrieves the most recent predictions, newest first.
// A limit of 0 returns every record.
func (db *DB) ListPredictions(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	query := `
	SELECT id, bill1, bill2, bill3, predicted_bill, predicted_units, rounded_bill, month_names, created_at, published
	FROM predictions
	ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// ListUnpublishedPredictions retrieves predictions not yet published, oldest first
func (db *DB) ListUnpublishedPredictions(ctx context.Context) ([]models.PredictionRecord, error) {
	query := `
	SELECT id, bill1, bill2, bill3, predicted_bill, predicted_units, rounded_bill, month_names, created_at, published
	FROM predictions
	WHERE published = 0
	ORDER BY created_at ASC, id ASC
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying unpublished predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// MarkPublished marks a prediction as published
func (db *DB) MarkPublished(ctx context.Context, id int) error {
	query := `UPDATE predictions SET published = 1 WHERE id = ?`
	_, err := db.conn.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("marking prediction as published: %w", err)
	}
	return nil
}

func scanPredictions(rows *sql.Rows) ([]models.PredictionRecord, error) {
	var results []models.PredictionRecord
	for rows.Next() {
		var r models.PredictionRecord
		var b1, b2, b3 float64
		var monthNames sql.NullString
		var createdAt string
		var published int

		if err := rows.Scan(&r.ID, &b1, &b2, &b3, &r.PredictedBill, &r.PredictedUnits, &r.RoundedBill,
			&monthNames, &createdAt, &published); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		var err error
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		r.Bills = []float64{b1, b2, b3}
		if monthNames.Valid && monthNames.String != "" {
			r.MonthNames = strings.Split(monthNames.String, ",")
		}
		r.Published = published != 0

		results = append(results, r)
	}

	return results, rows.Err()
}

package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

// SQLiteRecorder writes decisions and their offers to a SQLite database.
type SQLiteRecorder struct {
	logger *zap.Logger
	db     *sql.DB
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database at dbPath and runs
// migrations.
func NewSQLiteRecorder(logger *zap.Logger, dbPath string) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, eris.Wrapf(err, "open sqlite %s", dbPath)
	}

	// WAL lets reporting tools read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "set WAL mode")
	}

	r := &SQLiteRecorder{logger: logger, db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "migrate")
	}

	logger.Info("sqlite recorder opened",
		zap.String("op", "recorder.NewSQLiteRecorder"),
		zap.String("path", dbPath),
	)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id            TEXT PRIMARY KEY,
			recorded_at   INTEGER NOT NULL,
			source        TEXT NOT NULL,
			model_version TEXT,
			state         TEXT,
			term_months   INTEGER,
			pd            REAL,
			principal     REAL,
			dti           REAL,
			ltv           REAL,
			offer_count   INTEGER NOT NULL,
			application   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_recorded_at ON decisions(recorded_at)`,

		`CREATE TABLE IF NOT EXISTS offers (
			decision_id     TEXT NOT NULL REFERENCES decisions(id),
			rank            INTEGER NOT NULL,
			lender_id       TEXT NOT NULL,
			lender_name     TEXT,
			apr             REAL,
			term_months     INTEGER,
			monthly_payment REAL,
			total_cost      REAL,
			PRIMARY KEY (decision_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offers_lender ON offers(lender_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return eris.Wrapf(err, "exec %q", s[:40])
		}
	}
	return nil
}

// RecordSearch stores d and its ranked offers in one transaction.
func (r *SQLiteRecorder) RecordSearch(ctx context.Context, d Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appJSON, err := json.Marshal(d.Application)
	if err != nil {
		return eris.Wrap(err, "encode application")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO decisions
		(id, recorded_at, source, model_version, state, term_months, pd, principal, dti, ltv, offer_count, application)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.RecordedAt.Unix(), d.Source, nullString(d.ModelVersion),
		d.Application.State, d.Application.TermMonths, d.PD,
		d.Result.Principal, nullFloat(d.Result.DTI), nullFloat(d.Result.LTV),
		len(d.Result.Offers), string(appJSON),
	)
	if err != nil {
		return eris.Wrap(err, "insert decision")
	}

	for i, o := range d.Result.Offers {
		_, err = tx.ExecContext(ctx, `INSERT INTO offers
			(decision_id, rank, lender_id, lender_name, apr, term_months, monthly_payment, total_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID.String(), i+1, o.LenderID, o.LenderName, o.APR, o.TermMonths, o.MonthlyPayment, o.TotalCost,
		)
		if err != nil {
			return eris.Wrapf(err, "insert offer %s", o.LenderID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "commit decision")
	}
	return nil
}

// Close closes the database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// nullFloat stores non-finite values as NULL; SQLite has no representation
// for NaN.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: mathutil.IsFinite(v)}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

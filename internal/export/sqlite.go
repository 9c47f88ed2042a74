package export

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pacificclimate/designvalues/pkg/designvalue"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS design_values (
	station_id TEXT NOT NULL,
	variable TEXT NOT NULL,
	return_period INTEGER NOT NULL,
	design_value REAL,
	computed_at TIMESTAMP NOT NULL,
	PRIMARY KEY (station_id, variable, return_period)
)`

// ResultsDB stores per-station design values in a local SQLite file.
// Undefined design values are stored as NULL; readers must check for
// it rather than assume every station produced a number.
type ResultsDB struct {
	db *sql.DB
}

// OpenResultsDB opens (creating if necessary) a results database.
func OpenResultsDB(path string) (*ResultsDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	if _, err := db.Exec(resultsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create design_values table: %w", err)
	}
	return &ResultsDB{db: db}, nil
}

// Close closes the database.
func (r *ResultsDB) Close() error {
	return r.db.Close()
}

// SaveDesignValues upserts one computed design value per station for the
// given variable and return period.
func (r *ResultsDB) SaveDesignValues(variable string, returnPeriod int, groups []designvalue.GroupValue) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin results transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO design_values
		(station_id, variable, return_period, design_value, computed_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, g := range groups {
		value := sql.NullFloat64{Float64: g.Value, Valid: !math.IsNaN(g.Value)}
		if _, err := stmt.Exec(fmt.Sprint(g.Key), variable, returnPeriod, value, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert design value for station %v: %w", g.Key, err)
		}
	}

	return tx.Commit()
}

// StoredDesignValue is one row read back from the results database.
type StoredDesignValue struct {
	StationID   string
	DesignValue sql.NullFloat64
}

// DesignValues reads back the stored design values for a variable and
// return period, ordered by station.
func (r *ResultsDB) DesignValues(variable string, returnPeriod int) ([]StoredDesignValue, error) {
	rows, err := r.db.Query(`SELECT station_id, design_value FROM design_values
		WHERE variable = ? AND return_period = ? ORDER BY station_id`,
		variable, returnPeriod)
	if err != nil {
		return nil, fmt.Errorf("query design values: %w", err)
	}
	defer rows.Close()

	var out []StoredDesignValue
	for rows.Next() {
		var v StoredDesignValue
		if err := rows.Scan(&v.StationID, &v.DesignValue); err != nil {
			return nil, fmt.Errorf("scan design value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

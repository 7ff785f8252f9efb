package postgres

import (
	"errors"
	"fmt"

	"github.com/aevon-lab/ledgerbook/internal/event"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE raised when two writers race to the same
// (aggregate_id, version).
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// typeCodes converts event types to the int64 array pq binds for ANY($n).
func typeCodes(types []event.Type) interface{} {
	codes := make([]int64, len(types))
	for i, t := range types {
		codes[i] = int64(t)
	}
	return pq.Array(codes)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans a database row into a Record.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEventRow(row scanner) (event.Record, error) {
	var rec event.Record

	err := row.Scan(
		&rec.ID,
		&rec.AggregateID,
		&rec.Kind,
		&rec.Type,
		&rec.Version,
		&rec.Payload,
		&rec.CreatedAt,
	)
	if err != nil {
		return event.Record{}, fmt.Errorf("failed to scan event row: %w", err)
	}

	return rec, nil
}

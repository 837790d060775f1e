// Package export builds CSV snapshots of a user's transaction history and
// uploads them to object storage. Export is a premium capability; the gate
// is checked by the caller before a job is enqueued.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/okozlov/finflow/internal/domain"
)

var csvHeader = []string{"id", "date", "type", "category", "amount", "description"}

// BuildCSV renders the transactions as CSV, one row per record in the order
// given (the store returns them newest first). Dates are written as
// YYYY-MM-DD: the stored time-of-day is a normalization artifact, not data.
func BuildCSV(txs []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("BuildCSV: header: %w", err)
	}

	for _, t := range txs {
		row := []string{
			t.ID,
			t.Date.Local().Format("2006-01-02"),
			string(t.Type),
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("BuildCSV: row %s: %w", t.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("BuildCSV: flush: %w", err)
	}
	return buf.Bytes(), nil
}

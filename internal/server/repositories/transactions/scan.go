package transactions

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pymax/internal/server/models"
)

func scanAll(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	result := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Kind, &t.Category, &t.Amount, &t.Client, &t.Note); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/Harikrish-25/period-care/internal/models"
)

// KitSales is the number of orders and revenue attributed to one kit.
type KitSales struct {
	KitID   int     `json:"kit_id"`
	KitName string  `json:"kit_name"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// KitSales aggregates orders in the given status per kit, best sellers first.
func (s *Store) KitSales(ctx context.Context, status models.OrderStatus) ([]KitSales, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT o.kit_id, COALESCE(k.name, ''), COUNT(o.id) AS order_count, COALESCE(SUM(o.total_amount), 0)
		FROM orders o
		LEFT JOIN kits k ON o.kit_id = k.id
		WHERE o.status = ?
		GROUP BY o.kit_id
		ORDER BY order_count DESC, o.kit_id ASC
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("kit sales: %w", err)
	}
	defer rows.Close()

	var sales []KitSales
	for rows.Next() {
		var ks KitSales
		if err := rows.Scan(&ks.KitID, &ks.KitName, &ks.Orders, &ks.Revenue); err != nil {
			return nil, err
		}
		sales = append(sales, ks)
	}
	return sales, rows.Err()
}

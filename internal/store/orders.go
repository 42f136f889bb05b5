package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harikrish-25/period-care/internal/models"
)

// OrderFilter narrows ListOrders. Zero fields do not filter; Limit <= 0 means
// no limit.
type OrderFilter struct {
	UserID int
	Status models.OrderStatus
	Since  time.Time
	Offset int
	Limit  int
}

const orderDetailColumns = `
	o.id, o.user_id, o.kit_id, o.selected_fruits, o.selected_nutrients, o.scheduled_date, o.delivery_address,
	o.total_amount, o.status, o.notification_sent, o.created_at, o.updated_at,
	COALESCE(k.name, ''), COALESCE(k.type, ''), COALESCE(k.base_price, 0),
	COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.mobile, '')`

const orderJoins = `
	FROM orders o
	LEFT JOIN kits k ON o.kit_id = k.id
	LEFT JOIN users u ON o.user_id = u.id`

func scanOrderDetails(row rowScanner) (models.OrderDetails, error) {
	var (
		d                 models.OrderDetails
		fruits, nutrients string
		scheduled, status string
		kitType           string
		notified          int
		created, updated  int64
	)
	if err := row.Scan(
		&d.ID, &d.UserID, &d.KitID, &fruits, &nutrients, &scheduled, &d.DeliveryAddress,
		&d.TotalAmount, &status, &notified, &created, &updated,
		&d.KitName, &kitType, &d.KitBasePrice,
		&d.UserName, &d.UserEmail, &d.UserMobile,
	); err != nil {
		return models.OrderDetails{}, err
	}
	if err := decodeIDs(fruits, &d.SelectedFruits); err != nil {
		return models.OrderDetails{}, fmt.Errorf("decode fruits of order %d: %w", d.ID, err)
	}
	if err := decodeIDs(nutrients, &d.SelectedNutrients); err != nil {
		return models.OrderDetails{}, fmt.Errorf("decode nutrients of order %d: %w", d.ID, err)
	}
	d.ScheduledDate = models.Date(scheduled)
	d.Status = models.OrderStatus(status)
	d.KitType = models.KitType(kitType)
	d.NotificationSent = notified == 1
	d.CreatedAt = fromMillis(created)
	d.UpdatedAt = fromMillis(updated)
	return d, nil
}

func decodeIDs(raw string, dst *models.IDList) error {
	if raw == "" {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return err
	}
	if len(ids) > 0 {
		*dst = ids
	}
	return nil
}

func encodeIDs(ids models.IDList) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, _ := json.Marshal([]int(ids))
	return string(b)
}

// CreateOrder records the order and, in the same transaction, stamps the
// owner's last order date with the order's creation day and clears the
// owner's reminder flag.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	stamp(&o.CreatedAt, &o.UpdatedAt)
	if o.Status == "" {
		o.Status = models.OrderPending
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, kit_id, selected_fruits, selected_nutrients, scheduled_date, delivery_address,
		                    total_amount, status, notification_sent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.KitID, encodeIDs(o.SelectedFruits), encodeIDs(o.SelectedNutrients), string(o.ScheduledDate),
		o.DeliveryAddress, o.TotalAmount, string(o.Status), boolInt(o.NotificationSent),
		toMillis(o.CreatedAt), toMillis(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	err = affectedOne(tx.ExecContext(ctx, `
		UPDATE users SET last_order_date = ?, reminder_sent = 0, updated_at = ? WHERE id = ?`,
		string(models.DateOf(o.CreatedAt)), toMillis(o.CreatedAt), o.UserID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("order owner %d: %w", o.UserID, ErrNotFound)
		}
		return fmt.Errorf("touch order owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	o.ID = int(id)
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (*models.OrderDetails, error) {
	d, err := scanOrderDetails(s.DB.QueryRowContext(ctx, `SELECT `+orderDetailColumns+orderJoins+` WHERE o.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &d, nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.OrderDetails, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, `o.user_id = ?`)
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		where = append(where, `o.status = ?`)
		args = append(args, string(f.Status))
	}
	if !f.Since.IsZero() {
		where = append(where, `o.created_at >= ?`)
		args = append(args, toMillis(f.Since))
	}
	query := `SELECT ` + orderDetailColumns + orderJoins
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC LIMIT ? OFFSET ?`
	args = append(args, noLimit(f.Limit), f.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.OrderDetails
	for rows.Next() {
		d, err := scanOrderDetails(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, d)
	}
	return orders, rows.Err()
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) error {
	err := affectedOne(s.DB.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), toMillis(time.Now()), id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update order status: %w", err)
	}
	return err
}

func (s *Store) MarkOrderNotified(ctx context.Context, id int) error {
	err := affectedOne(s.DB.ExecContext(ctx, `UPDATE orders SET notification_sent = 1, updated_at = ? WHERE id = ?`,
		toMillis(time.Now()), id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("mark order notified: %w", err)
	}
	return err
}

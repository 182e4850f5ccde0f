package repositories

import (
	"context"
	"errors"
	"time"

	"booknest/models"

	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists durable orders. Lookups are always scoped by
// (order id, user id) so one user can never read or mutate another's order.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID int) ([]models.Order, error)
	FindByIDAndUser(ctx context.Context, orderID, userID int) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int, status string) error
	UpdateStatusAndPayment(ctx context.Context, orderID int, status, paymentStatus string) error
}

type PgOrderRepository struct{}

func NewPgOrderRepository() *PgOrderRepository {
	return &PgOrderRepository{}
}

// Create writes the order header and its snapshotted line items in a single
// transaction. The order id is filled in on success.
func (r *PgOrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, address, phone, subtotal, grand_total, order_date,
			delivery_date, delivery_partner, status, payment_status, payment_method,
			gateway_order_id, gateway_payment_id, gateway_signature, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at`,
		order.UserID, order.Address, order.Phone, order.Subtotal, order.GrandTotal,
		order.OrderDate, order.DeliveryDate, order.DeliveryPartner, order.Status,
		order.PaymentStatus, order.PaymentMethod, order.GatewayOrderID,
		order.GatewayPaymentID, order.GatewaySignature, time.Now(),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, book_id, title, price, image, quantity)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			order.ID, item.BookID, item.Title, item.Price, item.Image, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return err
		}
		item.OrderID = order.ID
	}

	return tx.Commit(ctx)
}

func (r *PgOrderRepository) FindByUser(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := models.DB.Query(ctx,
		`SELECT id, user_id, address, phone, subtotal, grand_total, order_date,
			delivery_date, delivery_partner, status, payment_status, payment_method,
			COALESCE(gateway_order_id,''), COALESCE(gateway_payment_id,''),
			COALESCE(gateway_signature,''), created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *PgOrderRepository) FindByIDAndUser(ctx context.Context, orderID, userID int) (*models.Order, error) {
	row := models.DB.QueryRow(ctx,
		`SELECT id, user_id, address, phone, subtotal, grand_total, order_date,
			delivery_date, delivery_partner, status, payment_status, payment_method,
			COALESCE(gateway_order_id,''), COALESCE(gateway_payment_id,''),
			COALESCE(gateway_signature,''), created_at
		FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID)

	var o models.Order
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *PgOrderRepository) UpdateStatus(ctx context.Context, orderID int, status string) error {
	result, err := models.DB.Exec(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, orderID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PgOrderRepository) UpdateStatusAndPayment(ctx context.Context, orderID int, status, paymentStatus string) error {
	result, err := models.DB.Exec(ctx,
		"UPDATE orders SET status = $1, payment_status = $2 WHERE id = $3",
		status, paymentStatus, orderID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PgOrderRepository) loadItems(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := models.DB.Query(ctx,
		`SELECT id, order_id, book_id, title, price, COALESCE(image,''), quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title,
			&item.Price, &item.Image, &item.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.Address, &o.Phone, &o.Subtotal,
		&o.GrandTotal, &o.OrderDate, &o.DeliveryDate, &o.DeliveryPartner,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.GatewayOrderID,
		&o.GatewayPaymentID, &o.GatewaySignature, &o.CreatedAt)
}

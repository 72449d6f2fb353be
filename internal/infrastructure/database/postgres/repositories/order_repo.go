package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/database/postgres"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

const uniqueViolation = "23505"

// ErrOrderExists is returned by Save when the order id is already archived.
// Redelivered events hit this and are safe to acknowledge.
var ErrOrderExists = errors.New(errors.ErrCodeConflict, "order already archived")

type postgresOrderRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewPostgresOrderRepo returns an order.Repository over the orders and
// order_lines tables.
func NewPostgresOrderRepo(conn *postgres.Connection, log logging.Logger) order.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &postgresOrderRepo{conn: conn, log: log}
}

func (r *postgresOrderRepo) Save(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, session_id, lang, payment_method, total, currency, item_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, o.SessionID, string(o.Lang), string(o.PaymentMethod), o.Total, o.Currency, o.ItemCount(), o.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return ErrOrderExists
			}
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert order")
		}
		for i, l := range o.Lines {
			if err := insertLine(ctx, tx, o.ID, i+1, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Debug("order archived", logging.String("order_id", o.ID), logging.Int("lines", len(o.Lines)))
	return nil
}

func insertLine(ctx context.Context, exec queryExecutor, orderID string, lineNo int, l order.Line) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO order_lines (order_id, line_no, item_id, category_id, name_en, name_ar, preference, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		orderID, lineNo, l.ItemID, l.CategoryID, l.NameEN, l.NameAR, string(l.Preference), l.Quantity, l.UnitPrice, l.LineTotal,
	)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "failed to insert order line %d", lineNo)
	}
	return nil
}

const orderColumns = `id, session_id, lang, payment_method, total, currency, created_at`

func (r *postgresOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.conn.DB().QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeOrderNotFound, "order not found").WithDetail(id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get order")
	}
	if err := r.loadLines(ctx, []*order.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListBySession returns the newest orders of a session first.
func (r *postgresOrderRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*order.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.conn.DB().QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list orders")
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan order")
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list orders")
	}
	if len(orders) == 0 {
		return []*order.Order{}, nil
	}
	if err := r.loadLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresOrderRepo) loadLines(ctx context.Context, orders []*order.Order) error {
	byID := make(map[string]*order.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.conn.DB().QueryContext(ctx, `
		SELECT order_id, item_id, category_id, name_en, name_ar, preference, quantity, unit_price, line_total
		FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, line_no`, pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load order lines")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			pref    string
			l       order.Line
		)
		if err := rows.Scan(&orderID, &l.ItemID, &l.CategoryID, &l.NameEN, &l.NameAR, &pref, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan order line")
		}
		l.Preference = order.Preference(pref)
		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, l)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load order lines")
	}
	return nil
}

func scanOrder(row scanner) (*order.Order, error) {
	var (
		o    order.Order
		lang string
		pay  string
	)
	if err := row.Scan(&o.ID, &o.SessionID, &lang, &pay, &o.Total, &o.Currency, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Lang = locale.Lang(lang)
	o.PaymentMethod = order.PaymentMethod(pay)
	o.CreatedAt = o.CreatedAt.UTC()
	return &o, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/tablepay/internal/domain/errors"
	"github.com/polkiloo/tablepay/internal/domain/model"
	"github.com/polkiloo/tablepay/internal/domain/repository"
)

// pgxPool abstracts the connection pool so tests can substitute pgxmock.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type paymentLogRepository struct {
	storage *Storage
}

type tableRepository struct {
	storage *Storage
}

type menuRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) PaymentLogs() repository.PaymentLogRepository {
	return &paymentLogRepository{storage: s}
}

func (s *Storage) Tables() repository.TableRepository {
	return &tableRepository{storage: s}
}

func (s *Storage) Menus() repository.MenuRepository {
	return &menuRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tables (
            id SERIAL PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL DEFAULT 'AVAILABLE'
        )`,
		`CREATE TABLE IF NOT EXISTS menus (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            available BOOLEAN NOT NULL DEFAULT TRUE
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            order_code TEXT UNIQUE NOT NULL,
            customer_name TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            total_price DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            payment_type TEXT NOT NULL DEFAULT '',
            transaction_id TEXT NOT NULL DEFAULT '',
            settlement_time TIMESTAMPTZ,
            table_id BIGINT REFERENCES tables(id),
            table_number INT NOT NULL DEFAULT 0,
            order_type TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            menu_id BIGINT NOT NULL,
            name TEXT NOT NULL,
            quantity INT NOT NULL,
            price DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS payment_logs (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            gateway_status TEXT NOT NULL,
            source TEXT NOT NULL DEFAULT '',
            payload BYTEA,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_table ON orders(table_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_logs_order ON payment_logs(order_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_code, customer_name, notes, total_price, status, payment_method,
        payment_type, transaction_id, settlement_time, table_id, table_number, order_type,
        created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.OrderCode, &o.CustomerName, &o.Notes, &o.TotalPrice, &o.Status,
		&o.PaymentMethod, &o.PaymentType, &o.TransactionID, &o.SettlementTime, &o.TableID,
		&o.TableNumber, &o.OrderType, &o.CreatedAt, &o.UpdatedAt)
}

func scanOrderRows(rows pgx.Rows) ([]model.Order, error) {
	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, draft repository.OrderDraft) (*model.Order, error) {
	order := &model.Order{
		OrderCode:     draft.OrderCode,
		CustomerName:  draft.CustomerName,
		Notes:         draft.Notes,
		TotalPrice:    draft.TotalPrice,
		Status:        model.OrderStatusPending,
		PaymentMethod: draft.PaymentMethod,
		OrderType:     draft.OrderType,
		TableID:       draft.TableID,
		TableNumber:   draft.TableNumber,
	}

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (order_code, customer_name, notes, total_price, status, payment_method, table_id, table_number, order_type)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			draft.OrderCode, draft.CustomerName, draft.Notes, draft.TotalPrice,
			model.OrderStatusPending, draft.PaymentMethod, draft.TableID, draft.TableNumber,
			draft.OrderType,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, menu_id, name, quantity, price)
            VALUES ($1, $2, $3, $4, $5) RETURNING id`
		for i := range draft.Items {
			it := draft.Items[i]
			it.OrderID = order.ID
			if err := tx.QueryRow(ctx, insertItem, order.ID, it.MenuID, it.Name, it.Quantity, it.Price).Scan(&it.ID); err != nil {
				return err
			}
			order.Items = append(order.Items, it)
		}

		// A PENDING dine-in order already holds its table.
		if order.HoldsTable() {
			return occupyTableTx(ctx, tx, *order.TableID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_code=$1`
	var o model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, code), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT id, order_id, menu_id, name, quantity, price
        FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, itemsQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuID, &it.Name, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]model.Order, int64, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id > $1 ORDER BY id LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := scanOrderRows(rows)
	if err != nil {
		return nil, 0, err
	}

	watermark := afterID
	for _, o := range orders {
		if o.ID > watermark {
			watermark = o.ID
		}
	}
	return orders, watermark, nil
}

func (r *orderRepository) ListStalePending(ctx context.Context, cutoff time.Time, method *model.PaymentMethod, limit int) ([]model.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if method != nil {
		query := `SELECT ` + orderColumns + ` FROM orders
            WHERE status='PENDING' AND payment_method=$1 AND created_at < $2
            ORDER BY created_at LIMIT $3`
		rows, err = r.storage.pool.Query(ctx, query, *method, cutoff, limit)
	} else {
		query := `SELECT ` + orderColumns + ` FROM orders
            WHERE status='PENDING' AND created_at < $1
            ORDER BY created_at LIMIT $2`
		rows, err = r.storage.pool.Query(ctx, query, cutoff, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// --- PaymentLogRepository implementation ---

func (r *paymentLogRepository) Append(ctx context.Context, orderID int64, gatewayStatus, source string, payload []byte) error {
	const query = `INSERT INTO payment_logs (order_id, gateway_status, source, payload) VALUES ($1, $2, $3, $4)`
	_, err := r.storage.pool.Exec(ctx, query, orderID, gatewayStatus, source, payload)
	return err
}

func (r *paymentLogRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.PaymentLog, error) {
	const query = `SELECT id, order_id, gateway_status, source, payload, created_at
        FROM payment_logs WHERE order_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentLog
	for rows.Next() {
		var l model.PaymentLog
		if err := rows.Scan(&l.ID, &l.OrderID, &l.GatewayStatus, &l.Source, &l.Payload, &l.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- TableRepository implementation ---

const activeHoldersQuery = `SELECT COUNT(*) FROM orders
        WHERE table_id=$1 AND order_type='DINE_IN' AND status IN ('PENDING', 'SUCCESS')`

func (r *tableRepository) Create(ctx context.Context, name string) (*model.Table, error) {
	const query = `INSERT INTO tables (name) VALUES ($1) RETURNING id, status`
	t := &model.Table{Name: name}
	if err := r.storage.pool.QueryRow(ctx, query, name).Scan(&t.ID, &t.Status); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return t, nil
}

func (r *tableRepository) GetByID(ctx context.Context, id int64) (*model.Table, error) {
	const query = `SELECT id, name, status FROM tables WHERE id=$1`
	var t model.Table
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *tableRepository) List(ctx context.Context) ([]model.Table, error) {
	const query = `SELECT id, name, status FROM tables ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Table
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Status); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *tableRepository) Delete(ctx context.Context, id int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var holders int
		if err := tx.QueryRow(ctx, activeHoldersQuery, id).Scan(&holders); err != nil {
			return err
		}
		if holders > 0 {
			return domainErrors.ErrConflict
		}
		tag, err := tx.Exec(ctx, `DELETE FROM tables WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

func (r *tableRepository) Occupy(ctx context.Context, id int64) error {
	_, err := r.storage.pool.Exec(ctx, `UPDATE tables SET status='OCCUPIED' WHERE id=$1`, id)
	return err
}

func (r *tableRepository) Release(ctx context.Context, id int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return releaseTableTx(ctx, tx, id)
	})
}

func (r *tableRepository) Override(ctx context.Context, id int64, status model.TableStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var holders int
		if err := tx.QueryRow(ctx, activeHoldersQuery, id).Scan(&holders); err != nil {
			return err
		}
		if holders > 0 {
			return domainErrors.ErrConflict
		}
		tag, err := tx.Exec(ctx, `UPDATE tables SET status=$1 WHERE id=$2`, status, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

// occupyTableTx marks the table occupied; the caller has already
// established the precondition.
func occupyTableTx(ctx context.Context, tx pgx.Tx, tableID int64) error {
	_, err := tx.Exec(ctx, `UPDATE tables SET status='OCCUPIED' WHERE id=$1`, tableID)
	return err
}

// releaseTableTx re-checks active-order membership at the moment of release
// so a stale trigger cannot free a table a newer order legitimately holds.
func releaseTableTx(ctx context.Context, tx pgx.Tx, tableID int64) error {
	var holders int
	if err := tx.QueryRow(ctx, activeHoldersQuery, tableID).Scan(&holders); err != nil {
		return err
	}
	if holders > 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `UPDATE tables SET status='AVAILABLE' WHERE id=$1 AND status='OCCUPIED'`, tableID)
	return err
}

// --- MenuRepository implementation ---

func (r *menuRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Menu, error) {
	const query = `SELECT id, name, price, available FROM menus WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.Menu, len(ids))
	for rows.Next() {
		var m model.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Available); err != nil {
			return nil, err
		}
		result[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *menuRepository) List(ctx context.Context) ([]model.Menu, error) {
	const query = `SELECT id, name, price, available FROM menus ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Menu
	for rows.Next() {
		var m model.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Available); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

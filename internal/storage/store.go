// Package storage is the firm's journal: executed orders and internal
// communications persisted to SQLite for end-of-day review.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dyike/BrokerGo/internal/models"
	"github.com/dyike/BrokerGo/pkg/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			client TEXT,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			order_type TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price TEXT,
			status TEXT NOT NULL,
			reason TEXT,
			executed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS communications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			content TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("create journal table: %w", err)
		}
	}
	return nil
}

// SaveOrder upserts one order into the journal.
func (s *Store) SaveOrder(order *models.Order) error {
	var price string
	if order.Price != nil {
		price = order.Price.String()
	}
	var executedAt *time.Time
	if order.Execution != nil {
		executedAt = &order.Execution.ExecutedAt
	}

	_, err := s.db.Exec(`
		INSERT INTO orders (id, client, symbol, side, order_type, quantity, price, status, reason, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET status = excluded.status, reason = excluded.reason, executed_at = excluded.executed_at
	`, order.ID, order.Client, order.Symbol, string(order.Side), string(order.Type),
		order.Quantity, price, string(order.Status), order.Reason, executedAt)
	if err != nil {
		return fmt.Errorf("save order %s: %w", order.ID, err)
	}
	return nil
}

// SaveCommunication appends one internal message to the journal.
func (s *Store) SaveCommunication(source, target, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO communications (source, target, content) VALUES (?, ?, ?)
	`, source, target, content)
	if err != nil {
		return fmt.Errorf("save communication %s->%s: %w", source, target, err)
	}
	return nil
}

// OrderCount returns the number of journaled orders.
func (s *Store) OrderCount() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// JournaledOrder is one row of the order journal.
type JournaledOrder struct {
	ID       string
	Client   string
	Symbol   string
	Side     string
	Quantity int64
	Status   string
}

// RecentOrders lists the newest journaled orders, newest first.
func (s *Store) RecentOrders(limit int) ([]JournaledOrder, error) {
	rows, err := s.db.Query(`
		SELECT id, client, symbol, side, quantity, status
		FROM orders ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []JournaledOrder
	for rows.Next() {
		var o JournaledOrder
		if err := rows.Scan(&o.ID, &o.Client, &o.Symbol, &o.Side, &o.Quantity, &o.Status); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

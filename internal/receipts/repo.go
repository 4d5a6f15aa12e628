package receipts

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Stored is a receipt plus who rang it up.
type Stored struct {
	domain.Receipt
	EventID   string `json:"event_id"`
	CashierID int64  `json:"cashier_id"`
	Cashier   string `json:"cashier"`
}

type Repo struct{ DB *pgxpool.Pool }

// Save inserts the receipt and its lines in one transaction. It is
// idempotent on the receipt code: existed=true when the code was stored
// before and nothing was written.
func (r *Repo) Save(ctx context.Context, s Stored) (existed bool, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var code string
	err = tx.QueryRow(ctx, `
		INSERT INTO receipts(code, event_id, outlet, method, total, change, cashier_id, cashier, ordered_at, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (code) DO NOTHING
		RETURNING code`,
		s.Code, s.EventID, s.Outlet, s.Method, s.Total, s.Change, s.CashierID, s.Cashier, s.OrderedAt, s.PaidAt,
	).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	batch := &pgx.Batch{}
	for i, l := range s.Lines {
		batch.Queue(`INSERT INTO receipt_lines(receipt_code, line_no, name, qty, unit_price)
		             VALUES ($1,$2,$3,$4,$5)`, s.Code, i+1, l.Name, l.Qty, l.UnitPrice)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return false, err
	}
	return false, tx.Commit(ctx)
}

// ListRecent returns the newest receipts by payment time.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Stored, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT code, event_id, outlet, method, total, change, cashier_id, cashier, ordered_at, paid_at
		FROM receipts ORDER BY paid_at DESC, code LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stored
	index := map[string]int{}
	codes := []string{}
	for rows.Next() {
		var s Stored
		if err := rows.Scan(&s.Code, &s.EventID, &s.Outlet, &s.Method, &s.Total, &s.Change,
			&s.CashierID, &s.Cashier, &s.OrderedAt, &s.PaidAt); err != nil {
			return nil, err
		}
		index[s.Code] = len(out)
		codes = append(codes, s.Code)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	lines, err := r.DB.Query(ctx, `
		SELECT receipt_code, name, qty, unit_price
		FROM receipt_lines WHERE receipt_code = ANY($1) ORDER BY receipt_code, line_no`, codes)
	if err != nil {
		return nil, err
	}
	defer lines.Close()
	for lines.Next() {
		var code string
		var l domain.ReceiptLine
		if err := lines.Scan(&code, &l.Name, &l.Qty, &l.UnitPrice); err != nil {
			return nil, err
		}
		i := index[code]
		out[i].Lines = append(out[i].Lines, l)
	}
	return out, lines.Err()
}

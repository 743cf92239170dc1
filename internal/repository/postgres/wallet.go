package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/repository"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Credit(ctx context.Context, userID int32, amount int64) error {
	query := `INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
	          ON CONFLICT (user_id) DO UPDATE SET balance = wallets.balance + EXCLUDED.balance`
	logger.DatabaseCall("wallets.credit", query, "user_id", userID, "amount", amount)
	_, err := conn(ctx, r.db).ExecContext(ctx, query, userID, amount)
	return classify("credit wallet", err)
}

func (r *walletRepository) RecordSettlement(ctx context.Context, s *domain.Settlement) error {
	query := `INSERT INTO settlements (booking_id, user_id, amount, kind, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	err := conn(ctx, r.db).QueryRowContext(ctx, query, s.BookingID, s.UserID, s.Amount, s.Kind, s.CreatedAt).Scan(&s.ID)
	if isCode(err, codeUniqueViolation) {
		return fmt.Errorf("%w: booking %d already settled %s", domain.ErrInvalidTransition, s.BookingID, s.Kind)
	}
	return classify("record settlement", err)
}

func (r *walletRepository) GetBalance(ctx context.Context, userID int32) (int64, error) {
	var balance int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, classify("get balance", err)
	}
	return balance, nil
}

func (r *walletRepository) ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error) {
	var count int32
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM settlements WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, classify("count settlements", err)
	}

	query := `SELECT id, booking_id, user_id, amount, kind, created_at
	          FROM settlements WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID, pageSize, pageOffset(page, pageSize))
	if err != nil {
		return nil, 0, classify("list settlements", err)
	}
	defer rows.Close()

	var out []domain.Settlement
	for rows.Next() {
		var s domain.Settlement
		var kind string
		if err := rows.Scan(&s.ID, &s.BookingID, &s.UserID, &s.Amount, &kind, &s.CreatedAt); err != nil {
			return nil, 0, classify("scan settlement", err)
		}
		s.Kind = domain.SettlementKind(kind)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify("iterate settlements", err)
	}
	return out, count, nil
}

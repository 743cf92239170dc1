package service

import (
	"context"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/repository"
)

type walletService struct {
	wallets repository.WalletRepository
}

func NewWalletService(wallets repository.WalletRepository) WalletService {
	return &walletService{wallets: wallets}
}

func (s *walletService) GetBalance(ctx context.Context, userID int32) (int64, error) {
	return s.wallets.GetBalance(ctx, userID)
}

func (s *walletService) ListSettlements(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Settlement, int32, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.wallets.ListSettlements(ctx, userID, page, pageSize)
}

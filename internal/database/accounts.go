package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"goal-progress-engine/internal/models"
	"goal-progress-engine/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) CreateAccount(ctx context.Context, params store.CreateAccountParams) (*models.Account, error) {
	accountId := uuid.New().String()

	zap.L().Info("Creating account",
		zap.String("account_id", accountId),
		zap.String("user_id", params.UserId),
		zap.String("name", params.Name),
		zap.String("initial_balance", params.InitialBalance.String()))

	_, err := s.db.ExecContext(ctx, queryInsertAccount,
		accountId, params.UserId, params.Name, params.InitialBalance.String())
	if err != nil {
		zap.L().Error("Failed to insert account", zap.String("user_id", params.UserId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	return s.GetAccount(ctx, accountId, params.UserId)
}

func (s *Service) GetAccount(ctx context.Context, accountId, userId string) (*models.Account, error) {
	var account models.Account
	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetAccount, accountId, userId).Scan(
		&account.Id, &account.UserId, &account.Name, &balanceStr, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
		}
		zap.L().Error("Failed to query account", zap.String("account_id", accountId), zap.Error(err))
		return nil, fmt.Errorf("unable to query account: %w", err)
	}

	account.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance %q: %w", balanceStr, err)
	}

	return &account, nil
}

// GetAccountBalance returns the current balance for an account scoped to its
// owner. This is the balance provider surface the Progress Recorder mirrors.
func (s *Service) GetAccountBalance(ctx context.Context, accountId, userId string) (decimal.Decimal, error) {
	var balanceStr string
	err := s.db.QueryRowContext(ctx, queryGetAccountBalance, accountId, userId).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	if err != nil {
		zap.L().Error("Failed to get account balance", zap.String("account_id", accountId), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get account balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		zap.L().Error("Failed to parse balance", zap.String("balance_str", balanceStr), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
	}

	return balance, nil
}

// CreditAccount applies a signed amount to an account balance and returns the
// new balance. Withdrawals are negative credits; the balance may go negative.
func (s *Service) CreditAccount(ctx context.Context, accountId, userId string, amount decimal.Decimal) (decimal.Decimal, error) {
	current, err := s.GetAccountBalance(ctx, accountId, userId)
	if err != nil {
		return decimal.Zero, err
	}

	newBalance := current.Add(amount)
	result, err := s.db.ExecContext(ctx, queryUpdateAccountBalance, newBalance.String(), accountId, userId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update account balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}

	zap.L().Info("Account credited",
		zap.String("account_id", accountId),
		zap.String("amount", amount.String()),
		zap.String("new_balance", newBalance.String()))

	return newBalance, nil
}

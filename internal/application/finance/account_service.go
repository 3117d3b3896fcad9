package finance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/finance"
	"github.com/rentfold/backend/internal/domain/shared"
)

// AccountService manages the chart of accounts
type AccountService struct {
	accountRepo finance.LedgerAccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo finance.LedgerAccountRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateAccountInput contains input for creating a ledger account
type CreateAccountInput struct {
	BusinessID  uuid.UUID
	Code        string
	Name        string
	Type        finance.AccountType
	Description string
}

// Create adds an account to the business's chart. Codes are unique per
// business.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*finance.LedgerAccount, error) {
	existing, err := s.accountRepo.FindByCode(ctx, input.BusinessID, input.Code)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check account code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check account code")
	}
	if existing != nil {
		return nil, shared.NewDomainError("CODE_TAKEN", "Account code is already in use")
	}

	account, err := finance.NewLedgerAccount(input.BusinessID, input.Code, input.Name, input.Type)
	if err != nil {
		return nil, err
	}
	account.Description = input.Description

	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("Failed to save account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("Ledger account created",
		zap.String("business_id", input.BusinessID.String()),
		zap.String("account_id", account.ID.String()),
		zap.String("code", account.Code))

	return account, nil
}

// Get retrieves an account scoped to a business
func (s *AccountService) Get(ctx context.Context, businessID, accountID uuid.UUID) (*finance.LedgerAccount, error) {
	account, err := s.accountRepo.FindByIDForBusiness(ctx, businessID, accountID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
		}
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load account")
	}
	return account, nil
}

// List lists the business's chart of accounts
func (s *AccountService) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]finance.LedgerAccount, error) {
	accounts, err := s.accountRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list accounts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list accounts")
	}
	return accounts, nil
}

// Rename updates an account's name and description
func (s *AccountService) Rename(ctx context.Context, businessID, accountID uuid.UUID, name, description string) (*finance.LedgerAccount, error) {
	account, err := s.Get(ctx, businessID, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.Rename(name, description); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("Failed to save account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update account")
	}

	return account, nil
}

// Deactivate retires an account from the chart
func (s *AccountService) Deactivate(ctx context.Context, businessID, accountID uuid.UUID) error {
	account, err := s.Get(ctx, businessID, accountID)
	if err != nil {
		return err
	}

	if err := account.Deactivate(); err != nil {
		return err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("Failed to save account", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate account")
	}

	return nil
}

package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rentfold/backend/internal/domain/finance"
)

var statementHeader = []string{
	"entry_date", "account_code", "account_name", "account_type",
	"source", "memo", "amount_cents", "amount",
}

// usdPrinter renders grouped dollar amounts for the human-readable column
var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// StatementService exports ledger activity as CSV statements
type StatementService struct {
	entryRepo   finance.LedgerEntryRepository
	accountRepo finance.LedgerAccountRepository
	logger      *zap.Logger
}

// NewStatementService creates a new StatementService
func NewStatementService(
	entryRepo finance.LedgerEntryRepository,
	accountRepo finance.LedgerAccountRepository,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// ExportLedgerCSV renders the matching ledger entries as a CSV statement.
// Rows carry both raw cents and a grouped dollar column so the file works
// for re-import and for reading.
func (s *StatementService) ExportLedgerCSV(ctx context.Context, businessID uuid.UUID, filter finance.LedgerEntryFilter) ([]byte, error) {
	entries, err := s.entryRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		if !seen[entry.AccountID] {
			seen[entry.AccountID] = true
			accountIDs = append(accountIDs, entry.AccountID)
		}
	}

	accounts := make(map[uuid.UUID]*finance.LedgerAccount, len(accountIDs))
	if len(accountIDs) > 0 {
		found, err := s.accountRepo.FindByIDs(ctx, businessID, accountIDs)
		if err != nil {
			return nil, err
		}
		for _, account := range found {
			accounts[account.ID] = account
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(statementHeader); err != nil {
		return nil, fmt.Errorf("write statement header: %w", err)
	}
	for _, entry := range entries {
		var code, name, accountType string
		if account, ok := accounts[entry.AccountID]; ok {
			code = account.Code
			name = account.Name
			accountType = string(account.Type)
		}
		row := []string{
			entry.EntryDate.Format("2006-01-02"),
			code,
			name,
			accountType,
			string(entry.Source),
			entry.Memo,
			fmt.Sprintf("%d", entry.AmountCents),
			FormatUSD(entry.AmountCents),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write statement row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush statement: %w", err)
	}

	s.logger.Debug("Exported ledger statement",
		zap.String("business_id", businessID.String()),
		zap.Int("rows", len(entries)))
	return buf.Bytes(), nil
}

// FormatUSD renders cents as a grouped dollar string, e.g. $1,250.00
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return usdPrinter.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

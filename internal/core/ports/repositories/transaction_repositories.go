package repositories

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
)

// TransactionWriter defines write operations for single transactions.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	// DeleteTransfer removes every leg sharing transferID in one write.
	DeleteTransfer(ctx context.Context, userID, transferID string) error
}

// TransferPerformer stores both legs of a transfer atomically: either both
// transactions exist afterwards or neither does.
type TransferPerformer interface {
	PerformTransfer(ctx context.Context, out, in domain.Transaction) error
}

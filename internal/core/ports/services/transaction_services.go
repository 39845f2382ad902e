package services

import (
	"context"

	"github.com/SscSPs/moneyflow/internal/core/domain"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// ListTransactions returns one page of transactions, newest first, joined with display labels.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams, userID string) (*dto.ListTransactionsResponse, error)

	// GetTransaction retrieves one transaction with its display labels.
	GetTransaction(ctx context.Context, transactionID string, userID string) (*domain.TransactionView, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// TransferSvc moves money between two accounts of the same user.
type TransferSvc interface {
	// Transfer books a transfer_out and a transfer_in leg that either both exist or neither does.
	Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*dto.TransferResponse, error)
}

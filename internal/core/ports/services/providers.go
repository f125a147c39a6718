package services

import (
	"context"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
)

// BankFeedProvider abstracts the external transaction aggregator. Implementations
// live outside the core services.
type BankFeedProvider interface {
	// FetchTransactions pulls transactions for a feed item starting at its sync
	// cursor. It returns staged rows ready for upsert and the next cursor.
	FetchTransactions(ctx context.Context, item domain.BankFeedItem) (staged []domain.StagedBankTransaction, nextCursor string, err error)
}

// EmailSender abstracts outbound email delivery.
type EmailSender interface {
	// SendEmail sends an email with an optional PDF attachment.
	SendEmail(ctx context.Context, to string, subject string, body string, attachmentName string, attachment []byte) error
}

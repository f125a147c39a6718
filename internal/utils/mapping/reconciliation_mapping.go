package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/ledgerpro/ledgerpro_backend/internal/core/domain"
	"github.com/ledgerpro/ledgerpro_backend/internal/models"
)

// ToModelBankFeedItem converts a domain BankFeedItem to its model
func ToModelBankFeedItem(d domain.BankFeedItem) models.BankFeedItem {
	return models.BankFeedItem{
		BankFeedItemID:  d.BankFeedItemID,
		OrganizationID:  d.OrganizationID,
		AccessToken:     d.AccessToken,
		ItemID:          d.ItemID,
		InstitutionID:   d.InstitutionID,
		InstitutionName: d.InstitutionName,
		LastSyncedAt:    d.LastSyncedAt,
		SyncCursor:      d.SyncCursor,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankFeedItem converts a model BankFeedItem to its domain form
func ToDomainBankFeedItem(m models.BankFeedItem) domain.BankFeedItem {
	return domain.BankFeedItem{
		BankFeedItemID:  m.BankFeedItemID,
		OrganizationID:  m.OrganizationID,
		AccessToken:     m.AccessToken,
		ItemID:          m.ItemID,
		InstitutionID:   m.InstitutionID,
		InstitutionName: m.InstitutionName,
		LastSyncedAt:    m.LastSyncedAt,
		SyncCursor:      m.SyncCursor,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankFeedItemSlice converts model BankFeedItems to domain BankFeedItems
func ToDomainBankFeedItemSlice(ms []models.BankFeedItem) []domain.BankFeedItem {
	ds := make([]domain.BankFeedItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankFeedItem(m)
	}
	return ds
}

// ToModelStagedBankTransaction converts a domain StagedBankTransaction to its model
func ToModelStagedBankTransaction(d domain.StagedBankTransaction) models.StagedBankTransaction {
	return models.StagedBankTransaction{
		StagedTransactionID:  d.StagedTransactionID,
		OrganizationID:       d.OrganizationID,
		BankFeedItemID:       d.BankFeedItemID,
		SourceTxnID:          d.SourceTxnID,
		SourceAccountID:      d.SourceAccountID,
		SourceAccountName:    d.SourceAccountName,
		Date:                 d.Date,
		PostedDate:           d.PostedDate,
		Name:                 d.Name,
		MerchantName:         d.MerchantName,
		Amount:               d.Amount,
		CurrencyCode:         d.CurrencyCode,
		SourceCategory:       d.SourceCategory,
		ReconciliationStatus: string(d.ReconciliationStatus),
		LinkedTransactionID:  d.LinkedTransactionID,
		AppliedRuleID:        d.AppliedRuleID,
		Source:               string(d.Source),
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStagedBankTransaction converts a model StagedBankTransaction to its domain form
func ToDomainStagedBankTransaction(m models.StagedBankTransaction) domain.StagedBankTransaction {
	return domain.StagedBankTransaction{
		StagedTransactionID:  m.StagedTransactionID,
		OrganizationID:       m.OrganizationID,
		BankFeedItemID:       m.BankFeedItemID,
		SourceTxnID:          m.SourceTxnID,
		SourceAccountID:      m.SourceAccountID,
		SourceAccountName:    m.SourceAccountName,
		Date:                 m.Date,
		PostedDate:           m.PostedDate,
		Name:                 m.Name,
		MerchantName:         m.MerchantName,
		Amount:               m.Amount,
		CurrencyCode:         m.CurrencyCode,
		SourceCategory:       m.SourceCategory,
		ReconciliationStatus: domain.ReconciliationStatus(m.ReconciliationStatus),
		LinkedTransactionID:  m.LinkedTransactionID,
		AppliedRuleID:        m.AppliedRuleID,
		Source:               domain.StagedSource(m.Source),
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStagedBankTransactionSlice converts model staged transactions to domain form
func ToDomainStagedBankTransactionSlice(ms []models.StagedBankTransaction) []domain.StagedBankTransaction {
	ds := make([]domain.StagedBankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStagedBankTransaction(m)
	}
	return ds
}

// ToModelReconciliationRule converts a domain rule to its model, serializing
// conditions and actions to JSON for JSONB storage.
func ToModelReconciliationRule(d domain.ReconciliationRule) (models.ReconciliationRule, error) {
	conditions, err := json.Marshal(d.Conditions)
	if err != nil {
		return models.ReconciliationRule{}, fmt.Errorf("failed to marshal rule conditions: %w", err)
	}
	actions, err := json.Marshal(d.Actions)
	if err != nil {
		return models.ReconciliationRule{}, fmt.Errorf("failed to marshal rule actions: %w", err)
	}
	return models.ReconciliationRule{
		RuleID:         d.RuleID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Priority:       d.Priority,
		IsActive:       d.IsActive,
		Conditions:     conditions,
		Actions:        actions,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainReconciliationRule converts a model rule to its domain form,
// deserializing conditions and actions from JSONB.
func ToDomainReconciliationRule(m models.ReconciliationRule) (domain.ReconciliationRule, error) {
	var conditions []domain.RuleCondition
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &conditions); err != nil {
			return domain.ReconciliationRule{}, fmt.Errorf("failed to unmarshal rule conditions: %w", err)
		}
	}
	var actions []domain.RuleAction
	if len(m.Actions) > 0 {
		if err := json.Unmarshal(m.Actions, &actions); err != nil {
			return domain.ReconciliationRule{}, fmt.Errorf("failed to unmarshal rule actions: %w", err)
		}
	}
	return domain.ReconciliationRule{
		RuleID:         m.RuleID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Priority:       m.Priority,
		IsActive:       m.IsActive,
		Conditions:     conditions,
		Actions:        actions,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}

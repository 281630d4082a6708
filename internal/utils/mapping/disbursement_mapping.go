package mapping

import (
	"github.com/SscSPs/disbursement_app/internal/core/domain"
	"github.com/SscSPs/disbursement_app/internal/models"
)

// ToModelDisbursement converts a domain Disbursement header to a model Disbursement
func ToModelDisbursement(d domain.Disbursement) models.Disbursement {
	return models.Disbursement{
		DisbursementID: d.DisbursementID,
		ControlNumber:  d.ControlNumber,
		Title:          d.Title,
		Description:    d.Description,
		Step:           d.Step,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDisbursement converts a model Disbursement to a domain Disbursement
func ToDomainDisbursement(m models.Disbursement) domain.Disbursement {
	return domain.Disbursement{
		DisbursementID: m.DisbursementID,
		ControlNumber:  m.ControlNumber,
		Title:          m.Title,
		Description:    m.Description,
		Step:           m.Step,
		Status:         domain.Status(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		TotalAmount:    m.TotalAmount,
	}
}

// ToModelDisbursementItem converts a domain LineItem to a model DisbursementItem
func ToModelDisbursementItem(d domain.LineItem) models.DisbursementItem {
	return models.DisbursementItem{
		ItemID:         d.LineItemID,
		DisbursementID: d.DisbursementID,
		AccountID:      d.AccountID,
		Type:           string(d.Type),
		Amount:         d.Amount,
		OrderNumber:    d.OrderNumber,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainLineItem converts a model DisbursementItem to a domain LineItem
func ToDomainLineItem(m models.DisbursementItem) domain.LineItem {
	item := domain.LineItem{
		LineItemID:     m.ItemID,
		DisbursementID: m.DisbursementID,
		AccountID:      m.AccountID,
		Type:           domain.EntryType(m.Type),
		Amount:         m.Amount,
		OrderNumber:    m.OrderNumber,
		AuditFields:    domain.AuditFields{CreatedAt: m.CreatedAt},
	}
	if m.Account != nil {
		acc := ToDomainAccount(*m.Account)
		item.Account = &acc
	}
	return item
}

// ToModelTracking converts a domain TrackingEntry to a model DisbursementTracking
func ToModelTracking(d domain.TrackingEntry) models.DisbursementTracking {
	return models.DisbursementTracking{
		TrackingID:     d.TrackingID,
		DisbursementID: d.DisbursementID,
		HandledBy:      d.HandledBy,
		Step:           d.Step,
		Role:           d.Role,
		Action:         string(d.Action),
		Remarks:        d.Remarks,
		ActedAt:        d.ActedAt,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainTracking converts a model DisbursementTracking to a domain TrackingEntry
func ToDomainTracking(m models.DisbursementTracking) domain.TrackingEntry {
	return domain.TrackingEntry{
		TrackingID:     m.TrackingID,
		DisbursementID: m.DisbursementID,
		HandledBy:      m.HandledBy,
		Step:           m.Step,
		Role:           m.Role,
		Action:         domain.TrackingAction(m.Action),
		Remarks:        m.Remarks,
		ActedAt:        m.ActedAt,
		CreatedAt:      m.CreatedAt,
	}
}

// ToModelAttachment converts a domain Attachment to a model DisbursementAttachment
func ToModelAttachment(d domain.Attachment) models.DisbursementAttachment {
	return models.DisbursementAttachment{
		AttachmentID:   d.AttachmentID,
		DisbursementID: d.DisbursementID,
		FilePath:       d.FilePath,
		FileName:       d.FileName,
		FileType:       d.FileType,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainAttachment converts a model DisbursementAttachment to a domain Attachment
func ToDomainAttachment(m models.DisbursementAttachment) domain.Attachment {
	return domain.Attachment{
		AttachmentID:   m.AttachmentID,
		DisbursementID: m.DisbursementID,
		FilePath:       m.FilePath,
		FileName:       m.FileName,
		FileType:       m.FileType,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainTemporaryUpload converts a model TemporaryUpload to a domain TemporaryUpload
func ToDomainTemporaryUpload(m models.TemporaryUpload) domain.TemporaryUpload {
	return domain.TemporaryUpload{Folder: m.Folder, Filename: m.Filename, CreatedAt: m.CreatedAt}
}

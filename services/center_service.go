package services

import (
	"context"
	"fmt"
	"time"

	"center-hub/auth"
	"center-hub/contract"
	"center-hub/domain/event"
	"center-hub/errors"
	"center-hub/repositories"
	"center-hub/store"

	"github.com/google/uuid"
)

type ICenterService interface {
	RegisterCenter(centerID, name, adminID string) error
	SubmitInquiry(ctx context.Context, req auth.ContactRequest) (store.Record, error)
	ListInquiries(centerID string, cursor *string) ([]repositories.Inquiry, *string, error)
}

// CenterService owns the center directory side: the directory entries, the
// visitor inquiries they receive, and the realtime announcements of both.
type CenterService struct {
	centers   repositories.ICenterRepository
	inquiries repositories.IContactRepository
	publisher contract.EventPublisher
}

func NewCenterService(centers repositories.ICenterRepository,
	inquiries repositories.IContactRepository, publisher contract.EventPublisher) *CenterService {
	return &CenterService{centers: centers, inquiries: inquiries, publisher: publisher}
}

func (s *CenterService) RegisterCenter(centerID, name, adminID string) error {
	return s.centers.SaveCenter(repositories.Center{
		ID:        centerID,
		Name:      name,
		AdminID:   adminID,
		CreatedAt: time.Now().UTC(),
	})
}

// SubmitInquiry persists a visitor inquiry, then announces it to the center's
// administrator. The order matters: the event layer only ever announces rows
// that already exist, and the admin is resolved from the center record, never
// from the request.
func (s *CenterService) SubmitInquiry(ctx context.Context, req auth.ContactRequest) (store.Record, error) {
	if err := auth.ValidateContact(req); err != nil {
		return store.Record{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	center, err := s.centers.GetCenter(req.CenterID)
	if err != nil {
		return store.Record{}, err
	}

	inquiry := repositories.Inquiry{
		ID:          uuid.New(),
		CenterID:    center.ID,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		Subject:     req.Subject,
		At:          time.Now().UTC(),
	}
	if err = s.inquiries.StoreInquiry(inquiry); err != nil {
		return store.Record{}, err
	}

	rec := s.publisher.Publish(ctx, event.ContactMessageCreated{
		ID:          inquiry.ID,
		CenterID:    inquiry.CenterID,
		AdminID:     center.AdminID,
		SenderName:  inquiry.SenderName,
		SenderEmail: inquiry.SenderEmail,
		Subject:     inquiry.Subject,
		At:          inquiry.At,
	})
	return rec, nil
}

func (s *CenterService) ListInquiries(centerID string, cursor *string) ([]repositories.Inquiry, *string, error) {
	return s.inquiries.GetInquiries(centerID, cursor)
}

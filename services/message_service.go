package services

import (
	"context"
	"time"

	"center-hub/contract"
	"center-hub/domain"
	"center-hub/domain/event"
	"center-hub/repositories"
	"center-hub/store"

	"github.com/google/uuid"
)

type PostMessageCommand struct {
	ThreadID string
	Author   domain.Identity
	Content  string
}

type IMessageService interface {
	PostMessage(ctx context.Context, cmd PostMessageCommand) (store.Record, error)
	GetMessages(threadID string, cursor *string) ([]repositories.StoredMessage, *string, error)
}

// MessageService persists a message first, then hands it to the realtime
// layer. The order matters: the event layer never owns domain data, it only
// announces records that already exist.
type MessageService struct {
	repository repositories.IMessageRepository
	publisher  contract.EventPublisher
}

func NewMessageService(repository repositories.IMessageRepository, publisher contract.EventPublisher) *MessageService {
	return &MessageService{repository: repository, publisher: publisher}
}

func (s *MessageService) PostMessage(ctx context.Context, cmd PostMessageCommand) (store.Record, error) {
	msg := repositories.StoredMessage{
		ID:       uuid.New(),
		ThreadID: cmd.ThreadID,
		Author:   cmd.Author.UserID,
		Content:  cmd.Content,
		At:       time.Now().UTC(),
	}
	if err := s.repository.StoreMessage(msg); err != nil {
		return store.Record{}, err
	}

	rec := s.publisher.Publish(ctx, event.MessageCreated{
		ID:         msg.ID,
		ThreadID:   msg.ThreadID,
		AuthorID:   msg.Author,
		AuthorName: cmd.Author.DisplayName,
		Content:    msg.Content,
		At:         msg.At,
	})
	return rec, nil
}

func (s *MessageService) GetMessages(threadID string, cursor *string) ([]repositories.StoredMessage, *string, error) {
	return s.repository.GetMessages(threadID, cursor)
}

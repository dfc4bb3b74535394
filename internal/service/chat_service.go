package service

import (
	"context"
	"errors"
	"fmt"

	"leadership-chatbot-server/internal/apperrors"
	"leadership-chatbot-server/internal/domain"
	"leadership-chatbot-server/internal/provider"
	"leadership-chatbot-server/internal/repository"
	"leadership-chatbot-server/pkg/sanitize"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	provider provider.AnswerProvider
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, answerProvider provider.AnswerProvider) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		provider: answerProvider,
	}
}

// AskQuestion forwards the question to the answer provider and appends the
// exchange to the caller's ledger. The ledger write happens strictly after
// the provider call settles; a provider failure degrades to the fallback
// answer and the entry is still recorded.
func (s *ChatService) AskQuestion(ctx context.Context, userID int64, question string) (*domain.ChatEntry, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	question = sanitize.Strip(question)

	answer := s.provider.Ask(ctx, question)

	entry := &domain.ChatEntry{
		UserID:   userID,
		Question: question,
		Response: answer,
	}

	if err := s.chatRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record chat entry: %w", err)
	}

	return entry, nil
}

// History lists the caller's entries newest-first. Out-of-range paging
// parameters are clamped, never rejected: limit outside [1,100] resets to
// the default, negative offset resets to 0.
func (s *ChatService) History(ctx context.Context, userID int64, limit, offset int) (*domain.ChatHistoryResponse, error) {
	if limit < 1 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.chatRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}

	total, err := s.chatRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count chat history: %w", err)
	}

	items := make([]domain.ChatHistoryItem, 0, len(entries))
	for i := range entries {
		items = append(items, entries[i].HistoryItem())
	}

	return &domain.ChatHistoryResponse{
		ChatHistory: items,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

// GetItem fetches one entry for its owner. Existence is checked before
// ownership: a missing entry is NotFound for everyone, an existing entry is
// Forbidden for anyone but its owner.
func (s *ChatService) GetItem(ctx context.Context, entryID, requesterID int64) (*domain.ChatEntry, error) {
	entry, err := s.chatRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to find chat entry: %w", err)
	}

	if entry.UserID != requesterID {
		return nil, apperrors.ErrChatForbidden
	}

	return entry, nil
}

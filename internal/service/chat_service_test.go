package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"leadership-chatbot-server/internal/apperrors"
	"leadership-chatbot-server/internal/domain"
	"leadership-chatbot-server/internal/provider"
	"leadership-chatbot-server/internal/repository"
)

type mockChatRepository struct {
	entries map[int64]*domain.ChatEntry
	nextID  int64
	now     time.Time
}

func newMockChatRepository() *mockChatRepository {
	return &mockChatRepository{
		entries: make(map[int64]*domain.ChatEntry),
		nextID:  1,
		now:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockChatRepository) Create(ctx context.Context, entry *domain.ChatEntry) error {
	entry.ID = m.nextID
	entry.Timestamp = m.now
	m.nextID++
	m.now = m.now.Add(time.Second)

	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockChatRepository) FindByID(ctx context.Context, id int64) (*domain.ChatEntry, error) {
	if entry, ok := m.entries[id]; ok {
		return entry, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockChatRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.ChatEntry, error) {
	var owned []domain.ChatEntry
	for _, entry := range m.entries {
		if entry.UserID == userID {
			owned = append(owned, *entry)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].Timestamp.Equal(owned[j].Timestamp) {
			return owned[i].Timestamp.After(owned[j].Timestamp)
		}
		return owned[i].ID > owned[j].ID
	})

	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (m *mockChatRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	for _, entry := range m.entries {
		if entry.UserID == userID {
			total++
		}
	}
	return total, nil
}

// stubProvider returns a canned answer and records the question it was
// asked, or falls back like the real provider when failing is set.
type stubProvider struct {
	answer  string
	failing bool
	asked   []string
}

func (p *stubProvider) Ask(ctx context.Context, question string) string {
	p.asked = append(p.asked, question)
	if p.failing {
		return provider.FallbackResponse
	}
	return p.answer
}

func newChatFixture(t *testing.T, answerProvider provider.AnswerProvider) (*ChatService, *mockChatRepository, *domain.User) {
	t.Helper()

	userRepo := newMockUserRepository()
	user := userRepo.seed(t, "asker", "asker@example.com", "Password123!")
	chatRepo := newMockChatRepository()

	return NewChatService(chatRepo, userRepo, answerProvider), chatRepo, user
}

func TestChatService_AskQuestion(t *testing.T) {
	stub := &stubProvider{answer: "R"}
	svc, chatRepo, user := newChatFixture(t, stub)

	entry, err := svc.AskQuestion(context.Background(), user.ID, "Q")
	if err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}

	if entry.ID != 1 {
		t.Errorf("AskQuestion() chat id = %d, want 1", entry.ID)
	}
	if entry.Question != "Q" || entry.Response != "R" {
		t.Errorf("AskQuestion() = %q/%q, want Q/R", entry.Question, entry.Response)
	}

	stored, err := chatRepo.FindByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("entry was not persisted: %v", err)
	}
	if stored.Response != "R" {
		t.Errorf("persisted response = %q, want R", stored.Response)
	}
}

func TestChatService_AskQuestionUnknownUser(t *testing.T) {
	stub := &stubProvider{answer: "R"}
	svc, _, _ := newChatFixture(t, stub)

	_, err := svc.AskQuestion(context.Background(), 9999, "Q")
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("AskQuestion() error = %v, want %v", err, apperrors.ErrUserNotFound)
	}

	// The provider must not be called for a vanished user.
	if len(stub.asked) != 0 {
		t.Errorf("provider was asked %d times, want 0", len(stub.asked))
	}
}

func TestChatService_AskQuestionProviderFailure(t *testing.T) {
	stub := &stubProvider{failing: true}
	svc, chatRepo, user := newChatFixture(t, stub)

	entry, err := svc.AskQuestion(context.Background(), user.ID, "Q")
	if err != nil {
		t.Fatalf("AskQuestion() error = %v, provider failures must not fail the request", err)
	}

	if entry.Response != provider.FallbackResponse {
		t.Errorf("AskQuestion() response = %q, want fallback", entry.Response)
	}

	stored, err := chatRepo.FindByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("fallback entry was not persisted: %v", err)
	}
	if stored.Response != provider.FallbackResponse {
		t.Errorf("persisted response = %q, want fallback", stored.Response)
	}
}

func TestChatService_AskQuestionSanitizesInput(t *testing.T) {
	stub := &stubProvider{answer: "R"}
	svc, _, user := newChatFixture(t, stub)

	entry, err := svc.AskQuestion(context.Background(), user.ID, "<b>Q</b>")
	if err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}

	if entry.Question != "Q" {
		t.Errorf("AskQuestion() question = %q, want sanitized %q", entry.Question, "Q")
	}
	if len(stub.asked) != 1 || stub.asked[0] != "Q" {
		t.Errorf("provider asked %v, want sanitized question", stub.asked)
	}
}

func TestChatService_History(t *testing.T) {
	stub := &stubProvider{answer: "A"}
	svc, _, user := newChatFixture(t, stub)

	for i := 0; i < 5; i++ {
		if _, err := svc.AskQuestion(context.Background(), user.ID, "Q"); err != nil {
			t.Fatalf("AskQuestion() error = %v", err)
		}
	}

	tests := []struct {
		name        string
		limit       int
		offset      int
		wantCount   int
		wantLimit   int
		wantOffset  int
		wantFirstID int64
	}{
		{
			name:        "defaults",
			limit:       10,
			offset:      0,
			wantCount:   5,
			wantLimit:   10,
			wantOffset:  0,
			wantFirstID: 5,
		},
		{
			name:        "limit clamped low",
			limit:       0,
			offset:      0,
			wantCount:   5,
			wantLimit:   10,
			wantOffset:  0,
			wantFirstID: 5,
		},
		{
			name:        "limit clamped high",
			limit:       500,
			offset:      0,
			wantCount:   5,
			wantLimit:   10,
			wantOffset:  0,
			wantFirstID: 5,
		},
		{
			name:        "negative offset clamped",
			limit:       2,
			offset:      -3,
			wantCount:   2,
			wantLimit:   2,
			wantOffset:  0,
			wantFirstID: 5,
		},
		{
			name:        "paging",
			limit:       2,
			offset:      2,
			wantCount:   2,
			wantLimit:   2,
			wantOffset:  2,
			wantFirstID: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.History(context.Background(), user.ID, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("History() error = %v", err)
			}

			if len(resp.ChatHistory) != tt.wantCount {
				t.Errorf("History() returned %d entries, want %d", len(resp.ChatHistory), tt.wantCount)
			}
			if resp.Total != 5 {
				t.Errorf("History() total = %d, want 5", resp.Total)
			}
			if resp.Limit != tt.wantLimit {
				t.Errorf("History() limit = %d, want %d", resp.Limit, tt.wantLimit)
			}
			if resp.Offset != tt.wantOffset {
				t.Errorf("History() offset = %d, want %d", resp.Offset, tt.wantOffset)
			}

			if tt.wantCount > 0 && resp.ChatHistory[0].ID != tt.wantFirstID {
				t.Errorf("History() first id = %d, want %d", resp.ChatHistory[0].ID, tt.wantFirstID)
			}

			for i := 1; i < len(resp.ChatHistory); i++ {
				prev, cur := resp.ChatHistory[i-1], resp.ChatHistory[i]
				if cur.Timestamp.After(prev.Timestamp) {
					t.Errorf("History() not ordered newest-first at index %d", i)
				}
			}
		})
	}
}

func TestChatService_GetItem(t *testing.T) {
	stub := &stubProvider{answer: "A"}

	userRepo := newMockUserRepository()
	owner := userRepo.seed(t, "owner", "owner@example.com", "Password123!")
	other := userRepo.seed(t, "other", "other@example.com", "Password123!")
	chatRepo := newMockChatRepository()
	svc := NewChatService(chatRepo, userRepo, stub)

	entry, err := svc.AskQuestion(context.Background(), owner.ID, "Q")
	if err != nil {
		t.Fatalf("AskQuestion() error = %v", err)
	}

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.GetItem(context.Background(), entry.ID, owner.ID)
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if got.Question != "Q" || got.UserID != owner.ID {
			t.Errorf("GetItem() = %+v", got)
		}
	})

	t.Run("non-owner gets forbidden", func(t *testing.T) {
		_, err := svc.GetItem(context.Background(), entry.ID, other.ID)
		if !errors.Is(err, apperrors.ErrChatForbidden) {
			t.Errorf("GetItem() error = %v, want %v", err, apperrors.ErrChatForbidden)
		}
	})

	t.Run("missing entry is not found for everyone", func(t *testing.T) {
		_, err := svc.GetItem(context.Background(), 424242, other.ID)
		if !errors.Is(err, apperrors.ErrChatNotFound) {
			t.Errorf("GetItem() error = %v, want %v", err, apperrors.ErrChatNotFound)
		}
	})
}

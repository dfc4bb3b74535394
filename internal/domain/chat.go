package domain

import "time"

// ChatEntry is one question/answer exchange. Entries are append-only: no
// exposed operation updates or deletes them.
type ChatEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type QuestionRequest struct {
	Question string `json:"question" validate:"required"`
}

type AskResponse struct {
	Question string `json:"question"`
	Response string `json:"response"`
	ChatID   int64  `json:"chat_id"`
}

// ChatHistoryItem is the list view of an entry; user_id is implied by the
// authenticated caller and omitted.
type ChatHistoryItem struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatHistoryResponse struct {
	ChatHistory []ChatHistoryItem `json:"chat_history"`
	Total       int64             `json:"total"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
}

type ChatItemResponse struct {
	Chat *ChatEntry `json:"chat"`
}

func (e *ChatEntry) HistoryItem() ChatHistoryItem {
	return ChatHistoryItem{
		ID:        e.ID,
		Question:  e.Question,
		Response:  e.Response,
		Timestamp: e.Timestamp,
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"leadership-chatbot-server/internal/domain"
	"leadership-chatbot-server/internal/middleware"
	"leadership-chatbot-server/internal/service"
	"leadership-chatbot-server/pkg/response"
)

type ChatHandler struct {
	chatService *service.ChatService
	validator   *validator.Validate
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator.New(),
	}
}

func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req domain.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	entry, err := h.chatService.AskQuestion(r.Context(), userID, req.Question)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, domain.AskResponse{
		Question: entry.Question,
		Response: entry.Response,
		ChatID:   entry.ID,
	})
}

// History accepts limit and offset query parameters. Unparseable values fall
// back to the defaults, matching the clamping of out-of-range values.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	historyResp, err := h.chatService.History(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, historyResp)
}

func (h *ChatHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	// The route pattern constrains {id} to digits, so this parse only fails
	// on out-of-range values.
	chatID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.NotFound(w, "Chat item not found")
		return
	}

	userID := middleware.GetUserID(r)

	entry, err := h.chatService.GetItem(r.Context(), chatID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, domain.ChatItemResponse{Chat: entry})
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes the payload as-is with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error writes a flat {"error": ...} body.
func Error(w http.ResponseWriter, statusCode int, err string) {
	JSON(w, statusCode, map[string]string{"error": err})
}

// ErrorWithMessage writes the two-field body the auth gate uses for its
// fixed 401 responses.
func ErrorWithMessage(w http.ResponseWriter, statusCode int, err, message string) {
	JSON(w, statusCode, map[string]string{"error": err, "message": message})
}

func BadRequest(w http.ResponseWriter, err string) {
	Error(w, http.StatusBadRequest, err)
}

func Unauthorized(w http.ResponseWriter, err string) {
	Error(w, http.StatusUnauthorized, err)
}

func Forbidden(w http.ResponseWriter, err string) {
	Error(w, http.StatusForbidden, err)
}

func NotFound(w http.ResponseWriter, err string) {
	Error(w, http.StatusNotFound, err)
}

func Conflict(w http.ResponseWriter, err string) {
	Error(w, http.StatusConflict, err)
}

func InternalError(w http.ResponseWriter, err string) {
	Error(w, http.StatusInternalServerError, err)
}

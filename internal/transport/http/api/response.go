package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hrcontracts/internal/apperror"
)

type Error struct {
	Code    string `json:"code"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Logger receives encoding failures; handlers never see them.
var Logger = zap.NewNop()

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Logger.Warn("write json failed", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailError writes an AppError, including validation field issues when present.
func FailError(w http.ResponseWriter, err *apperror.AppError, details any, requestID string) {
	WriteJSON(w, err.HTTPStatus, Envelope{
		Success:   false,
		Error:     &Error{Code: err.Code, Title: err.Title, Message: err.Message, Details: details},
		RequestID: requestID,
	})
}

// Attachment writes a binary download.
func Attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		Logger.Warn("write attachment failed", zap.String("filename", filename), zap.Error(err))
	}
}

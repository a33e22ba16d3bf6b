package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"charter/shared/constant"
	"charter/shared/failure"
	"charter/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	write(w, code, Message{Message: message})
}

func WithJSON(w http.ResponseWriter, code int, payload any) {
	write(w, code, Data[any]{Data: &payload})
}

// WithError derives the status from failure.GetCode, so unknown errors become 500.
func WithError(w http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	write(w, code, Error{Error: err.Error(), Status: code})
}

// WithFile streams a document as an attachment.
func WithFile(w http.ResponseWriter, contentType, fileName string, data []byte) {
	header := w.Header()
	header.Set(constant.RequestHeaderContentType, contentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	header.Set("Content-Length", strconv.Itoa(len(data)))

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(code)

	if _, err = w.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}

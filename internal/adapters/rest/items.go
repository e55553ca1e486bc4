package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andrescamacho/simplemediator-go/internal/application/common"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/application/items/queries"
	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
)

const maxBodyBytes = 1 << 20

type itemHandlers struct {
	sender mediator.Sender
	logger *zap.Logger
}

// addItemRequest is the POST /api/items body
type addItemRequest struct {
	Name string `json:"name"`
}

func (h *itemHandlers) listItems(w http.ResponseWriter, r *http.Request) {
	names, err := mediator.Send(r.Context(), h.sender, queries.ListItemsQuery{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *itemHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	var body addItemRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := mediator.Send(r.Context(), h.sender, commands.AddItemCommand{Name: body.Name})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// fail maps a dispatch error to a response
func (h *itemHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := common.LoggerFromContext(r.Context())
	switch {
	case errors.Is(err, mediator.ErrHandlerNotRegistered):
		log.Error("handler wiring defect", zap.Error(err))
		writeError(w, status, "internal server error")
	case status >= http.StatusInternalServerError:
		log.Error("request failed", zap.Error(err))
		writeError(w, status, "internal server error")
	default:
		writeError(w, status, err.Error())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, item.ErrInvalidItemName):
		return http.StatusBadRequest
	case errors.Is(err, item.ErrItemExists):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

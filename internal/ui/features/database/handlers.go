package database

import (
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/rowdesk/internal/browser"
	"github.com/leapstack-labs/rowdesk/pkg/core"
)

// Handlers provides HTTP handlers for the browse and edit API.
type Handlers struct {
	svc    *browser.Service
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *browser.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{svc: svc, logger: logger}
}

// fail logs err and answers 400 with its message.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	level := slog.LevelError
	if browser.IsClientError(err) {
		level = slog.LevelWarn
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func (h *Handlers) rows(w http.ResponseWriter, r *http.Request, rows []core.Row, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Tables handles GET /tables.
func (h *Handlers) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.svc.ListTables(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// Columns handles GET /columns/{table}.
func (h *Handlers) Columns(w http.ResponseWriter, r *http.Request) {
	columns, err := h.svc.ListColumns(r.Context(), urlParam(r, "table"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, columns)
}

// Values handles GET /values/{table}/{column}.
func (h *Handlers) Values(w http.ResponseWriter, r *http.Request) {
	values, err := h.svc.DistinctValues(r.Context(), urlParam(r, "table"), urlParam(r, "column"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// TableRows handles GET /table/{name}.
func (h *Handlers) TableRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.TableRows(r.Context(), urlParam(r, "name"))
	h.rows(w, r, rows, err)
}

// Query handles POST /query.
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	rows, err := h.svc.Query(r.Context(), req.Table, req.Query)
	h.rows(w, r, rows, err)
}

// Update handles POST /update/{table}/{column}.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	value, err := bindValue(req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	newValue, err := bindValue(req.NewValue)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	table, column := urlParam(r, "table"), urlParam(r, "column")
	n, err := h.svc.Update(r.Context(), table, column, value, newValue)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("rows updated",
		slog.String("table", table),
		slog.String("column", column),
		slog.Int64("rows", n))
	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgUpdated})
}

// Delete handles POST /delete/{table}/{column}.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	value, err := bindValue(req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	table, column := urlParam(r, "table"), urlParam(r, "column")
	n, err := h.svc.Delete(r.Context(), table, column, value)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("rows deleted",
		slog.String("table", table),
		slog.String("column", column),
		slog.Int64("rows", n))
	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgDeleted})
}

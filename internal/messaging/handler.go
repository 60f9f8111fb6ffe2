package messaging

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Vovarama1992/wa-report-bridge/internal/template"
)

type Handler struct {
	svc      Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With(slog.String("handler", "messaging")),
	}
}

type sendMessageRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

type sendGroupMessageRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type sendTemplateRequest struct {
	TemplateName string         `json:"templateName" validate:"required"`
	Data         map[string]any `json:"data" validate:"required"`
	GroupID      string         `json:"groupId" validate:"required"`
}

type editMessageRequest struct {
	NewText string `json:"newText" validate:"required"`
}

type editTemplateRequest struct {
	TemplateName string         `json:"templateName" validate:"required"`
	Data         map[string]any `json:"data" validate:"required"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !h.decode(w, r, &req, "Phone number and message are required") {
		return
	}
	res, err := h.svc.SendMessage(r.Context(), req.PhoneNumber, req.Message)
	if err != nil {
		h.fail(w, err, "Failed to send message")
		return
	}
	writeData(w, res)
}

func (h *Handler) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req sendGroupMessageRequest
	if !h.decode(w, r, &req, "Group ID and message are required") {
		return
	}
	res, err := h.svc.SendGroupMessage(r.Context(), req.GroupID, req.Message)
	if err != nil {
		h.fail(w, err, "Failed to send group message")
		return
	}
	writeData(w, res)
}

func (h *Handler) SendTemplateMessage(w http.ResponseWriter, r *http.Request) {
	var req sendTemplateRequest
	if !h.decode(w, r, &req, "Template name, data, and group ID are required") {
		return
	}
	res, err := h.svc.SendTemplateMessage(r.Context(), req.TemplateName, req.Data, req.GroupID)
	if err != nil {
		h.fail(w, err, "Failed to send template message")
		return
	}
	writeData(w, res)
}

func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.GetGroups(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to get WhatsApp groups")
		return
	}
	writeData(w, groups)
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  h.svc.Status(),
	})
}

func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	var req editMessageRequest
	if !h.decode(w, r, &req, "New text is required") {
		return
	}
	res, err := h.svc.EditMessage(r.Context(), chi.URLParam(r, "id"), req.NewText)
	if err != nil {
		h.fail(w, err, "Failed to edit message")
		return
	}
	writeData(w, res)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.DeleteMessage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Failed to delete message")
		return
	}
	writeData(w, res)
}

func (h *Handler) EditMessageWithTemplate(w http.ResponseWriter, r *http.Request) {
	var req editTemplateRequest
	if !h.decode(w, r, &req, "Template name and data are required") {
		return
	}
	res, err := h.svc.EditMessageWithTemplate(r.Context(), chi.URLParam(r, "id"), req.TemplateName, req.Data)
	if err != nil {
		h.fail(w, err, "Failed to edit message with template")
		return
	}
	writeData(w, res)
}

// decode reads a JSON body into dst and validates it. Numbers stay json.Number so
// template data renders exactly as the operator wrote it. On failure it writes a 400 and
// returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any, missing string) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, missing)
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	code := statusFor(err)
	msg := err.Error()
	switch code {
	case http.StatusServiceUnavailable:
		msg = "WhatsApp client is not ready. Please scan QR code first."
	case http.StatusInternalServerError:
		h.logger.Error(strings.ToLower(fallback), slog.Any("error", err))
	}
	writeError(w, code, msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, template.ErrTemplateNotFound),
		errors.Is(err, ErrInvalidRecipient),
		errors.Is(err, ErrInvalidMessageID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

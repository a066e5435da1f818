package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/assistant"
	"github.com/utafrali/storefront/pkg/httputil"
)

// AssistantHandler exposes the generative features. Its failures are
// reported on these endpoints only.
type AssistantHandler struct {
	assistant assistant.Assistant
	logger    *slog.Logger
}

// NewAssistantHandler creates a new assistant HTTP handler.
func NewAssistantHandler(a assistant.Assistant, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: a, logger: logger}
}

// SearchRequest is a free-text shopper question.
type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// AnalyzeRequest carries a base64 image in JSON.
type AnalyzeRequest struct {
	Image  []byte `json:"image" validate:"required"`
	Prompt string `json:"prompt" validate:"max=2000"`
}

// AnalyzeResponse is the model's description of the image.
type AnalyzeResponse struct {
	Text string `json:"text"`
}

// GenerateRequest asks for a marketing image.
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
	Aspect string `json:"aspect" validate:"omitempty,oneof=1:1 3:4 16:9"`
}

// GenerateResponse holds the generated image, base64 encoded in JSON.
type GenerateResponse struct {
	Image    []byte `json:"image"`
	MimeType string `json:"mime_type"`
}

// ChatRequest is the conversation so far, ending with the shopper's message.
type ChatRequest struct {
	Messages []assistant.ChatMessage `json:"messages" validate:"required,min=1,max=50,dive"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Message assistant.ChatMessage `json:"message"`
}

// Search handles POST /api/v1/assistant/search
func (h *AssistantHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode(w, r, maxJSONBody, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.assistant.Search(r.Context(), req.Query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// Analyze handles POST /api/v1/assistant/analyze
func (h *AssistantHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decode(w, r, maxImageBody, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	text, err := h.assistant.Analyze(r.Context(), req.Image, req.Prompt)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, AnalyzeResponse{Text: text})
}

// Generate handles POST /api/v1/assistant/generate
func (h *AssistantHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decode(w, r, maxJSONBody, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	img, err := h.assistant.Generate(r.Context(), req.Prompt, assistant.Aspect(req.Aspect))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, GenerateResponse{
		Image:    img,
		MimeType: http.DetectContentType(img),
	})
}

// Chat handles POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decode(w, r, maxJSONBody, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	reply, err := h.assistant.Chat(r.Context(), req.Messages)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ChatResponse{
		Message: assistant.ChatMessage{Role: assistant.RoleModel, Text: reply},
	})
}

package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

const serviceName = "assistant"

// Config selects the models and endpoint used by the OpenAI assistant.
type Config struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
}

// DefaultConfig returns the default model selection for apiKey.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:     apiKey,
		Model:      openai.GPT4oMini,
		ImageModel: openai.CreateImageModelDallE3,
	}
}

// OpenAI implements Assistant on the OpenAI API.
type OpenAI struct {
	client     *openai.Client
	model      string
	imageModel string
	catalog    *catalog.Store
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewOpenAI creates an assistant whose HTTP traffic goes through doer,
// normally a circuit-broken httpclient. A nil doer uses http.DefaultClient.
func NewOpenAI(cfg Config, doer httpclient.Doer, store *catalog.Store, logger *slog.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if doer != nil {
		clientCfg.HTTPClient = doer
	} else {
		clientCfg.HTTPClient = http.DefaultClient
	}

	def := DefaultConfig(cfg.APIKey)
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = def.ImageModel
	}

	logger.Info("initializing assistant",
		slog.String("model", cfg.Model),
		slog.String("image_model", cfg.ImageModel),
	)

	return &OpenAI{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		catalog:    store,
		tracer:     tracing.Tracer(serviceName),
		logger:     logger,
	}
}

// Search answers a shopper's question using the catalog entries that match
// it as grounding. Matching products are returned as sources.
func (o *OpenAI) Search(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, apperrors.InvalidInput("query is required")
	}

	ctx, span := o.tracer.Start(ctx, "assistant.Search")
	defer span.End()

	matches := o.catalog.Match(query)
	span.SetAttributes(attribute.Int("assistant.sources", len(matches)))

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SupportInstruction},
	}
	if len(matches) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: groundingContext(matches),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: query})

	text, err := o.complete(ctx, span, messages)
	if err != nil {
		return SearchResult{}, err
	}
	if text == "" {
		text = SearchFallback
	}

	sources := make([]Source, 0, len(matches))
	for _, p := range matches {
		sources = append(sources, Source{URI: "/store?product=" + p.ID, Title: p.Name})
	}
	return SearchResult{Text: text, Sources: sources}, nil
}

// Analyze describes an uploaded product photo or label.
func (o *OpenAI) Analyze(ctx context.Context, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", apperrors.InvalidInput("image is required")
	}
	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", apperrors.InvalidInput("unsupported image type " + mimeType)
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultAnalysisPrompt
	}

	ctx, span := o.tracer.Start(ctx, "assistant.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("assistant.mime_type", mimeType),
		attribute.Int("assistant.image_bytes", len(image)),
	)

	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	messages := []openai.ChatCompletionMessage{{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURI}},
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
		},
	}}

	text, err := o.complete(ctx, span, messages)
	if err != nil {
		return "", err
	}
	if text == "" {
		return AnalysisFallback, nil
	}
	return text, nil
}

// Generate renders a marketing image and returns its raw bytes.
func (o *OpenAI) Generate(ctx context.Context, prompt string, aspect Aspect) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.InvalidInput("prompt is required")
	}
	if aspect == "" {
		aspect = AspectSquare
	}
	if !aspect.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported aspect ratio %q", aspect))
	}

	ctx, span := o.tracer.Start(ctx, "assistant.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("assistant.aspect", string(aspect)))

	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.imageModel,
		N:              1,
		Size:           imageSize(aspect),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, o.fail(ctx, span, "image generation failed", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, o.fail(ctx, span, "image generation failed",
			apperrors.Upstream(serviceName, errors.New("no image data returned")))
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, o.fail(ctx, span, "image generation failed",
			apperrors.Upstream(serviceName, fmt.Errorf("decode image: %w", err)))
	}
	return img, nil
}

// Chat continues a support conversation. The last message must come from
// the user.
func (o *OpenAI) Chat(ctx context.Context, history []ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", apperrors.InvalidInput("history is required")
	}
	if history[len(history)-1].Role != RoleUser {
		return "", apperrors.InvalidInput("last message must come from the user")
	}

	ctx, span := o.tracer.Start(ctx, "assistant.Chat")
	defer span.End()
	span.SetAttributes(attribute.Int("assistant.turns", len(history)))

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SupportInstruction})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}

	return o.complete(ctx, span, messages)
}

func (o *OpenAI) complete(ctx context.Context, span trace.Span, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
	})
	if err != nil {
		return "", o.fail(ctx, span, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		o.logger.WarnContext(ctx, "assistant returned no choices", slog.String("model", o.model))
		return "", nil
	}
	o.logger.DebugContext(ctx, "assistant completion",
		slog.String("model", o.model),
		slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAI) fail(ctx context.Context, span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	o.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
	return mapError(err)
}

// mapError converts SDK and transport failures into AppErrors.
func mapError(err error) error {
	var (
		appErr *apperrors.AppError
		apiErr *openai.APIError
		reqErr *openai.RequestError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &apiErr):
		return httpclient.MapStatus(apiErr.HTTPStatusCode, serviceName, apiErr.Message)
	case errors.As(err, &reqErr):
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return httpclient.MapStatus(reqErr.HTTPStatusCode, serviceName, msg)
	default:
		return httpclient.MapError(err, serviceName)
	}
}

func imageSize(a Aspect) string {
	switch a {
	case AspectPortrait:
		return openai.CreateImageSize1024x1792
	case AspectLandscape:
		return openai.CreateImageSize1792x1024
	default:
		return openai.CreateImageSize1024x1024
	}
}

func groundingContext(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("Relevant products from the Heritage catalog:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s, origin %s, %d.%02d): %s\n",
			p.Name, p.Category, p.Details.Origin, p.Price/100, p.Price%100, p.Description)
	}
	return b.String()
}

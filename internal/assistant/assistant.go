// Package assistant exposes the storefront's generative features: grounded
// product search, image analysis, marketing image generation and the
// support chat bot.
package assistant

import (
	"context"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	// SearchFallback is returned when the model produces no text for a search.
	SearchFallback = "I couldn't find specific information on that."

	// AnalysisFallback is returned when the model produces no text for an image.
	AnalysisFallback = "Analysis failed to generate text."

	// DefaultAnalysisPrompt is used when the caller supplies no prompt.
	DefaultAnalysisPrompt = "Analyze this image. If it is a food product, list its likely ingredients, " +
		"potential health benefits, and whether it appears to be organic/natural. " +
		"If it's a label, summarize the nutrition facts."

	// SupportInstruction is the system prompt for the chat bot.
	SupportInstruction = "You are a helpful, friendly customer support assistant for Heritage Nature Organics (UAE). " +
		"You help customers find organic products, answer questions about health benefits " +
		"(like Moringa, King Coconut Water), and assist with their shopping experience. " +
		"You are polite, professional, and your answers are concise. " +
		"If asked about pricing, refer to general ranges or advise checking the store page."
)

// Aspect is the requested shape of a generated image.
type Aspect string

const (
	AspectSquare    Aspect = "1:1"
	AspectPortrait  Aspect = "3:4"
	AspectLandscape Aspect = "16:9"
)

// Valid reports whether a is one of the supported aspect ratios.
func (a Aspect) Valid() bool {
	switch a {
	case AspectSquare, AspectPortrait, AspectLandscape:
		return true
	}
	return false
}

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of a support conversation.
type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// Source is a reference backing a search answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// SearchResult is a grounded answer to a free-text question.
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Assistant is the generative-AI service used by the storefront.
// Failures never touch cart or catalog state.
type Assistant interface {
	Search(ctx context.Context, query string) (SearchResult, error)
	Analyze(ctx context.Context, image []byte, prompt string) (string, error)
	Generate(ctx context.Context, prompt string, aspect Aspect) ([]byte, error)
	Chat(ctx context.Context, history []ChatMessage) (string, error)
}

// Disabled is used when no API key is configured.
type Disabled struct{}

var errDisabled = apperrors.ServiceUnavailable("assistant is not configured")

func (Disabled) Search(context.Context, string) (SearchResult, error) {
	return SearchResult{}, errDisabled
}

func (Disabled) Analyze(context.Context, []byte, string) (string, error) {
	return "", errDisabled
}

func (Disabled) Generate(context.Context, string, Aspect) ([]byte, error) {
	return nil, errDisabled
}

func (Disabled) Chat(context.Context, []ChatMessage) (string, error) {
	return "", errDisabled
}

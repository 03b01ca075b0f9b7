package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"slabquote/infrastructure/ai"
	"slabquote/infrastructure/cache"
	"slabquote/pricebook"
)

const maxMessageLength = 2000

const basePrompt = "You are a friendly assistant for a countertop remodeling " +
	"business. Help visitors choose materials, explain the measuring and " +
	"installation process, and answer questions about their estimate. Keep " +
	"answers short and practical. If you are unsure, suggest contacting the " +
	"team through the quote form."

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type chatError struct {
	Error string `json:"error"`
}

func writeChatError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(chatError{Error: message})
}

// ChatCommandHandler relays a visitor question to the assistant backend.
// Pricing questions get the current price book injected as context so the
// assistant quotes real numbers.
func ChatCommandHandler(client *ai.Client, books *cache.PriceBookCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeChatError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			writeChatError(w, http.StatusBadRequest, "message is required")
			return
		}
		if utf8.RuneCountInString(message) > maxMessageLength {
			writeChatError(w, http.StatusBadRequest, "message is too long")
			return
		}

		prompt := basePrompt
		if mentionsPricing(message) {
			if book := books.Get(); book != nil {
				prompt += "\n\nCurrent price list:\n" + priceContext(book)
			}
		}

		reply, err := client.Complete(r.Context(), prompt, message)
		if err != nil {
			if errors.Is(err, ai.ErrNotConfigured) {
				writeChatError(w, http.StatusServiceUnavailable, "assistant is not configured")
				return
			}
			slog.Error("chat completion failed", slog.Any("err", err))
			writeChatError(w, http.StatusBadGateway, "assistant is unavailable")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Response: reply})
	}
}

var pricingKeywords = []string{"price", "cost", "estimate", "quote", "how much", "$"}

func mentionsPricing(message string) bool {
	lowered := strings.ToLower(message)
	for _, kw := range pricingKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func priceContext(book *pricebook.Book) string {
	var b strings.Builder
	for _, e := range book.Entries() {
		fmt.Fprintf(&b, "- %s (%s): $%.2f per %s", e.Name, e.Code, e.Price, e.Unit)
		if e.Material != "" {
			fmt.Fprintf(&b, ", %s", e.Material)
		}
		b.WriteString("\n")
	}
	return b.String()
}

package repository

import (
	"context"
	"divmetrics/internal/domain"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayush6624/go-chatgpt"
)

// GptRepository turns free-text portfolio descriptions (English, Hebrew or
// CSV-ish) into structured import candidates.
type GptRepository interface {
	ParseHoldings(ctx context.Context, freeText string) ([]domain.ImportCandidate, error)
}

type gptRepositoryHandler struct {
	GptClient *chatgpt.Client
}

func NewGptRepository(apiKey string) (GptRepository, error) {
	client, err := chatgpt.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to construct gpt client: %w", err)
	}

	return gptRepositoryHandler{
		GptClient: client,
	}, nil
}

const systemPrompt = `You are a financial data parser.`

const parsePromptTemplate = `
The following text contains stock portfolio data.
It might be in Hebrew or English and might use different formats.

Parse this data into structured stock entries.
If Hebrew terms are used, here's how to interpret them:
- "נייר" or "סימבול" or "מספר נייר" = stock symbol
- "כמות" = amount of shares
- "שער קניה" or "מחיר קניה" = purchase price
- "שער אחרון" or "מחיר אחרון" = current price

For bonds and specific securities:
- Keep the exact symbol format (like 912810RL4)
- Flag it as a bond if it has a primarily numeric identifier
- For bonds, calculate per-unit values:
  Example: "2000 of 912810RL4 worth $2,004.98" means:
    - symbol: 912810RL4
    - amount: 2000
    - purchase_price: 1.00249 (i.e. $2,004.98 / 2000)
    - is_bond: true

TEXT TO PARSE:
%s

Return ONLY a JSON array, no explanations, where each element has:
- symbol: stock symbol exactly as provided (string)
- amount: number of shares/units (number)
- purchase_price: purchase price PER SHARE/UNIT (number)
- purchase_date: date in YYYY-MM-DD format, if mentioned (string)
- is_bond: true if this is likely a bond, false otherwise (boolean)
`

func (h gptRepositoryHandler) ParseHoldings(ctx context.Context, freeText string) ([]domain.ImportCandidate, error) {
	res, err := h.GptClient.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model: chatgpt.GPT35Turbo,
		Messages: []chatgpt.ChatMessage{
			{
				Role:    chatgpt.ChatGPTModelRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    chatgpt.ChatGPTModelRoleUser,
				Content: fmt.Sprintf(parsePromptTemplate, freeText),
			},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, domain.ImportParseError{Err: fmt.Errorf("completion request failed: %w", err)}
	}
	if len(res.Choices) == 0 {
		return nil, domain.ImportParseError{Err: fmt.Errorf("completion returned no choices")}
	}

	candidates, err := decodeCandidates(res.Choices[0].Message.Content)
	if err != nil {
		return nil, domain.ImportParseError{Err: err}
	}

	return candidates, nil
}

// decodeCandidates tolerates the shapes the model actually produces: a bare
// array, a {"stocks": [...]} wrapper, or a {"stocks": {"SYM": {...}}} map
// keyed by symbol - all optionally inside a markdown code fence.
func decodeCandidates(content string) ([]domain.ImportCandidate, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	out := []domain.ImportCandidate{}
	if err := json.Unmarshal([]byte(content), &out); err == nil {
		return out, nil
	}

	wrapped := struct {
		Stocks json.RawMessage `json:"stocks"`
	}{}
	if err := json.Unmarshal([]byte(content), &wrapped); err != nil || wrapped.Stocks == nil {
		return nil, fmt.Errorf("unrecognized completion payload")
	}

	if err := json.Unmarshal(wrapped.Stocks, &out); err == nil {
		return out, nil
	}

	bySymbol := map[string]domain.ImportCandidate{}
	if err := json.Unmarshal(wrapped.Stocks, &bySymbol); err != nil {
		return nil, fmt.Errorf("unrecognized stocks payload: %w", err)
	}
	for symbol, candidate := range bySymbol {
		candidate.Symbol = symbol
		out = append(out, candidate)
	}

	return out, nil
}

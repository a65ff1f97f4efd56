package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiTimeout bounds a single completion call.
const geminiTimeout = 60 * time.Second

// itemsSchema constrains the completion to the items object. Gemini decodes
// against this server-side, which removes most malformed-JSON failures.
var itemsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"productName": {Type: genai.TypeString},
					"price":       {Type: genai.TypeNumber},
					"quantity":    {Type: genai.TypeNumber},
				},
				Required: []string{"productName", "price"},
			},
		},
	},
	Required: []string{"items"},
}

// Gemini implements the Generator interface using Google Gemini.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a new Gemini Generator instance.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		modelName: modelName,
	}, nil
}

// Generate runs one schema-constrained completion. A fresh model handle is
// configured per call; the underlying client is shared and safe for
// concurrent use.
func (g *Gemini) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(1024)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = itemsSchema

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var completion strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			completion.WriteString(string(text))
		}
	}

	return completion.String(), nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

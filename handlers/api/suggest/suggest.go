package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"moodboard/board"
	"moodboard/core"
	"moodboard/handlers/api/apierror"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

var (
	openaiAPIKey  string
	openaiBaseURL string
	openaiModel   string
)

func Init() {
	openaiAPIKey = os.Getenv("OPENAI_API_KEY")
	openaiBaseURL = os.Getenv("OPENAI_BASE_URL")
	openaiModel = os.Getenv("OPENAI_MODEL")
	if openaiBaseURL == "" {
		openaiBaseURL = "https://api.openai.com" // Default value
	}
	if openaiModel == "" {
		openaiModel = "gpt-4o-mini"
	}
	if openaiAPIKey == "" {
		logrus.Warn("OPENAI_API_KEY environment variable not set. Image suggestions will not work.")
	}
}

// Structures for OpenAI compatibility

type LiteralType string

const (
	LiteralTypeText     LiteralType = "text"
	LiteralTypeImageURL LiteralType = "image_url"
)

// TextContentPart corresponds to a part of a multi-part message with text.
type TextContentPart struct {
	Type LiteralType `json:"type"`
	Text string      `json:"text"`
}

// ImageURL details the URL and detail level of an image.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ImageContentPart corresponds to a part of a multi-part message with an image.
type ImageContentPart struct {
	Type     LiteralType `json:"type"`
	ImageURL ImageURL    `json:"image_url"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or a slice of content parts
}

type ChatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens *int          `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type (
	// SuggestRequest carries the image to describe as a data URI, typically
	// produced by the image proxy.
	SuggestRequest struct {
		PhotoDataURI string `json:"photoDataUri"`
	}

	// Suggestion is the model's metadata proposal for a captured image. At
	// most one of SuggestedBoardID and SuggestedNewBoardName is set.
	Suggestion struct {
		Title                 string   `json:"title,omitempty"`
		Notes                 string   `json:"notes,omitempty"`
		Tags                  []string `json:"tags,omitempty"`
		Colors                []string `json:"colors,omitempty"`
		SuggestedBoardID      string   `json:"suggestedBoardId,omitempty"`
		SuggestedNewBoardName string   `json:"suggestedNewBoardName,omitempty"`
	}
)

// HandleSuggest asks the configured OpenAI-compatible model to describe an
// image and proposes title, notes, tags, palette colors and a target board.
// Failures surface as a 502 and never block manual entry on the client.
func HandleSuggest(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if openaiAPIKey == "" {
			apierror.Render(w, r, fmt.Errorf("%w: suggestion model is not configured", core.ErrExternalService))
			return
		}

		var req SuggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		if !strings.HasPrefix(req.PhotoDataURI, "data:image/") {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "photoDataUri must be an image data URI"})
			return
		}

		suggestion, err := describe(r, req.PhotoDataURI, store.Snapshot().Boards)
		if err != nil {
			logrus.WithError(err).Warn("Image suggestion failed")
			apierror.Render(w, r, err)
			return
		}
		render.JSON(w, r, suggestion)
	}
}

func describe(r *http.Request, dataURI string, boards []*core.Board) (*Suggestion, error) {
	prompt := buildPrompt(boards)

	maxTokens := 500
	reqBody := ChatCompletionRequest{
		Model: openaiModel,
		Messages: []ChatMessage{
			{Role: "user", Content: []any{
				TextContentPart{Type: LiteralTypeText, Text: prompt},
				ImageContentPart{Type: LiteralTypeImageURL, ImageURL: ImageURL{URL: dataURI, Detail: "low"}},
			}},
		},
		MaxTokens: &maxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal suggestion request: %v", core.ErrExternalService, err)
	}

	proxyReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		openaiBaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build suggestion request: %v", core.ErrExternalService, err)
	}
	proxyReq.Header.Set("Authorization", "Bearer "+openaiAPIKey)
	proxyReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(proxyReq)
	if err != nil {
		return nil, fmt.Errorf("%w: call suggestion model: %v", core.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: suggestion model returned status %d", core.ErrExternalService, resp.StatusCode)
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&completion); err != nil {
		return nil, fmt.Errorf("%w: decode suggestion response: %v", core.ErrExternalService, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: suggestion model returned no choices", core.ErrExternalService)
	}

	return parseSuggestion(completion.Choices[0].Message.Content, boards)
}

func buildPrompt(boards []*core.Board) string {
	var sb strings.Builder
	sb.WriteString("Describe this image for a visual moodboard. Respond with a single JSON object ")
	sb.WriteString(`with keys "title", "notes", "tags" (lowercase strings), "colors" `)
	sb.WriteString("(dominant colors, chosen only from: ")
	sb.WriteString(strings.Join(core.BasicColors, ", "))
	sb.WriteString(`), and either "suggestedBoardId" (an existing board fitting the image) or `)
	sb.WriteString(`"suggestedNewBoardName" (a new board worth creating), never both.`)
	if len(boards) > 0 {
		sb.WriteString(" Existing boards:")
		for _, b := range boards {
			fmt.Fprintf(&sb, " %s=%q", b.ID, b.Name)
		}
	}
	return sb.String()
}

// parseSuggestion tolerates fenced responses and drops anything the model
// invents outside the palette or the known boards.
func parseSuggestion(content string, boards []*core.Board) (*Suggestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggestion); err != nil {
		return nil, fmt.Errorf("%w: suggestion is not valid JSON: %v", core.ErrExternalService, err)
	}

	suggestion.Tags = core.NormalizeTags(suggestion.Tags)
	colors := suggestion.Colors[:0]
	for _, color := range suggestion.Colors {
		if core.IsBasicColor(color) {
			colors = append(colors, color)
		}
	}
	suggestion.Colors = colors

	if suggestion.SuggestedBoardID != "" {
		suggestion.SuggestedNewBoardName = ""
		known := false
		for _, b := range boards {
			if b.ID == suggestion.SuggestedBoardID {
				known = true
				break
			}
		}
		if !known {
			suggestion.SuggestedBoardID = ""
		}
	}
	return &suggestion, nil
}

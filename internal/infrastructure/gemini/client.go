// Package gemini implements the text-generation port on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minsu-dev/fortune-bot/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-1.5-flash-001"

// Fixed sampling parameters for fortune generation.
const (
	temperature     = 0.8
	topP            = 0.95
	maxOutputTokens = 1400
)

// modelCaller is the raw single-call surface, mockable in tests.
type modelCaller interface {
	generateContent(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

type Client struct {
	caller modelCaller
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{
		caller: &genaiCaller{client: gc, model: model},
		model:  model,
	}, nil
}

type genaiCaller struct {
	client *genai.Client
	model  string
}

func (g *genaiCaller) generateContent(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	return g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		TopP:            genai.Ptr[float32](topP),
		MaxOutputTokens: maxOutputTokens,
	})
}

// Generate produces the fortune text for a prompt. When the first call is
// cut off by the output-length cap, exactly one continuation call is made
// and the two texts are joined with a single line break. A continuation
// that fails or comes back empty leaves the truncated text as the result.
// No more than two model calls are ever made per prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.caller.generateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text, finish, err := candidateText(resp)
	if err != nil {
		return "", err
	}
	if finish != genai.FinishReasonMaxTokens {
		return text, nil
	}

	logger.L().Warn("Gemini output truncated by token cap, requesting continuation",
		zap.String("model", c.model),
		zap.Int("truncatedLength", len(text)),
	)
	cont, err := c.caller.generateContent(ctx, continuationPrompt(text))
	if err != nil {
		logger.L().Warn("Gemini continuation call failed, keeping truncated text", zap.Error(err))
		return text, nil
	}
	more, _, err := candidateText(cont)
	if err != nil || strings.TrimSpace(more) == "" {
		logger.L().Warn("Gemini continuation returned no text, keeping truncated text")
		return text, nil
	}
	return text + "\n" + more, nil
}

// candidateText concatenates the non-empty part texts of the first
// candidate and returns them with the candidate's finish reason.
func candidateText(resp *genai.GenerateContentResponse) (string, genai.FinishReason, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", "", errors.New("gemini returned no candidates")
	}
	cand := resp.Candidates[0]

	var texts []string
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	out := strings.TrimSpace(strings.Join(texts, "\n"))
	if out == "" {
		return "", "", errors.New("gemini returned empty text")
	}
	return out, cand.FinishReason, nil
}

func continuationPrompt(truncated string) string {
	return "아래는 출력 길이 제한으로 중간에 잘린 글이다.\n" +
		"이미 작성된 내용을 반복하지 말고, 끊긴 지점부터 같은 문체로 자연스럽게 이어서 글을 완성하라.\n" +
		"잘린 글을 다시 출력하지 말고 이어지는 부분만 출력한다.\n\n" +
		"[잘린 글]\n" + truncated
}

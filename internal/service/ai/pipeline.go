package ai

import (
	"context"
	"fmt"
	"strings"
)

// PromptContext carries the four context blocks appended, in order, to every
// stage's system prompt. Empty blocks contribute nothing.
type PromptContext struct {
	Memory  string
	Persona string
	History string
	Style   string
}

func (pc PromptContext) joined() string {
	return pc.Memory + pc.Persona + pc.History + pc.Style
}

// PipelineResult is the outcome of one response pipeline run. Implementation
// is produced by the third stage but deliberately left out of Text; it is
// kept on the struct so callers can observe it was generated.
type PipelineResult struct {
	Text           string
	Analysis       string
	Strategy       string
	Implementation string
	UsedFallback   bool
}

// fillerLeadIns are stripped from the concatenated response wherever they
// appear.
var fillerLeadIns = []string{"Tabii ki, ", "Elbette, ", "İşte ", "Öncelikle, "}

// Respond runs the analyze -> strategize -> implement pipeline. Any stage
// failure abandons the pipeline for a single generic-assistant call; only a
// failed fallback surfaces an error.
func (s *Service) Respond(ctx context.Context, userMessage string, pc PromptContext) (*PipelineResult, error) {
	contexts := pc.joined()

	analysis, err := s.llm.Complete(ctx, analyzerPrompt+contexts, userMessage, analyzeMaxTokens, chatTemperature)
	if err != nil {
		return s.fallback(ctx, userMessage, contexts)
	}

	strategyUser := fmt.Sprintf(`Create a strategy based on the analysis below.
Analysis: %s

DO NOT START YOUR RESPONSE WITH ANY INTRODUCTORY SENTENCE. Go directly into explaining your strategy as a continuation of the analysis. Do not repeat the analysis in your response.`, analysis)
	strategy, err := s.llm.Complete(ctx, strategistPrompt+contexts, strategyUser, strategyMaxTokens, chatTemperature)
	if err != nil {
		return s.fallback(ctx, userMessage, contexts)
	}

	implementUser := fmt.Sprintf(`If the user input is relevant with such implementation steps, create implementation steps based on the analysis and strategy below. Else, skip this message.
Analysis: %s
Strategy: %s

DO NOT START YOUR RESPONSE WITH ANY INTRODUCTORY SENTENCE. Go directly into explaining your implementation steps as a continuation of the analysis and strategy. Do not repeat the analysis or strategy in your response.`, analysis, strategy)
	implementation, err := s.llm.Complete(ctx, implementerPrompt+contexts, implementUser, implementMaxTokens, chatTemperature)
	if err != nil {
		return s.fallback(ctx, userMessage, contexts)
	}

	// The implementation stage's output stays off the visible response.
	text := stripFillers(analysis + "\n\n" + strategy + "\n\n")
	return &PipelineResult{
		Text:           text,
		Analysis:       analysis,
		Strategy:       strategy,
		Implementation: implementation,
	}, nil
}

func (s *Service) fallback(ctx context.Context, userMessage, contexts string) (*PipelineResult, error) {
	text, err := s.llm.Complete(ctx, fallbackPrompt+contexts, userMessage, fallbackMaxTokens, chatTemperature)
	if err != nil {
		return nil, fmt.Errorf("fallback response: %w", err)
	}
	return &PipelineResult{Text: text, UsedFallback: true}, nil
}

func stripFillers(text string) string {
	for _, filler := range fillerLeadIns {
		text = strings.ReplaceAll(text, filler, "")
	}
	return text
}

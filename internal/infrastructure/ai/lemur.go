// Package ai generates encounter summaries and interaction scripts with
// the AssemblyAI LeMUR API. Every generator degrades to canned text when
// the API is unconfigured or fails; summary generation never blocks
// ending an encounter.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// LemurGenerator produces summaries and scripts via LeMUR.
type LemurGenerator struct {
	apiKey string
	model  string
	logger *logging.ChanneledLogger
}

// NewLemurGenerator creates the text generator. An empty API key is
// allowed; generation then always returns fallback text.
func NewLemurGenerator(logger *logging.ChanneledLogger) *LemurGenerator {
	return &LemurGenerator{
		apiKey: config.AAIAPIKey,
		model:  config.SummaryModel,
		logger: logger,
	}
}

// SummarizeEncounter produces a short factual summary of a completed
// encounter. Transcript may be empty when no recording was made.
func (g *LemurGenerator) SummarizeEncounter(ctx context.Context, enc encounter.Encounter, transcript string) string {
	fallback := FallbackSummary(enc)
	if g.apiKey == "" {
		return fallback
	}

	prompt := "Summarize this police encounter record in 2-3 factual sentences. " +
		"Do not speculate about anything not present in the input."
	input := fallback
	if transcript != "" {
		input = fallback + "\n\nTranscript:\n" + transcript
	}

	text, err := g.ask(ctx, prompt, input, config.SummaryMaxTokens)
	if err != nil {
		g.logger.System().Warn("LeMUR summary generation failed, using fallback", "encounterId", enc.ID, "error", err.Error())
		return fallback
	}
	return text
}

// GenerateScript produces a ready-to-read interaction script for a
// scenario (traffic stop, street stop, home visit) in the given language.
func (g *LemurGenerator) GenerateScript(ctx context.Context, scenario, state, language string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("script generation requires an AssemblyAI API key")
	}

	prompt := fmt.Sprintf(
		"Write a short spoken script a person can read aloud during a %s in %s. "+
			"The script must only assert well-established constitutional rights, stay calm and "+
			"non-confrontational, and be written in %s. Output plain text only.",
		scenario, state, language,
	)

	return g.ask(ctx, prompt, "scenario: "+scenario, config.SummaryMaxTokens)
}

func (g *LemurGenerator) ask(ctx context.Context, prompt, input string, maxTokens int) (string, error) {
	start := time.Now()
	client := assemblyai.NewClient(g.apiKey)

	ctx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	var params assemblyai.LeMURTaskParams
	params.Prompt = assemblyai.String(prompt)
	params.InputText = assemblyai.String(input)
	params.FinalModel = assemblyai.LeMURModel(g.model)
	params.MaxOutputSize = assemblyai.Int64(int64(maxTokens))
	params.Temperature = assemblyai.Float64(0.0)

	response, err := client.LeMUR.Task(ctx, params)
	if err != nil {
		return "", err
	}
	if response.Response == nil || *response.Response == "" {
		return "", fmt.Errorf("empty LeMUR response")
	}

	g.logger.System().Debug("LeMUR generation complete", "duration", time.Since(start))
	return *response.Response, nil
}

// FallbackSummary is the canned summary used when AI generation is
// unavailable.
func FallbackSummary(enc encounter.Encounter) string {
	summary := fmt.Sprintf("Encounter recorded on %s.", enc.Timestamp.Format("January 2, 2006 at 3:04 PM"))
	if enc.Location.City != "" || enc.Location.State != "" {
		loc := enc.Location.City
		if loc != "" && enc.Location.State != "" {
			loc += ", " + enc.Location.State
		} else if enc.Location.State != "" {
			loc = enc.Location.State
		}
		summary += fmt.Sprintf(" Location: %s.", loc)
	}
	if enc.Duration != nil {
		summary += fmt.Sprintf(" Duration: %s.", encounter.FormatDuration(*enc.Duration))
	}
	return summary
}

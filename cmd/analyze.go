package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/export"
	"github.com/pable/go-tactics/internal/report"
)

const analyzeSystemPrompt = `You are a football tactics analyst. You are given a team's tactical
profile computed from its match records, once as JSON and once as the rendered
report, followed by a question from a coach or scout.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and concrete: lineups, formations and substitution timing.

Glossary:
- Role: Key player starts more than 80% of matches, Regular more than 50%,
  Rotation more than 20%, Fringe anything lower. Not played: listed but never on the pitch.
- Rating: provider match rating, 0-10. null means no rating was recorded.
- Form: mean rating over the player's last five rated appearances.
- Style: label derived from possession, goals and shots per game of a formation.
- Usage share: matches in the formation divided by all matches of the team.
- Entry minute: average minute a substitute came on; stoppage time is dropped.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-powered grounded analysis of a team profile (requires an Anthropic API key)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	addTeamFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default $TACTICS_ANTHROPIC_MODEL)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $TACTICS_ANTHROPIC_API_KEY or $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	p, err := buildProfile(teamFiles, teamName)
	if err != nil || p == nil {
		return err
	}

	contextText, err := buildProfileContext(p)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	apiKey, modelID := analyzeAPIKey, analyzeModel
	if apiKey == "" {
		apiKey = cfg.AnthropicAPIKey
	}
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), apiKey, modelID, contextText, question)
}

// buildProfileContext serialises the profile as compact JSON followed by the
// rendered report.
func buildProfileContext(p *aggregator.TacticalProfile) (string, error) {
	b, err := json.Marshal(export.Project(p))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nREPORT:\n%s", b, report.RenderReport(p)), nil
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, data, question string) error {
	if apiKey == "" {
		return errors.New("no API key: set TACTICS_ANTHROPIC_API_KEY or ANTHROPIC_API_KEY, or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", data, question)
	log.Debug().Str("model", modelID).Int("context_bytes", len(data)).Msg("calling anthropic")

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return errors.New("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/models"
	rollService "github.com/KirkDiggler/sealedroll/internal/services/roll"
	"github.com/bwmarrin/discordgo"
)

// renderRoll builds the embed for a roll. Sealed rolls show the commitment
// only; revealed rolls add the results.
func renderRoll(view *models.RollView) *discordgo.MessageEmbed {
	notation := fmt.Sprintf("%dd%d", view.NumDice, view.NumSides)

	title := notation
	if view.Label != "" {
		title = fmt.Sprintf("%s (%s)", view.Label, notation)
	}

	mode := "with replacement"
	if !view.WithReplacement {
		mode = "unique values"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Roll ID",
			Value:  "`" + view.ID + "`",
			Inline: true,
		},
		{
			Name:   "Mode",
			Value:  mode,
			Inline: true,
		},
	}

	if !view.IsRevealed {
		fields = append(fields,
			&discordgo.MessageEmbedField{
				Name:  "Commitment",
				Value: "`" + view.ResultsHash + "`",
			},
			&discordgo.MessageEmbedField{
				Name:  "Expires",
				Value: view.ExpiresAt,
			},
		)

		return &discordgo.MessageEmbed{
			Title:       "🔒 " + title,
			Description: "The dice are rolled and sealed. Nobody can see or change the results until they are revealed.",
			Color:       colorSealed,
			Fields:      fields,
		}
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name:  "Results",
		Value: formatResults(view.Results),
	})

	if view.ShowSum && view.Total != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Total",
			Value:  strconv.Itoa(*view.Total),
			Inline: true,
		})
	}

	fields = append(fields,
		&discordgo.MessageEmbedField{
			Name:   "Revealed",
			Value:  view.RevealedAt,
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:  "Commitment",
			Value: "`" + view.ResultsHash + "`",
		},
	)

	if view.Salt != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Salt",
			Value: "`" + view.Salt + "`",
		})
	}

	return &discordgo.MessageEmbed{
		Title:  "🎲 " + title,
		Color:  colorRevealed,
		Fields: fields,
	}
}

func formatResults(results []int) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = "**" + strconv.Itoa(r) + "**"
	}
	return strings.Join(parts, ", ")
}

// errorMessage turns a service error into something safe to show a user
func errorMessage(err error) string {
	var cfgErr dice.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	case errors.Is(err, rollService.ErrLabelTooLong):
		return fmt.Sprintf("Label must be at most %d characters.", models.MaxLabelLength)
	case errors.Is(err, rollService.ErrRollNotFound), errors.Is(err, rollService.ErrEmptyRollID):
		return "Roll not found. It may have expired."
	case errors.Is(err, rollService.ErrAlreadyRevealed):
		return "Roll already revealed."
	default:
		return "Something went wrong, please try again."
	}
}

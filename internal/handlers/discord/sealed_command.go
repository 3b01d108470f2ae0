package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/sealedroll/internal/dice"
	"github.com/KirkDiggler/sealedroll/internal/models"
	rollService "github.com/KirkDiggler/sealedroll/internal/services/roll"
	"github.com/bwmarrin/discordgo"
)

// ButtonRevealPrefix starts the custom ID of a reveal button; the roll ID follows
const ButtonRevealPrefix = "sealed_reveal:"

// Option names of the /sealed command
const (
	optionDice    = "dice"
	optionSides   = "sides"
	optionLabel   = "label"
	optionUnique  = "unique"
	optionHideSum = "hide-sum"
	optionID      = "id"
)

// SealedCommand handles the /sealed command
type SealedCommand struct {
	BaseCommand
	rollService rollService.Service
}

// NewSealedCommand creates a new sealed command handler
func NewSealedCommand(rollService rollService.Service) *SealedCommand {
	minDice := float64(dice.MinDice)

	sideChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(dice.Sides()))
	for _, sides := range dice.Sides() {
		sideChoices = append(sideChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("d%d", sides),
			Value: sides,
		})
	}

	idOption := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionID,
			Description: "Roll ID",
			Required:    true,
		},
	}

	return &SealedCommand{
		BaseCommand: BaseCommand{
			Name:        "sealed",
			Description: "Roll dice now, reveal the results later",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "roll",
					Description: "Roll and seal the results",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        optionDice,
							Description: "Number of dice",
							Required:    true,
							MinValue:    &minDice,
							MaxValue:    dice.MaxDice,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        optionSides,
							Description: "Die type",
							Required:    true,
							Choices:     sideChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        optionLabel,
							Description: "What the roll is for",
							MaxLength:   models.MaxLabelLength,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        optionUnique,
							Description: "No repeated values",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        optionHideSum,
							Description: "Do not show the total once revealed",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "peek",
					Description: "Show a roll without revealing it",
					Options:     idOption,
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reveal",
					Description: "Reveal a sealed roll to everyone",
					Options:     idOption,
				},
			},
		},
		rollService: rollService,
	}
}

// Handle processes a Discord interaction for the sealed command
func (c *SealedCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	sub := data.Options[0]
	switch sub.Name {
	case "roll":
		return c.handleRoll(s, i, sub.Options)
	case "peek":
		return c.handlePeek(s, i, stringOption(sub.Options, optionID))
	case "reveal":
		return c.handleReveal(s, i, stringOption(sub.Options, optionID))
	default:
		return errors.New("unknown subcommand")
	}
}

// handleRoll seals a new roll and posts it with a reveal button
func (c *SealedCommand) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	output, err := c.rollService.CreateRoll(context.Background(), createRollInput(options))
	if err != nil {
		log.Printf("[discord] error creating roll: %v", err)
		return RespondWithError(s, i, errorMessage(err))
	}

	return RespondWithEmbedAndButtons(s, i, renderRoll(output.Roll), []discordgo.MessageComponent{
		revealButton(output.Roll.ID),
	})
}

// handlePeek shows the roll only to the caller
func (c *SealedCommand) handlePeek(s *discordgo.Session, i *discordgo.InteractionCreate, rollID string) error {
	output, err := c.rollService.GetRoll(context.Background(), &rollService.GetRollInput{
		RollID: rollID,
	})
	if err != nil {
		return RespondWithError(s, i, errorMessage(err))
	}

	return RespondWithEmbed(s, i, renderRoll(output.Roll), true)
}

// handleReveal reveals the roll in the channel
func (c *SealedCommand) handleReveal(s *discordgo.Session, i *discordgo.InteractionCreate, rollID string) error {
	output, err := c.rollService.RevealRoll(context.Background(), &rollService.RevealRollInput{
		RollID: rollID,
	})
	if err != nil {
		return RespondWithError(s, i, errorMessage(err))
	}

	return RespondWithEmbed(s, i, renderRoll(output.Roll), false)
}

// handleRevealButton reveals the roll and swaps the sealed message for the result
func (c *SealedCommand) handleRevealButton(s *discordgo.Session, i *discordgo.InteractionCreate, rollID string) error {
	output, err := c.rollService.RevealRoll(context.Background(), &rollService.RevealRollInput{
		RollID: rollID,
	})
	if err != nil {
		return RespondWithError(s, i, errorMessage(err))
	}

	return UpdateWithEmbed(s, i, renderRoll(output.Roll))
}

// createRollInput maps the roll subcommand options. unique turns replacement
// off and hide-sum turns the total off.
func createRollInput(options []*discordgo.ApplicationCommandInteractionDataOption) *rollService.CreateRollInput {
	input := &rollService.CreateRollInput{
		ShowSum:         true,
		WithReplacement: true,
	}

	for _, opt := range options {
		switch opt.Name {
		case optionDice:
			input.NumDice = int(opt.IntValue())
		case optionSides:
			input.NumSides = int(opt.IntValue())
		case optionLabel:
			input.Label = opt.StringValue()
		case optionUnique:
			input.WithReplacement = !opt.BoolValue()
		case optionHideSum:
			input.ShowSum = !opt.BoolValue()
		}
	}

	return input
}

func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func revealButton(rollID string) discordgo.Button {
	return discordgo.Button{
		Label:    "Reveal",
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonRevealPrefix + rollID,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🎲",
		},
	}
}

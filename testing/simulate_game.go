package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/onepage/internal/adventure"
	"github.com/tatianab/onepage/internal/builder"
	"github.com/tatianab/onepage/internal/config"
	"github.com/tatianab/onepage/internal/engine"
	"github.com/tatianab/onepage/internal/models"
	"github.com/tatianab/onepage/internal/roll"
	"github.com/tatianab/onepage/internal/rules"
)

const (
	maxTurns    = 10
	travelEvery = 4
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatalf("GEMINI_API_KEY is required to simulate a player")
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// Initialize the Dungeon Master
	dm, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, engine.WithNarrationModel(cfg.GeminiModel))
	if err != nil {
		log.Fatalf("Failed to create DM engine: %v", err)
	}
	defer dm.Close()

	// Initialize the Player LLM
	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel(cfg.GeminiModel)

	// 1. Build a character
	fmt.Println("--- Step 1: Building a character ---")
	name := ask(ctx, playerModel, "You are about to play a fantasy adventure. Invent a name for your hero. Return ONLY the name.", "Hero")
	character, err := buildCharacter(name, logger)
	if err != nil {
		log.Fatalf("Failed to build character: %v", err)
	}
	printCharacter(character)

	// 2. Pick a setting
	fmt.Println("--- Step 2: Requesting a setting from the Player LLM ---")
	setting := ask(ctx, playerModel, "Provide a short, creative setting for a fantasy adventure (e.g., 'a drowned elven city', 'the frozen north'). Return ONLY the setting.", adventure.DefaultSetting)
	fmt.Printf("Player chose setting: %s\n\n", setting)

	session, err := adventure.New(&adventure.Config{
		Narrator:    dm,
		Roller:      dice.DefaultRoller,
		Logger:      logger,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	opening, err := session.Start(ctx, character, adventure.Params{Setting: setting})
	if err != nil {
		log.Fatalf("Failed to start adventure: %v", err)
	}
	fmt.Printf("DM: %s\n\n", opening)

	// 3. Play the game
	for turn := 1; turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d ---\n", turn)

		if turn%travelEvery == 0 {
			result, err := session.Travel(ctx)
			if err != nil {
				fmt.Printf("Error traveling: %v\n", err)
				break
			}
			fmt.Printf("Travel: %s\n", result.Prompt)
			fmt.Printf("DM: %s\n\n", result.Reply)
			continue
		}

		action := getPlayerAction(ctx, playerModel, character, session.Transcript())
		fmt.Printf("Player Action: %s\n", action)

		reply, err := session.SendTurn(ctx, action)
		if err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			break
		}
		fmt.Printf("DM: %s\n\n", reply)
	}
}

func buildCharacter(name string, logger *slog.Logger) (models.Character, error) {
	archetypes := rules.Default().Archetypes()
	pick, err := roll.Index(dice.DefaultRoller, len(archetypes))
	if err != nil {
		return models.Character{}, err
	}
	return builder.QuickBuild(&builder.Config{Roller: dice.DefaultRoller, Logger: logger}, archetypes[pick].ID, name)
}

func printCharacter(c models.Character) {
	fmt.Printf("Name: %s (%s)\n", c.Name, c.Archetype)
	for _, a := range rules.Abilities {
		fmt.Printf("  %s %d (%s)\n", a, c.Abilities[a], rules.FormatModifier(c.Modifier(a)))
	}
	fmt.Printf("HP %d, AC %d, Gold %d\n", c.MaxHP, c.ArmorClass(), c.Gold)
	fmt.Printf("Equipment: %s\n", strings.Join(c.Equipment(), ", "))
	if len(c.KnownSpells) > 0 {
		fmt.Printf("Spells: %s\n", strings.Join(c.SpellNames(), ", "))
	}
	fmt.Println()
}

func ask(ctx context.Context, model *genai.GenerativeModel, prompt, fallback string) string {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fallback
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok || strings.TrimSpace(string(text)) == "" {
		return fallback
	}
	return strings.TrimSpace(string(text))
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, c models.Character, transcript []models.ChatMessage) string {
	var history strings.Builder
	for _, msg := range transcript {
		fmt.Fprintf(&history, "%s: %s\n", msg.Role, msg.Content)
	}

	prompt := fmt.Sprintf(`You are playing a fantasy adventure as %s, a %s.
HP: %d/%d
Equipment: %s

History:
%s

What is your next action? Stay in character. Return ONLY the action, no extra commentary.`,
		c.Name,
		c.Archetype,
		c.CurrentHP, c.MaxHP,
		strings.Join(c.Equipment(), ", "),
		history.String(),
	)

	return ask(ctx, model, prompt, "look around")
}

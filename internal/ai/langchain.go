package ai

import (
	"context"
	"fmt"
	"strings"

	"fitagent/coaching-app/internal/config"
	"fitagent/coaching-app/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Recognized provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default models per provider, used when config leaves the model empty.
const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-1.5-flash"
)

// langchainGenerator implements Generator on top of a langchaingo model.
type langchainGenerator struct {
	model  llms.Model
	logger *log.Logger
}

// NewGenerator builds the configured LLM client. The provider choice is made
// exactly once here; callers only ever see the Generator interface.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	model, err := newModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize %q provider: %w", cfg.Provider, err)
	}
	return &langchainGenerator{
		model:  model,
		logger: log.Default().With("component", "ai"),
	}, nil
}

func newModel(ctx context.Context, cfg config.AIConfig) (llms.Model, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		modelName := cfg.Model
		if modelName == "" {
			modelName = defaultOpenAIModel
		}
		opts := []openai.Option{openai.WithModel(modelName)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		return openai.New(opts...)
	case ProviderGemini:
		modelName := cfg.Model
		if modelName == "" {
			modelName = defaultGeminiModel
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(modelName),
		)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %q", cfg.Provider)
	}
}

// GenerateWorkout asks the model for a one-week workout plan and maps the
// response into domain sessions.
func (g *langchainGenerator) GenerateWorkout(ctx context.Context, profile *domain.UserProfile) ([]domain.WorkoutSession, error) {
	doc, err := g.generate(ctx, workoutPrompt(profile))
	if err != nil {
		return nil, err
	}
	return MapWorkoutSessions(doc), nil
}

// GenerateNutrition asks the model for a one-week meal plan and maps the
// response into domain daily plans.
func (g *langchainGenerator) GenerateNutrition(ctx context.Context, profile *domain.UserProfile) ([]domain.DailyMealPlan, error) {
	doc, err := g.generate(ctx, nutritionPrompt(profile))
	if err != nil {
		return nil, err
	}
	return MapDailyMealPlans(doc), nil
}

// generate runs one completion and extracts its JSON document. Each call gets
// a trace ID so provider failures can be correlated in the logs.
func (g *langchainGenerator) generate(ctx context.Context, prompt string) (gjson.Result, error) {
	traceID := uuid.NewString()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0.7))
	if err != nil {
		g.logger.Error("provider call failed", "trace", traceID, "err", err)
		return gjson.Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	doc, ok := ExtractJSON(raw)
	if !ok {
		g.logger.Error("provider returned unparseable content", "trace", traceID)
		return gjson.Result{}, fmt.Errorf("%w: response is not valid JSON", ErrGenerationFailed)
	}
	return doc, nil
}

func workoutPrompt(profile *domain.UserProfile) string {
	return fmt.Sprintf(`Act as a professional fitness coach. Generate a 1-week workout plan for a user with the following profile:
- Age: %d
- Gender: %s
- Goal: %s
- Activity Level: %s
- Injuries: %s

Return ONLY valid JSON (no markdown formatting) with the following structure:
{
  "sessions": [
    {
      "day": "Monday",
      "focus": "Upper Body",
      "exercises": [
        {
          "name": "Exercise Name",
          "description": "Brief description",
          "sets": 3,
          "reps": "10-12",
          "rest_time": "60s",
          "video_url": "optional_url"
        }
      ]
    }
  ]
}`, profile.Age, profile.Gender, profile.Goal, profile.ActivityLevel, listOrNone(profile.Injuries))
}

func nutritionPrompt(profile *domain.UserProfile) string {
	return fmt.Sprintf(`Act as a professional nutritionist. Generate a 1-week meal plan for a user with the following profile:
- Age: %d
- Gender: %s
- Goal: %s
- Activity Level: %s
- Dietary Restrictions: %s

Return ONLY valid JSON (no markdown formatting) with the following structure:
{
  "daily_plans": [
    {
      "day": "Monday",
      "meals": [
        {
          "name": "Breakfast",
          "description": "Oatmeal with fruits",
          "calories": 400,
          "protein": 15,
          "carbs": 60,
          "fats": 10,
          "ingredients": ["oats", "milk", "banana"]
        }
      ]
    }
  ]
}`, profile.Age, profile.Gender, profile.Goal, profile.ActivityLevel, listOrNone(profile.DietaryRestrictions))
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

package ai

import (
	"strings"

	"fitagent/coaching-app/internal/domain"

	"github.com/tidwall/gjson"
)

// Defaults applied when the provider omits a field. The mapping is total:
// any JSON document maps to valid domain content without erroring.
const (
	defaultExerciseName = "Unknown Exercise"
	defaultMealName     = "Unknown Meal"
	defaultDay          = "Unknown Day"
	defaultFocus        = "General"
)

// ExtractJSON strips markdown code fences some providers wrap around their
// output and returns the parsed document. ok is false when no valid JSON
// object remains.
func ExtractJSON(raw string) (gjson.Result, bool) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if !gjson.Valid(cleaned) {
		return gjson.Result{}, false
	}
	return gjson.Parse(cleaned), true
}

// MapWorkoutSessions maps a loose AI document to workout sessions.
// Expected shape: {"sessions": [{"day", "focus", "exercises": [...]}]}.
// Missing keys yield defaults, never errors.
func MapWorkoutSessions(doc gjson.Result) []domain.WorkoutSession {
	sessions := []domain.WorkoutSession{}
	for _, s := range doc.Get("sessions").Array() {
		session := domain.WorkoutSession{
			Day:       stringOr(s.Get("day"), defaultDay),
			Focus:     stringOr(s.Get("focus"), defaultFocus),
			Exercises: []domain.Exercise{},
		}
		for _, e := range s.Get("exercises").Array() {
			session.Exercises = append(session.Exercises, domain.Exercise{
				Name:        stringOr(e.Get("name"), defaultExerciseName),
				Description: e.Get("description").String(),
				Sets:        int(e.Get("sets").Int()),
				Reps:        e.Get("reps").String(),
				RestTime:    e.Get("rest_time").String(),
				VideoURL:    e.Get("video_url").String(),
			})
		}
		sessions = append(sessions, session)
	}
	return sessions
}

// MapDailyMealPlans maps a loose AI document to daily meal plans.
// Expected shape: {"daily_plans": [{"day", "meals": [...]}]}.
func MapDailyMealPlans(doc gjson.Result) []domain.DailyMealPlan {
	dailyPlans := []domain.DailyMealPlan{}
	for _, d := range doc.Get("daily_plans").Array() {
		daily := domain.DailyMealPlan{
			Day:   stringOr(d.Get("day"), defaultDay),
			Meals: []domain.Meal{},
		}
		for _, m := range d.Get("meals").Array() {
			daily.Meals = append(daily.Meals, domain.Meal{
				Name:        stringOr(m.Get("name"), defaultMealName),
				Description: m.Get("description").String(),
				Calories:    int(m.Get("calories").Int()),
				Protein:     int(m.Get("protein").Int()),
				Carbs:       int(m.Get("carbs").Int()),
				Fats:        int(m.Get("fats").Int()),
				Ingredients: stringSlice(m.Get("ingredients")),
			})
		}
		dailyPlans = append(dailyPlans, daily)
	}
	return dailyPlans
}

func stringOr(r gjson.Result, fallback string) string {
	if !r.Exists() || r.String() == "" {
		return fallback
	}
	return r.String()
}

func stringSlice(r gjson.Result) []string {
	values := []string{}
	for _, v := range r.Array() {
		values = append(values, v.String())
	}
	return values
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType distinguishes the two structurally parallel plan kinds.
type PlanType string

const (
	PlanTypeWorkout   PlanType = "workout"
	PlanTypeNutrition PlanType = "nutrition"
)

// PlanState is the lifecycle state of a plan.
type PlanState string

const (
	PlanStateDraft       PlanState = "draft"        // Created by client or AI, not yet reviewed
	PlanStateUnderReview PlanState = "under_review" // Professional is reviewing
	PlanStateApproved    PlanState = "approved"     // Approved by professional, ready to activate
	PlanStateActive      PlanState = "active"       // Currently followed by the client
	PlanStateCompleted   PlanState = "completed"    // Plan period finished
	PlanStateArchived    PlanState = "archived"     // Superseded by another activated plan
)

// Plan is the lifecycle capability shared by WorkoutPlan and NutritionPlan.
// It is what the generic plan repository and the lifecycle service operate on;
// content-specific fields stay on the concrete types.
type Plan interface {
	PlanID() primitive.ObjectID
	SetPlanID(id primitive.ObjectID)
	OwnerID() primitive.ObjectID
	Type() PlanType
	State() PlanState
	SetState(state PlanState)
}

// Exercise is a single exercise within a workout session.
type Exercise struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Sets        int    `bson:"sets" json:"sets"`
	Reps        string `bson:"reps" json:"reps"`         // e.g., "10-12"
	RestTime    string `bson:"restTime" json:"restTime"` // e.g., "60s"
	VideoURL    string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
}

// WorkoutSession is one day's training within a workout plan.
type WorkoutSession struct {
	Day       string     `bson:"day" json:"day"`     // e.g., "Monday"
	Focus     string     `bson:"focus" json:"focus"` // e.g., "Upper Body"
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// WorkoutPlan is a dated, stateful sequence of workout sessions owned by a client.
type WorkoutPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	Sessions  []WorkoutSession   `bson:"sessions" json:"sessions"`

	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	CreatedBy  primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	ModifiedAt *time.Time          `bson:"modifiedAt,omitempty" json:"modifiedAt,omitempty"`
	ModifiedBy *primitive.ObjectID `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`

	PlanState PlanState `bson:"state" json:"state"`
}

func (p *WorkoutPlan) PlanID() primitive.ObjectID      { return p.ID }
func (p *WorkoutPlan) SetPlanID(id primitive.ObjectID) { p.ID = id }
func (p *WorkoutPlan) OwnerID() primitive.ObjectID     { return p.UserID }
func (p *WorkoutPlan) Type() PlanType                  { return PlanTypeWorkout }
func (p *WorkoutPlan) State() PlanState                { return p.PlanState }
func (p *WorkoutPlan) SetState(state PlanState)        { p.PlanState = state }

// Meal is a single meal within a daily meal plan.
type Meal struct {
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Calories    int      `bson:"calories" json:"calories"`
	Protein     int      `bson:"protein" json:"protein"`
	Carbs       int      `bson:"carbs" json:"carbs"`
	Fats        int      `bson:"fats" json:"fats"`
	Ingredients []string `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
}

// DailyMealPlan is one day's meals within a nutrition plan.
type DailyMealPlan struct {
	Day   string `bson:"day" json:"day"`
	Meals []Meal `bson:"meals" json:"meals"`
}

// NutritionPlan is a dated, stateful sequence of daily meal plans owned by a client.
type NutritionPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	StartDate  time.Time          `bson:"startDate" json:"startDate"`
	EndDate    time.Time          `bson:"endDate" json:"endDate"`
	DailyPlans []DailyMealPlan    `bson:"dailyPlans" json:"dailyPlans"`

	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	CreatedBy  primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	ModifiedAt *time.Time          `bson:"modifiedAt,omitempty" json:"modifiedAt,omitempty"`
	ModifiedBy *primitive.ObjectID `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`

	PlanState PlanState `bson:"state" json:"state"`
}

func (p *NutritionPlan) PlanID() primitive.ObjectID      { return p.ID }
func (p *NutritionPlan) SetPlanID(id primitive.ObjectID) { p.ID = id }
func (p *NutritionPlan) OwnerID() primitive.ObjectID     { return p.UserID }
func (p *NutritionPlan) Type() PlanType                  { return PlanTypeNutrition }
func (p *NutritionPlan) State() PlanState                { return p.PlanState }
func (p *NutritionPlan) SetState(state PlanState)        { p.PlanState = state }

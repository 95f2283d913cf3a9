package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for the closed role set
const (
	RoleClient       Role = "client"
	RoleTrainer      Role = "trainer"
	RoleNutritionist Role = "nutritionist"
	RoleAdmin        Role = "admin"
)

// AllRoles is the closed set of valid roles.
var AllRoles = []Role{RoleClient, RoleTrainer, RoleNutritionist, RoleAdmin}

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Goal is a fitness goal a client is working towards.
type Goal string

const (
	GoalWeightLoss       Goal = "weight_loss"
	GoalMuscleGain       Goal = "muscle_gain"
	GoalMaintenance      Goal = "maintenance"
	GoalImproveEndurance Goal = "improve_endurance"
)

// ActivityLevel describes a client's baseline activity.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
)

// UserProfile holds the data required for AI plan generation.
// A user without a profile cannot have plans generated.
type UserProfile struct {
	Age                 int           `bson:"age" json:"age"`
	Weight              float64       `bson:"weight" json:"weight"` // kg
	Height              float64       `bson:"height" json:"height"` // cm
	Gender              string        `bson:"gender" json:"gender"`
	Goal                Goal          `bson:"goal" json:"goal"`
	ActivityLevel       ActivityLevel `bson:"activityLevel" json:"activityLevel"`
	DietaryRestrictions []string      `bson:"dietaryRestrictions,omitempty" json:"dietaryRestrictions,omitempty"`
	Injuries            []string      `bson:"injuries,omitempty" json:"injuries,omitempty"`
}

// User represents any account in the system. The role set is never empty;
// newly registered users start as clients.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	Roles        []Role             `bson:"roles" json:"roles"`
	Profile      *UserProfile       `bson:"profile,omitempty" json:"profile,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Weak back-references to the professionals assigned to this client.
	// No reciprocal list is kept on the professional side.
	TrainerID      *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	NutritionistID *primitive.ObjectID `bson:"nutritionistId,omitempty" json:"nutritionistId,omitempty"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsProfessional reports whether the user holds the trainer or nutritionist role.
func (u *User) IsProfessional() bool {
	return u.HasRole(RoleTrainer) || u.HasRole(RoleNutritionist)
}

// HasCompleteProfile reports whether the user can have plans generated.
func (u *User) HasCompleteProfile() bool {
	return u.Profile != nil
}

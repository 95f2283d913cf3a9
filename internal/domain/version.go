package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanVersion is an immutable snapshot of a plan taken immediately before a
// mutating edit. Versions are append-only: never updated, never deleted.
type PlanVersion struct {
	// ID is derived from the plan ID and version number ("<planHex>_v<n>")
	// to keep snapshots easy to trace and idempotent to re-insert.
	ID             string             `bson:"_id" json:"id"`
	PlanID         primitive.ObjectID `bson:"planId" json:"planId"`
	PlanType       PlanType           `bson:"planType" json:"planType"`
	VersionNumber  int                `bson:"versionNumber" json:"versionNumber"` // per plan, starting at 1
	CreatedBy      primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	ChangesSummary string             `bson:"changesSummary" json:"changesSummary"`
	DataSnapshot   string             `bson:"dataSnapshot" json:"dataSnapshot"` // full plan JSON, RFC 3339 dates
	StateAtVersion PlanState          `bson:"stateAtVersion" json:"stateAtVersion"`
}

// VersionID builds the deterministic version document ID.
func VersionID(planID primitive.ObjectID, number int) string {
	return fmt.Sprintf("%s_v%d", planID.Hex(), number)
}

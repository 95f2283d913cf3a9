package service_test

import (
	"context"
	"errors"
	"sort"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes shared by the service tests.

// --- Users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) add(user *domain.User) *domain.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	copied := *user
	r.add(&copied)
	return copied.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.HasRole(role) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) GetClientsByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.TrainerID != nil && *user.TrainerID == trainerID {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetClientsByNutritionist(_ context.Context, nutritionistID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.NutritionistID != nil && *user.NutritionistID == nutritionistID {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

// --- Plans ---

// fakePlanRepo keeps insertion order so GetCurrentPlan can mirror the
// "most recently created" query of the real repository.
type fakePlanRepo[P domain.Plan] struct {
	plans     []P
	updateErr error
}

func (r *fakePlanRepo[P]) Create(_ context.Context, plan P) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	plan.SetPlanID(id)
	r.plans = append(r.plans, plan)
	return id, nil
}

func (r *fakePlanRepo[P]) GetByID(_ context.Context, id primitive.ObjectID) (P, error) {
	var zero P
	for _, plan := range r.plans {
		if plan.PlanID() == id {
			return plan, nil
		}
	}
	return zero, repository.ErrNotFound
}

func (r *fakePlanRepo[P]) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]P, error) {
	var out []P
	for _, plan := range r.plans {
		if plan.OwnerID() == userID {
			out = append(out, plan)
		}
	}
	return out, nil
}

func (r *fakePlanRepo[P]) GetCurrentPlan(_ context.Context, userID primitive.ObjectID) (P, error) {
	var zero P
	for i := len(r.plans) - 1; i >= 0; i-- {
		if r.plans[i].OwnerID() == userID {
			return r.plans[i], nil
		}
	}
	return zero, repository.ErrNotFound
}

func (r *fakePlanRepo[P]) Update(_ context.Context, plan P) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.plans {
		if r.plans[i].PlanID() == plan.PlanID() {
			r.plans[i] = plan
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Versions ---

type fakeVersionRepo struct {
	versions  []domain.PlanVersion
	createErr error
}

func (r *fakeVersionRepo) Create(_ context.Context, version *domain.PlanVersion) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, v := range r.versions {
		if v.PlanID == version.PlanID && v.VersionNumber == version.VersionNumber {
			return repository.ErrConflict
		}
	}
	r.versions = append(r.versions, *version)
	return nil
}

func (r *fakeVersionRepo) GetByID(_ context.Context, id string) (*domain.PlanVersion, error) {
	for _, v := range r.versions {
		if v.ID == id {
			copied := v
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVersionRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanVersion, error) {
	var out []domain.PlanVersion
	for _, v := range r.versions {
		if v.PlanID == planID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

// --- Comments ---

type fakeCommentRepo struct {
	comments []domain.PlanComment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.PlanComment) (primitive.ObjectID, error) {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	r.comments = append(r.comments, *comment)
	return comment.ID, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanComment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCommentRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.PlanComment, error) {
	var out []domain.PlanComment
	for _, c := range r.comments {
		if c.PlanID == planID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- Notifications ---

type fakeNotificationRepo struct {
	notifications []domain.Notification
	createErr     error
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	r.notifications = append(r.notifications, *notification)
	return notification.ID, nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			copied := n
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNotificationRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID primitive.ObjectID) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

// ofType filters recorded notifications by type for assertions.
func (r *fakeNotificationRepo) ofType(t domain.NotificationType) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// --- AI Generator ---

type fakeGenerator struct {
	sessions   []domain.WorkoutSession
	dailyPlans []domain.DailyMealPlan
	err        error
}

func (g *fakeGenerator) GenerateWorkout(_ context.Context, _ *domain.UserProfile) ([]domain.WorkoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.sessions, nil
}

func (g *fakeGenerator) GenerateNutrition(_ context.Context, _ *domain.UserProfile) ([]domain.DailyMealPlan, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.dailyPlans, nil
}

var errRepoDown = errors.New("repository unavailable")

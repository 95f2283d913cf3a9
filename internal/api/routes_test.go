package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitagent/coaching-app/internal/api"
	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stubs embed the service interfaces so only the methods a route actually
// reaches need an implementation; anything else panics and fails the test.

type stubPlanningService struct {
	service.PlanningService
	workoutPlan   *domain.WorkoutPlan
	nutritionPlan *domain.NutritionPlan
}

func (s *stubPlanningService) GetWorkoutPlan(_ context.Context, _ primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.workoutPlan, nil
}

func (s *stubPlanningService) UpdateWorkoutPlan(_ context.Context, _ primitive.ObjectID, _, _ time.Time, _ []domain.WorkoutSession, _ primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.workoutPlan, nil
}

func (s *stubPlanningService) GetNutritionPlan(_ context.Context, _ primitive.ObjectID) (*domain.NutritionPlan, error) {
	return s.nutritionPlan, nil
}

func (s *stubPlanningService) UpdateNutritionPlan(_ context.Context, _ primitive.ObjectID, _, _ time.Time, _ []domain.DailyMealPlan, _ primitive.ObjectID) (*domain.NutritionPlan, error) {
	return s.nutritionPlan, nil
}

type stubRoleService struct {
	service.RoleService
	clients                []domain.User
	trainerAssignments     int
	nutritionistAssignments int
}

func (s *stubRoleService) GetMyClients(_ context.Context, _ primitive.ObjectID) ([]domain.User, error) {
	return s.clients, nil
}

func (s *stubRoleService) AssignTrainer(_ context.Context, clientID, trainerID primitive.ObjectID) (*domain.User, error) {
	s.trainerAssignments++
	return &domain.User{ID: clientID, Roles: []domain.Role{domain.RoleClient}, TrainerID: &trainerID}, nil
}

func (s *stubRoleService) AssignNutritionist(_ context.Context, clientID, nutritionistID primitive.ObjectID) (*domain.User, error) {
	s.nutritionistAssignments++
	return &domain.User{ID: clientID, Roles: []domain.Role{domain.RoleClient}, NutritionistID: &nutritionistID}, nil
}

type stubNotificationService struct {
	service.NotificationService
	sent []domain.NotificationType
}

func (s *stubNotificationService) CreateNotification(_ context.Context, userID primitive.ObjectID, nType domain.NotificationType, title, message, relatedEntityType, relatedEntityID string) (*domain.Notification, error) {
	s.sent = append(s.sent, nType)
	return &domain.Notification{ID: primitive.NewObjectID(), UserID: userID, Type: nType}, nil
}

type routesFixture struct {
	router        *gin.Engine
	clientID      primitive.ObjectID
	planning      *stubPlanningService
	roles         *stubRoleService
	notifications *stubNotificationService
}

func newRoutesFixture() *routesFixture {
	gin.SetMode(gin.TestMode)

	clientID := primitive.NewObjectID()
	f := &routesFixture{
		clientID: clientID,
		planning: &stubPlanningService{
			workoutPlan:   &domain.WorkoutPlan{ID: primitive.NewObjectID(), UserID: clientID, PlanState: domain.PlanStateDraft},
			nutritionPlan: &domain.NutritionPlan{ID: primitive.NewObjectID(), UserID: clientID, PlanState: domain.PlanStateDraft},
		},
		roles: &stubRoleService{
			clients: []domain.User{{ID: clientID, Username: "client", Roles: []domain.Role{domain.RoleClient}}},
		},
		notifications: &stubNotificationService{},
	}

	f.router = gin.New()
	api.SetupRoutes(f.router, testSecret, log.New(io.Discard),
		nil, nil, f.planning, nil, nil, f.notifications, f.roles)
	return f
}

func (f *routesFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

const workoutUpdateBody = `{"startDate":"2026-09-01T00:00:00Z","endDate":"2026-09-29T00:00:00Z","sessions":[{"day":"Monday","focus":"Push","exercises":[]}]}`
const nutritionUpdateBody = `{"startDate":"2026-09-01T00:00:00Z","endDate":"2026-09-29T00:00:00Z","dailyPlans":[{"day":"Monday","meals":[]}]}`

func TestProfessionalRouteSpecialtyGates(t *testing.T) {
	proID := primitive.NewObjectID().Hex()

	t.Run("Should refuse a nutritionist on workout plan routes", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleNutritionist}, time.Hour)

		w := f.do(http.MethodPut, "/api/v1/workout-plans/"+f.planning.workoutPlan.ID.Hex(), token, workoutUpdateBody)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = f.do(http.MethodPost, "/api/v1/clients/"+f.clientID.Hex()+"/workout-plan", token, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should refuse a trainer on nutrition plan routes", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleTrainer}, time.Hour)

		w := f.do(http.MethodPut, "/api/v1/nutrition-plans/"+f.planning.nutritionPlan.ID.Hex(), token, nutritionUpdateBody)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = f.do(http.MethodPost, "/api/v1/clients/"+f.clientID.Hex()+"/nutrition-plan", token, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should admit a trainer on workout plan routes", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleTrainer}, time.Hour)

		w := f.do(http.MethodPut, "/api/v1/workout-plans/"+f.planning.workoutPlan.ID.Hex(), token, workoutUpdateBody)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should admit a nutritionist on nutrition plan routes", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleNutritionist}, time.Hour)

		w := f.do(http.MethodPut, "/api/v1/nutrition-plans/"+f.planning.nutritionPlan.ID.Hex(), token, nutritionUpdateBody)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should admit an admin on both specialties", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleAdmin}, time.Hour)

		w := f.do(http.MethodGet, "/api/v1/workout-plans/"+f.planning.workoutPlan.ID.Hex(), token, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = f.do(http.MethodGet, "/api/v1/nutrition-plans/"+f.planning.nutritionPlan.ID.Hex(), token, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAssignClientCapacity(t *testing.T) {
	proID := primitive.NewObjectID().Hex()

	t.Run("Should let a dual-role professional assign as nutritionist", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleTrainer, domain.RoleNutritionist}, time.Hour)

		w := f.do(http.MethodPost, "/api/v1/clients/"+f.clientID.Hex()+"/assign?role=nutritionist", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, f.roles.trainerAssignments)
		assert.Equal(t, 1, f.roles.nutritionistAssignments)
		assert.Equal(t, []domain.NotificationType{domain.NotificationNutritionistAssigned}, f.notifications.sent)
	})

	t.Run("Should default a dual-role professional to the trainer capacity", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleTrainer, domain.RoleNutritionist}, time.Hour)

		w := f.do(http.MethodPost, "/api/v1/clients/"+f.clientID.Hex()+"/assign", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, f.roles.trainerAssignments)
		assert.Equal(t, 0, f.roles.nutritionistAssignments)
		assert.Equal(t, []domain.NotificationType{domain.NotificationTrainerAssigned}, f.notifications.sent)
	})

	t.Run("Should default a nutritionist to the nutritionist capacity", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleNutritionist}, time.Hour)

		w := f.do(http.MethodPost, "/api/v1/clients/"+f.clientID.Hex()+"/assign", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, f.roles.nutritionistAssignments)
	})

	t.Run("Should reject an unknown capacity", func(t *testing.T) {
		f := newRoutesFixture()
		token := signToken(t, proID, []domain.Role{domain.RoleTrainer, domain.RoleNutritionist}, time.Hour)

		w := f.do(http.MethodPost, "/api/v1/clients/"+f.clientID.Hex()+"/assign?role=admin", token, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, f.roles.trainerAssignments)
		assert.Equal(t, 0, f.roles.nutritionistAssignments)
	})
}

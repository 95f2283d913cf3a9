package service

import (
	"context"
	"errors"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAdminOnly        = errors.New("only admins can perform this action")
	ErrInvalidRole      = errors.New("invalid role")
	ErrLastRole         = errors.New("user must have at least one role")
	ErrNotATrainer      = errors.New("user is not a trainer")
	ErrNotANutritionist = errors.New("user is not a nutritionist")
)

// --- Service Interface ---
type RoleService interface {
	AssignRole(ctx context.Context, adminID, userID primitive.ObjectID, role domain.Role) (*domain.User, error)
	RemoveRole(ctx context.Context, adminID, userID primitive.ObjectID, role domain.Role) (*domain.User, error)
	AssignTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) (*domain.User, error)
	AssignNutritionist(ctx context.Context, clientID, nutritionistID primitive.ObjectID) (*domain.User, error)
	GetMyClients(ctx context.Context, professionalID primitive.ObjectID) ([]domain.User, error)
	GetUsersByRole(ctx context.Context, adminID primitive.ObjectID, role domain.Role) ([]domain.User, error)
	GetAllUsers(ctx context.Context, adminID primitive.ObjectID) ([]domain.User, error)
}

// --- Service Implementation ---

type roleService struct {
	userRepo repository.UserRepository
}

// NewRoleService creates a new instance of roleService.
func NewRoleService(userRepo repository.UserRepository) RoleService {
	return &roleService{userRepo: userRepo}
}

// requireAdmin loads the caller and verifies they hold the admin role.
func (s *roleService) requireAdmin(ctx context.Context, adminID primitive.ObjectID) error {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminOnly
		}
		return err
	}
	if !admin.HasRole(domain.RoleAdmin) {
		return ErrAdminOnly
	}
	return nil
}

// AssignRole adds a role to a user. Adding a role the user already holds is
// not an error.
func (s *roleService) AssignRole(ctx context.Context, adminID, userID primitive.ObjectID, role domain.Role) (*domain.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if !user.HasRole(role) {
		user.Roles = append(user.Roles, role)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// RemoveRole removes a role from a user, refusing to remove the last one:
// the role set is never empty.
func (s *roleService) RemoveRole(ctx context.Context, adminID, userID primitive.ObjectID, role domain.Role) (*domain.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.HasRole(role) {
		if len(user.Roles) <= 1 {
			return nil, ErrLastRole
		}
		remaining := make([]domain.Role, 0, len(user.Roles)-1)
		for _, r := range user.Roles {
			if r != role {
				remaining = append(remaining, r)
			}
		}
		user.Roles = remaining
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// AssignTrainer sets the trainer back-reference on a client. Only the client
// record changes; the trainer's client list is derived by query.
func (s *roleService) AssignTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) (*domain.User, error) {
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !trainer.HasRole(domain.RoleTrainer) {
		return nil, ErrNotATrainer
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	client.TrainerID = &trainerID
	if err := s.userRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// AssignNutritionist sets the nutritionist back-reference on a client.
func (s *roleService) AssignNutritionist(ctx context.Context, clientID, nutritionistID primitive.ObjectID) (*domain.User, error) {
	nutritionist, err := s.userRepo.GetByID(ctx, nutritionistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !nutritionist.HasRole(domain.RoleNutritionist) {
		return nil, ErrNotANutritionist
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	client.NutritionistID = &nutritionistID
	if err := s.userRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetMyClients unions the clients linked to the professional through either
// back-reference. A user holding both roles sees each client once.
func (s *roleService) GetMyClients(ctx context.Context, professionalID primitive.ObjectID) ([]domain.User, error) {
	professional, err := s.userRepo.GetByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.User{}, nil
		}
		return nil, err
	}

	clients := []domain.User{}
	seen := map[primitive.ObjectID]bool{}

	if professional.HasRole(domain.RoleTrainer) {
		trainerClients, err := s.userRepo.GetClientsByTrainer(ctx, professionalID)
		if err != nil {
			return nil, err
		}
		for _, c := range trainerClients {
			if !seen[c.ID] {
				seen[c.ID] = true
				clients = append(clients, c)
			}
		}
	}

	if professional.HasRole(domain.RoleNutritionist) {
		nutritionistClients, err := s.userRepo.GetClientsByNutritionist(ctx, professionalID)
		if err != nil {
			return nil, err
		}
		for _, c := range nutritionistClients {
			if !seen[c.ID] {
				seen[c.ID] = true
				clients = append(clients, c)
			}
		}
	}

	return clients, nil
}

// GetUsersByRole lists users holding a role. Admin-gated.
func (s *roleService) GetUsersByRole(ctx context.Context, adminID primitive.ObjectID, role domain.Role) ([]domain.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	return s.userRepo.GetByRole(ctx, role)
}

// GetAllUsers lists every user. Admin-gated.
func (s *roleService) GetAllUsers(ctx context.Context, adminID primitive.ObjectID) ([]domain.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll(ctx)
}

package service

import (
	"context"
	"errors"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCommentAccessDenied = errors.New("only the author can delete this comment")
)

// --- Service Interface ---
type CommentService interface {
	// AddComment persists a comment. The caller must have already verified the
	// author's relationship to the plan; no authorization happens here.
	AddComment(ctx context.Context, planID primitive.ObjectID, planType domain.PlanType, authorID primitive.ObjectID, authorRole domain.Role, content string, isInternal bool) (*domain.PlanComment, error)
	// GetPlanComments returns a plan's comments, hiding internal ones from clients.
	GetPlanComments(ctx context.Context, planID primitive.ObjectID, viewerRole domain.Role) ([]domain.PlanComment, error)
	// DeleteComment removes a comment. Returns (false, nil) when the comment
	// does not exist; ErrCommentAccessDenied when the requester is not the
	// author. Not even admins may delete another author's comment.
	DeleteComment(ctx context.Context, commentID, requesterID primitive.ObjectID) (bool, error)
}

// --- Service Implementation ---

type commentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new instance of commentService.
func NewCommentService(commentRepo repository.CommentRepository) CommentService {
	return &commentService{commentRepo: commentRepo}
}

// AddComment creates and persists a comment on a plan.
func (s *commentService) AddComment(ctx context.Context, planID primitive.ObjectID, planType domain.PlanType, authorID primitive.ObjectID, authorRole domain.Role, content string, isInternal bool) (*domain.PlanComment, error) {
	if content == "" {
		return nil, errors.New("comment content cannot be empty")
	}

	comment := &domain.PlanComment{
		PlanID:     planID,
		PlanType:   planType,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		IsInternal: isInternal,
	}

	id, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id
	return comment, nil
}

// GetPlanComments returns all comments for the plan. Clients never see
// internal comments, regardless of what the store holds.
func (s *commentService) GetPlanComments(ctx context.Context, planID primitive.ObjectID, viewerRole domain.Role) ([]domain.PlanComment, error) {
	comments, err := s.commentRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if viewerRole != domain.RoleClient {
		return comments, nil
	}

	visible := []domain.PlanComment{}
	for _, c := range comments {
		if !c.IsInternal {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// DeleteComment deletes the requester's own comment.
func (s *commentService) DeleteComment(ctx context.Context, commentID, requesterID primitive.ObjectID) (bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if comment.AuthorID != requesterID {
		return false, ErrCommentAccessDenied
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted between the fetch and the delete; same outcome.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"worksync/internal/events"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/worksync"
)

type CreateSuggestionInput struct {
	Suggestion  string `json:"suggestion" binding:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
	Comments    string `json:"comments"`
}

// UpdateSuggestionInput replaces the editable fields. A null completed_at reopens the suggestion.
type UpdateSuggestionInput struct {
	ID          uint    `json:"id" binding:"required"`
	Suggestion  string  `json:"suggestion" binding:"required"`
	IsAnonymous bool    `json:"is_anonymous"`
	Comments    string  `json:"comments"`
	CompletedAt *string `json:"completed_at"`
}

type SuggestionService interface {
	ListAll(ctx context.Context, actor Actor) ([]worksync.ServerSuggestion, error)
	Create(ctx context.Context, actor Actor, in CreateSuggestionInput) (worksync.ServerSuggestion, error)
	Update(ctx context.Context, actor Actor, in UpdateSuggestionInput) (worksync.ServerSuggestion, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type suggestionService struct {
	suggestionRepo repository.SuggestionRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	events         events.Publisher
}

func NewSuggestionService(
	suggestionRepo repository.SuggestionRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher events.Publisher,
) SuggestionService {
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		events:         publisher,
	}
}

func (s *suggestionService) ListAll(ctx context.Context, actor Actor) ([]worksync.ServerSuggestion, error) {
	suggestions, err := s.suggestionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	res := make([]worksync.ServerSuggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		out := toServerSuggestion(sg)
		if !actor.IsAdmin() && sg.UserID != actor.ID {
			out = maskSuggestion(out)
		}
		res = append(res, out)
	}
	return res, nil
}

func (s *suggestionService) Create(ctx context.Context, actor Actor, in CreateSuggestionInput) (worksync.ServerSuggestion, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return worksync.ServerSuggestion{}, notFound(err, ErrUserNotFound, "user")
	}

	sg := model.Suggestion{
		UserID:      user.ID,
		UserName:    user.DisplayName(),
		IsAnonymous: in.IsAnonymous,
		Suggestion:  in.Suggestion,
		Comments:    in.Comments,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.suggestionRepo.Create(txCtx, &sg); err != nil {
			return fmt.Errorf("failed to create suggestion: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionCreateSuggestion, events.EntitySuggestion, sg.ID, "", in)
	})
	if err != nil {
		return worksync.ServerSuggestion{}, err
	}

	out := toServerSuggestion(sg)
	s.publish(ctx, events.ActionCreated, actor, out)
	return out, nil
}

func (s *suggestionService) Update(ctx context.Context, actor Actor, in UpdateSuggestionInput) (worksync.ServerSuggestion, error) {
	completedAt, err := parseCompletedAt(in.CompletedAt)
	if err != nil {
		return worksync.ServerSuggestion{}, err
	}

	var updated model.Suggestion
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sg, err := s.suggestionRepo.FindByID(txCtx, in.ID)
		if err != nil {
			return notFound(err, ErrSuggestionNotFound, "suggestion")
		}
		completionChanged := !sameTime(sg.CompletedAt, completedAt)
		if !actor.IsAdmin() {
			if sg.UserID != actor.ID {
				return fmt.Errorf("%w: not your suggestion", ErrForbidden)
			}
			if completionChanged {
				return fmt.Errorf("%w: only admins can complete suggestions", ErrForbidden)
			}
		}

		sg.Suggestion = in.Suggestion
		sg.IsAnonymous = in.IsAnonymous
		sg.Comments = in.Comments
		sg.CompletedAt = completedAt
		if err := s.suggestionRepo.Update(txCtx, sg); err != nil {
			return fmt.Errorf("failed to update suggestion: %w", err)
		}

		action := model.ActionUpdateSuggestion
		if completionChanged && completedAt != nil {
			action = model.ActionCompleteSuggestion
		}
		if err := writeAudit(txCtx, s.auditRepo, actor, action, events.EntitySuggestion, sg.ID, "", map[string]any{"completed_at": in.CompletedAt}); err != nil {
			return err
		}
		updated = *sg
		return nil
	})
	if err != nil {
		return worksync.ServerSuggestion{}, err
	}

	out := toServerSuggestion(updated)
	s.publish(ctx, events.ActionUpdated, actor, out)
	return out, nil
}

func (s *suggestionService) Delete(ctx context.Context, actor Actor, id uint) error {
	var deleted model.Suggestion
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sg, err := s.suggestionRepo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, ErrSuggestionNotFound, "suggestion")
		}
		if !actor.IsAdmin() && sg.UserID != actor.ID {
			return fmt.Errorf("%w: not your suggestion", ErrForbidden)
		}
		if err := s.suggestionRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete suggestion: %w", err)
		}
		deleted = *sg
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionDeleteSuggestion, events.EntitySuggestion, id, "", nil)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, events.ActionDeleted, actor, toServerSuggestion(deleted))
	return nil
}

func (s *suggestionService) publish(ctx context.Context, action string, actor Actor, sg worksync.ServerSuggestion) {
	s.events.Publish(ctx, events.New(events.EntitySuggestion, action, uint(sg.ID), actor.ID, maskSuggestion(sg)))
}

// parseCompletedAt treats null and "" alike as open.
func parseCompletedAt(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, ok := worksync.ParseTimestamp(*raw)
	if !ok {
		return nil, invalidInput("completed_at %q is not a timestamp", *raw)
	}
	t = t.UTC().Truncate(time.Second)
	return &t, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}

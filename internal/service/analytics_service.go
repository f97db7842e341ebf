package service

import (
	"context"
	"fmt"
	"time"

	"worksync/internal/repository"
	"worksync/pkg/worksync"
)

// AnalyticsService computes the admin dashboard over every stored request and suggestion.
type AnalyticsService interface {
	Summary(ctx context.Context, rng worksync.TimeRange) (worksync.Analytics, error)
}

type analyticsService struct {
	requestRepo    repository.RequestRepository
	suggestionRepo repository.SuggestionRepository
	now            func() time.Time
}

func NewAnalyticsService(requestRepo repository.RequestRepository, suggestionRepo repository.SuggestionRepository) AnalyticsService {
	return &analyticsService{requestRepo: requestRepo, suggestionRepo: suggestionRepo, now: time.Now}
}

func (s *analyticsService) Summary(ctx context.Context, rng worksync.TimeRange) (worksync.Analytics, error) {
	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return worksync.Analytics{}, fmt.Errorf("failed to list requests: %w", err)
	}
	suggestions, err := s.suggestionRepo.List(ctx)
	if err != nil {
		return worksync.Analytics{}, fmt.Errorf("failed to list suggestions: %w", err)
	}

	clientRequests := make([]worksync.Request, 0, len(requests))
	for _, r := range requests {
		clientRequests = append(clientRequests, worksync.RequestToClient(toServerRequest(r)))
	}
	clientSuggestions := make([]worksync.Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		clientSuggestions = append(clientSuggestions, worksync.SuggestionToClient(toServerSuggestion(sg)))
	}

	return worksync.Summarize(clientRequests, clientSuggestions, rng, s.now()), nil
}

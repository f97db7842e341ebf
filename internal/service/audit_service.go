package service

import (
	"context"
	"fmt"
	"slices"

	"worksync/internal/events"
	"worksync/internal/repository"
)

type AuditLogResponse struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery selects a page of the audit trail, optionally narrowed to one entity or action.
type AuditQuery struct {
	EntityType string
	EntityID   string
	Action     string
	Page       int
	Limit      int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, q AuditQuery) ([]AuditLogResponse, int64, error)
}

var auditEntityTypes = []string{events.EntityRequest, events.EntitySuggestion, events.EntityProduct, "user"}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns one page of the audit trail, newest first, with actor names resolved
func (s *auditService) GetAuditLogs(ctx context.Context, q AuditQuery) ([]AuditLogResponse, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.EntityType != "" && !slices.Contains(auditEntityTypes, q.EntityType) {
		return nil, 0, invalidInput("unknown entity_type %q", q.EntityType)
	}

	filter := repository.AuditFilter{EntityType: q.EntityType, EntityID: q.EntityID, Action: q.Action}
	logs, total, err := s.repo.List(ctx, filter, q.Page, q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		var userID uint
		if l.User != nil {
			username = l.User.Username
		}
		if l.UserID != nil {
			userID = *l.UserID
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID,
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    string(l.Details),
			CreatedAt:  formatTime(l.CreatedAt),
		})
	}

	return res, total, nil
}

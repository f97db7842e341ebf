package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/worksync"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAPIKeyNotFound     = errors.New("api key not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrProductExists      = errors.New("product already exists")
)

// anonymousName replaces the requester's name when an anonymous record is shown to someone else.
const anonymousName = "Anonymous"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound translates gorm.ErrRecordNotFound into the domain sentinel.
func notFound(err error, sentinel error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, actor Actor, action, entityType string, entityID uint, entityName string, details any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := &model.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   fmt.Sprint(entityID),
		EntityName: entityName,
		Details:    datatypes.JSON(raw),
	}
	if actor.ID != 0 {
		uid := actor.ID
		entry.UserID = &uid
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func uintPtrToInt64(p *uint) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func toServerRequest(r model.Request) worksync.ServerRequest {
	return worksync.ServerRequest{
		ID:              int64(r.ID),
		UserID:          int64(r.UserID),
		UserName:        r.UserName,
		IsAnonymous:     r.IsAnonymous,
		Request:         r.Request,
		RequestType:     worksync.RequestType(r.RequestType),
		Status:          worksync.Status(r.Status),
		OrderID:         uintPtrToInt64(r.OrderID),
		ItemName:        r.ItemName,
		RequestedAmount: r.RequestedAmount,
		OrderedAmount:   copyInt(r.OrderedAmount),
		Cost:            r.Cost.InexactFloat64(),
		Admin:           uintPtrToInt64(r.AdminID),
		AdminName:       r.AdminName,
		Comments:        r.Comments,
		CreatedAt:       formatTime(r.CreatedAt),
		UpdatedAt:       formatTime(r.UpdatedAt),
	}
}

// maskRequest hides the requester of an anonymous request.
func maskRequest(r worksync.ServerRequest) worksync.ServerRequest {
	if r.IsAnonymous {
		r.UserID = 0
		r.UserName = anonymousName
	}
	return r
}

func toServerSuggestion(s model.Suggestion) worksync.ServerSuggestion {
	out := worksync.ServerSuggestion{
		ID:          int64(s.ID),
		UserID:      int64(s.UserID),
		UserName:    s.UserName,
		IsAnonymous: s.IsAnonymous,
		Suggestion:  s.Suggestion,
		Comments:    s.Comments,
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
	if s.CompletedAt != nil {
		v := formatTime(*s.CompletedAt)
		out.CompletedAt = &v
	}
	return out
}

func maskSuggestion(s worksync.ServerSuggestion) worksync.ServerSuggestion {
	if s.IsAnonymous {
		s.UserID = 0
		s.UserName = anonymousName
	}
	return s
}

func toProduct(p model.Product) worksync.Product {
	return worksync.Product{
		ID:          int64(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		Thumbnail:   p.Thumbnail,
	}
}

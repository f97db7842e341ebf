package service

import (
	"context"
	"strconv"
	"testing"

	"worksync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_GetAuditLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requestService().Create(ctx, f.employee, CreateRequestInput{Request: "Desk", ItemName: "Desk"})
	require.NoError(t, err)
	require.NoError(t, writeAudit(ctx, f.audit, Actor{}, model.ActionRegisterUser, "user", 1, "seed", nil))

	logs, total, err := NewAuditService(f.audit).GetAuditLogs(ctx, AuditQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 2)

	byAction := map[string]AuditLogResponse{}
	for _, l := range logs {
		byAction[l.Action] = l
	}
	assert.Equal(t, "bob", byAction[model.ActionCreateRequest].Username)
	assert.Equal(t, "Desk", byAction[model.ActionCreateRequest].EntityName)
	assert.Equal(t, "System", byAction[model.ActionRegisterUser].Username)
	assert.Equal(t, uint(0), byAction[model.ActionRegisterUser].UserID)
}

func TestAuditService_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAuditService(f.audit)

	created, err := f.requestService().Create(ctx, f.employee, CreateRequestInput{Request: "Desk", ItemName: "Desk"})
	require.NoError(t, err)
	_, err = f.suggestionService().Create(ctx, f.employee, CreateSuggestionInput{Suggestion: "Plants"})
	require.NoError(t, err)

	logs, total, err := svc.GetAuditLogs(ctx, AuditQuery{EntityType: "request", EntityID: strconv.FormatInt(created.ID, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionCreateRequest, logs[0].Action)

	_, _, err = svc.GetAuditLogs(ctx, AuditQuery{EntityType: "invoice"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

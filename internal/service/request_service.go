package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"worksync/internal/cache"
	"worksync/internal/events"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/worksync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateRequestInput is the POST /request body. Admin-owned fields the client may send
// (status, cost, ordered_amount, admin) are ignored.
type CreateRequestInput struct {
	Request         string `json:"request" binding:"required"`
	RequestType     string `json:"request_type"`
	ItemName        string `json:"item_name"`
	RequestedAmount int    `json:"requested_amount"`
	IsAnonymous     bool   `json:"is_anonymous"`
	Comments        string `json:"comments"`
}

// UpdateRequestInput is the PUT /request body: the full request as last seen by the
// client plus an optional amount to add to stock on delivery.
type UpdateRequestInput struct {
	ID              uint     `json:"id" binding:"required"`
	Request         string   `json:"request"`
	RequestType     string   `json:"request_type"`
	Status          string   `json:"status"`
	ItemName        string   `json:"item_name"`
	RequestedAmount int      `json:"requested_amount"`
	OrderedAmount   *int     `json:"ordered_amount"`
	Cost            *float64 `json:"cost"`
	AdminName       *string  `json:"admin_name"`
	IsAnonymous     bool     `json:"is_anonymous"`
	Comments        string   `json:"comments"`
	Amount          *int     `json:"amount"`
}

type RequestService interface {
	ListAll(ctx context.Context, actor Actor) ([]worksync.ServerRequest, error)
	ListMine(ctx context.Context, actor Actor) ([]worksync.ServerRequest, error)
	Create(ctx context.Context, actor Actor, in CreateRequestInput) (worksync.ServerRequest, error)
	Update(ctx context.Context, actor Actor, in UpdateRequestInput) (worksync.ServerRequest, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type requestService struct {
	requestRepo  repository.RequestRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	productCache cache.ProductCache
	events       events.Publisher
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	productCache cache.ProductCache,
	publisher events.Publisher,
) RequestService {
	return &requestService{
		requestRepo:  requestRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		productCache: productCache,
		events:       publisher,
	}
}

// ListAll returns every request. Employees see other people's anonymous requests masked.
func (s *requestService) ListAll(ctx context.Context, actor Actor) ([]worksync.ServerRequest, error) {
	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	res := make([]worksync.ServerRequest, 0, len(requests))
	for _, r := range requests {
		out := toServerRequest(r)
		if !actor.IsAdmin() && r.UserID != actor.ID {
			out = maskRequest(out)
		}
		res = append(res, out)
	}
	return res, nil
}

func (s *requestService) ListMine(ctx context.Context, actor Actor) ([]worksync.ServerRequest, error) {
	requests, err := s.requestRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	res := make([]worksync.ServerRequest, 0, len(requests))
	for _, r := range requests {
		res = append(res, toServerRequest(r))
	}
	return res, nil
}

func (s *requestService) Create(ctx context.Context, actor Actor, in CreateRequestInput) (worksync.ServerRequest, error) {
	requestType := worksync.RequestType(in.RequestType)
	if requestType == "" {
		requestType = worksync.RequestTypeSupply
	}
	if !requestType.Creatable() {
		return worksync.ServerRequest{}, invalidInput("request_type must be supply or maintenance")
	}
	if in.RequestedAmount < 0 {
		return worksync.ServerRequest{}, invalidInput("requested_amount must not be negative")
	}

	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return worksync.ServerRequest{}, notFound(err, ErrUserNotFound, "user")
	}

	req := model.Request{
		UserID:          user.ID,
		UserName:        user.DisplayName(),
		IsAnonymous:     in.IsAnonymous,
		Request:         in.Request,
		RequestType:     string(requestType),
		Status:          string(worksync.StatusPending),
		ItemName:        in.ItemName,
		RequestedAmount: in.RequestedAmount,
		Cost:            decimal.Zero,
		Comments:        in.Comments,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Create(txCtx, &req); err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionCreateRequest, events.EntityRequest, req.ID, req.ItemName, in)
	})
	if err != nil {
		return worksync.ServerRequest{}, err
	}

	out := toServerRequest(req)
	s.publish(ctx, events.ActionCreated, actor, out)
	return out, nil
}

func (s *requestService) Update(ctx context.Context, actor Actor, in UpdateRequestInput) (worksync.ServerRequest, error) {
	var (
		updated      model.Request
		stockChanged bool
	)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requestRepo.FindByIDForUpdate(txCtx, in.ID)
		if err != nil {
			return notFound(err, ErrRequestNotFound, "request")
		}
		from := req.Status

		if actor.IsAdmin() {
			stockChanged, err = s.applyAdminUpdate(txCtx, actor, req, in)
		} else {
			err = applyEmployeeUpdate(actor, req, in)
		}
		if err != nil {
			return err
		}

		if err := s.requestRepo.Update(txCtx, req); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		action := model.ActionUpdateRequest
		if req.Status != from {
			action = model.ActionTransitionRequest
		}
		details := map[string]any{"from": from, "to": req.Status, "amount": in.Amount}
		if err := writeAudit(txCtx, s.auditRepo, actor, action, events.EntityRequest, req.ID, req.ItemName, details); err != nil {
			return err
		}
		updated = *req
		return nil
	})
	if err != nil {
		return worksync.ServerRequest{}, err
	}

	if stockChanged {
		if err := s.productCache.Invalidate(ctx); err != nil {
			log.Printf("failed to invalidate product cache: %v", err)
		}
	}

	out := toServerRequest(updated)
	s.publish(ctx, events.ActionUpdated, actor, out)
	return out, nil
}

// applyEmployeeUpdate lets the owner edit the text of a request that is still pending.
func applyEmployeeUpdate(actor Actor, req *model.Request, in UpdateRequestInput) error {
	if req.UserID != actor.ID {
		return fmt.Errorf("%w: not your request", ErrForbidden)
	}
	if req.Status != string(worksync.StatusPending) {
		return fmt.Errorf("%w: only pending requests can be edited", ErrForbidden)
	}
	if in.Status != "" && in.Status != req.Status {
		return fmt.Errorf("%w: only admins can change status", ErrForbidden)
	}
	if in.OrderedAmount != nil && (req.OrderedAmount == nil || *in.OrderedAmount != *req.OrderedAmount) {
		return fmt.Errorf("%w: only admins can set ordered_amount", ErrForbidden)
	}
	if in.Cost != nil && !decimal.NewFromFloat(*in.Cost).Equal(req.Cost) {
		return fmt.Errorf("%w: only admins can set cost", ErrForbidden)
	}
	if in.AdminName != nil && *in.AdminName != req.AdminName {
		return fmt.Errorf("%w: only admins can set admin_name", ErrForbidden)
	}
	if in.Amount != nil {
		return fmt.Errorf("%w: only admins can receive stock", ErrForbidden)
	}
	return applyRequestText(req, in)
}

func applyRequestText(req *model.Request, in UpdateRequestInput) error {
	if in.RequestedAmount < 0 {
		return invalidInput("requested_amount must not be negative")
	}
	if in.RequestType != "" && in.RequestType != req.RequestType {
		t := worksync.RequestType(in.RequestType)
		if !t.Creatable() {
			return invalidInput("request_type must be supply or maintenance")
		}
		req.RequestType = string(t)
	}
	req.Request = in.Request
	req.ItemName = in.ItemName
	req.RequestedAmount = in.RequestedAmount
	req.IsAnonymous = in.IsAnonymous
	req.Comments = in.Comments
	return nil
}

// applyAdminUpdate validates the status change and derives cost and stock. It reports
// whether product stock was changed.
func (s *requestService) applyAdminUpdate(ctx context.Context, actor Actor, req *model.Request, in UpdateRequestInput) (bool, error) {
	from := worksync.Status(req.Status)
	to := from
	if in.Status != "" {
		st, err := worksync.ParseStatus(in.Status)
		if err != nil {
			return false, invalidInput("%v", err)
		}
		to = st
	}
	if to != from {
		if err := worksync.CheckTransition(from, to); err != nil {
			return false, err
		}
	}

	if err := applyRequestText(req, in); err != nil {
		return false, err
	}
	if in.OrderedAmount != nil {
		if *in.OrderedAmount < 0 {
			return false, invalidInput("ordered_amount must not be negative")
		}
		req.OrderedAmount = copyInt(in.OrderedAmount)
	}

	if to == from {
		if in.Cost != nil {
			if *in.Cost < 0 {
				return false, invalidInput("cost must not be negative")
			}
			req.Cost = decimal.NewFromFloat(*in.Cost)
		}
		return false, nil
	}

	admin, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return false, notFound(err, ErrUserNotFound, "user")
	}
	req.Status = string(to)
	req.AdminID = &admin.ID
	req.AdminName = admin.DisplayName()

	ordered := 0
	if req.OrderedAmount != nil {
		ordered = *req.OrderedAmount
	}

	switch to {
	case worksync.StatusOrdered:
		req.Cost, err = s.costOf(ctx, req.ItemName, ordered)
		return false, err
	case worksync.StatusDelivered:
		if in.Amount == nil || *in.Amount <= 0 {
			req.Cost, err = s.costOf(ctx, req.ItemName, ordered)
			return false, err
		}
		product, err := s.productRepo.FindByTitleForUpdate(ctx, req.ItemName)
		if err != nil {
			return false, notFound(err, ErrProductNotFound, "product")
		}
		if err := s.productRepo.AdjustStock(ctx, product.ID, *in.Amount); err != nil {
			return false, fmt.Errorf("failed to adjust stock: %w", err)
		}
		req.Cost = product.Price.Mul(decimal.NewFromInt(int64(*in.Amount)))
		details := map[string]any{"request_id": req.ID, "amount": *in.Amount}
		if err := writeAudit(ctx, s.auditRepo, actor, model.ActionRestock, events.EntityProduct, product.ID, product.Title, details); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// costOf is price(title) times amount, or zero when no product has that title.
func (s *requestService) costOf(ctx context.Context, title string, amount int) (decimal.Decimal, error) {
	product, err := s.productRepo.FindByTitle(ctx, title)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load product: %w", err)
	}
	return product.Price.Mul(decimal.NewFromInt(int64(amount))), nil
}

func (s *requestService) Delete(ctx context.Context, actor Actor, id uint) error {
	var deleted model.Request
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requestRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFound(err, ErrRequestNotFound, "request")
		}
		if !actor.IsAdmin() && req.UserID != actor.ID {
			return fmt.Errorf("%w: not your request", ErrForbidden)
		}
		if err := s.requestRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}
		deleted = *req
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionDeleteRequest, events.EntityRequest, id, req.ItemName, map[string]any{"status": req.Status})
	})
	if err != nil {
		return err
	}
	s.publish(ctx, events.ActionDeleted, actor, toServerRequest(deleted))
	return nil
}

// publish broadcasts the masked view so anonymous requesters stay hidden from other clients.
func (s *requestService) publish(ctx context.Context, action string, actor Actor, r worksync.ServerRequest) {
	s.events.Publish(ctx, events.New(events.EntityRequest, action, uint(r.ID), actor.ID, maskRequest(r)))
}

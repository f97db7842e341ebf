package client

import (
	"context"
	"net/http"
	"time"

	"worksync/pkg/worksync"
)

// RequestService covers /request.
type RequestService struct {
	c *Client
}

// GetAll returns every request the caller's role may see.
func (s *RequestService) GetAll(ctx context.Context) ([]worksync.Request, error) {
	return s.list(ctx, "/request/all")
}

// GetMine returns only the caller's own requests. Ownership is decided by the server.
func (s *RequestService) GetMine(ctx context.Context) ([]worksync.Request, error) {
	return s.list(ctx, "/request")
}

func (s *RequestService) list(ctx context.Context, path string) ([]worksync.Request, error) {
	var out []worksync.ServerRequest
	if err := s.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return worksync.RequestsToClient(out), nil
}

// Create submits a new request. Any placeholder id is discarded and the returned request
// carries the server-assigned id and timestamps.
func (s *RequestService) Create(ctx context.Context, r worksync.Request) (worksync.Request, error) {
	payload := worksync.RequestToServer(worksync.NewRequest(r))
	var out worksync.ServerRequest
	if err := s.c.do(ctx, http.MethodPost, "/request", payload, &out); err != nil {
		return worksync.Request{}, err
	}
	return worksync.RequestToClient(out), nil
}

type UpdateOption func(*worksync.RequestUpdate)

// WithAmount sets the stock amount used to finalize cost on delivery.
func WithAmount(n int) UpdateOption {
	return func(u *worksync.RequestUpdate) {
		u.Amount = &n
	}
}

func (s *RequestService) Update(ctx context.Context, r worksync.Request, opts ...UpdateOption) (worksync.Request, error) {
	update := worksync.RequestUpdate{ServerRequest: worksync.RequestToServer(r)}
	for _, opt := range opts {
		opt(&update)
	}
	return s.put(ctx, update)
}

// Transition moves r to another status. Illegal moves are rejected before anything is sent.
// catalog is used for the cost preview; the server's answer carries the billed cost.
func (s *RequestService) Transition(ctx context.Context, r worksync.Request, to worksync.Status, catalog []worksync.Product) (worksync.Request, error) {
	update, err := worksync.Transition(r, to, catalog)
	if err != nil {
		return worksync.Request{}, err
	}
	return s.put(ctx, update)
}

func (s *RequestService) put(ctx context.Context, update worksync.RequestUpdate) (worksync.Request, error) {
	var out worksync.ServerRequest
	if err := s.c.do(ctx, http.MethodPut, "/request", update, &out); err != nil {
		return worksync.Request{}, err
	}
	return worksync.RequestToClient(out), nil
}

func (s *RequestService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.c.deleteByID(ctx, "request", id)
}

// SuggestionService covers /suggestion.
type SuggestionService struct {
	c *Client
}

func (s *SuggestionService) GetAll(ctx context.Context) ([]worksync.Suggestion, error) {
	var out []worksync.ServerSuggestion
	if err := s.c.do(ctx, http.MethodGet, "/suggestion/all", nil, &out); err != nil {
		return nil, err
	}
	return worksync.SuggestionsToClient(out), nil
}

func (s *SuggestionService) Create(ctx context.Context, sg worksync.Suggestion) (worksync.Suggestion, error) {
	sg.ID = 0
	return s.send(ctx, http.MethodPost, sg)
}

func (s *SuggestionService) Update(ctx context.Context, sg worksync.Suggestion) (worksync.Suggestion, error) {
	return s.send(ctx, http.MethodPut, sg)
}

// Complete marks the suggestion as done at the given time.
func (s *SuggestionService) Complete(ctx context.Context, sg worksync.Suggestion, at time.Time) (worksync.Suggestion, error) {
	sg.CompletedAt = at.UTC().Format(time.RFC3339)
	return s.Update(ctx, sg)
}

// Reopen clears the completion timestamp.
func (s *SuggestionService) Reopen(ctx context.Context, sg worksync.Suggestion) (worksync.Suggestion, error) {
	sg.CompletedAt = ""
	return s.Update(ctx, sg)
}

func (s *SuggestionService) send(ctx context.Context, method string, sg worksync.Suggestion) (worksync.Suggestion, error) {
	var out worksync.ServerSuggestion
	if err := s.c.do(ctx, method, "/suggestion", worksync.SuggestionToServer(sg), &out); err != nil {
		return worksync.Suggestion{}, err
	}
	return worksync.SuggestionToClient(out), nil
}

func (s *SuggestionService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.c.deleteByID(ctx, "suggestion", id)
}

// ProductService covers /product.
type ProductService struct {
	c *Client
}

func (s *ProductService) GetAll(ctx context.Context) ([]worksync.Product, error) {
	var out []worksync.Product
	if err := s.c.do(ctx, http.MethodGet, "/product/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductService) Create(ctx context.Context, p worksync.Product) (worksync.Product, error) {
	p.ID = 0
	var out worksync.Product
	err := s.c.do(ctx, http.MethodPost, "/product", p, &out)
	return out, err
}

func (s *ProductService) Update(ctx context.Context, p worksync.Product) (worksync.Product, error) {
	var out worksync.Product
	err := s.c.do(ctx, http.MethodPut, "/product", p, &out)
	return out, err
}

func (s *ProductService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.c.deleteByID(ctx, "product", id)
}

// AnalyticsService reads the admin dashboard aggregate.
type AnalyticsService struct {
	c *Client
}

func (s *AnalyticsService) Get(ctx context.Context, rng worksync.TimeRange) (worksync.Analytics, error) {
	var out worksync.Analytics
	err := s.c.do(ctx, http.MethodGet, "/analytics?range="+string(rng), nil, &out)
	return out, err
}

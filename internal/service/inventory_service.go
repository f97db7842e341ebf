package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"worksync/internal/cache"
	"worksync/internal/events"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/worksync"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService manages the product catalog requests are priced against.
type InventoryService interface {
	GetProducts(ctx context.Context) ([]worksync.Product, error)
	CreateProduct(ctx context.Context, actor Actor, p worksync.Product) (worksync.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, p worksync.Product) (worksync.Product, error)
	DeleteProduct(ctx context.Context, actor Actor, id uint) error
}

type inventoryService struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	cache       *cache.GuardedProductCache
	events      events.Publisher
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	productCache cache.ProductCache,
	publisher events.Publisher,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		cache:       cache.NewGuardedProductCache(productCache),
		events:      publisher,
	}
}

// GetProducts serves the catalog from cache when possible.
func (s *inventoryService) GetProducts(ctx context.Context) ([]worksync.Product, error) {
	products, err := s.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("product cache read failed: %v", err)
		}
		gen := s.cache.Generation()
		products, err = s.productRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		if _, err := s.cache.SetIfCurrent(ctx, gen, products); err != nil {
			log.Printf("product cache write failed: %v", err)
		}
	}

	res := make([]worksync.Product, 0, len(products))
	for _, p := range products {
		res = append(res, toProduct(p))
	}
	return res, nil
}

func validateProduct(p worksync.Product) error {
	if strings.TrimSpace(p.Title) == "" {
		return invalidInput("title is required")
	}
	if err := p.Validate(); err != nil {
		return invalidInput("%v", err)
	}
	return nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor Actor, p worksync.Product) (worksync.Product, error) {
	if !actor.IsAdmin() {
		return worksync.Product{}, ErrForbidden
	}
	if err := validateProduct(p); err != nil {
		return worksync.Product{}, err
	}

	product := model.Product{
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Category:    p.Category,
		Price:       decimal.NewFromFloat(p.Price),
		Stock:       p.Stock,
		Thumbnail:   p.Thumbnail,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.productRepo.FindByTitle(txCtx, product.Title); err == nil {
			return ErrProductExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionCreateProduct, events.EntityProduct, product.ID, product.Title, p)
	})
	if err != nil {
		return worksync.Product{}, err
	}

	out := toProduct(product)
	s.afterChange(ctx, events.ActionCreated, actor, out)
	return out, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, actor Actor, p worksync.Product) (worksync.Product, error) {
	if !actor.IsAdmin() {
		return worksync.Product{}, ErrForbidden
	}
	if p.ID <= 0 {
		return worksync.Product{}, invalidInput("id is required")
	}
	if err := validateProduct(p); err != nil {
		return worksync.Product{}, err
	}

	var updated model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.productRepo.FindByID(txCtx, uint(p.ID))
		if err != nil {
			return notFound(err, ErrProductNotFound, "product")
		}
		title := strings.TrimSpace(p.Title)
		if title != product.Title {
			if other, err := s.productRepo.FindByTitle(txCtx, title); err == nil && other.ID != product.ID {
				return ErrProductExists
			}
		}

		product.Title = title
		product.Description = p.Description
		product.Category = p.Category
		product.Price = decimal.NewFromFloat(p.Price)
		product.Stock = p.Stock
		product.Thumbnail = p.Thumbnail
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		if err := writeAudit(txCtx, s.auditRepo, actor, model.ActionUpdateProduct, events.EntityProduct, product.ID, product.Title, p); err != nil {
			return err
		}
		updated = *product
		return nil
	})
	if err != nil {
		return worksync.Product{}, err
	}

	out := toProduct(updated)
	s.afterChange(ctx, events.ActionUpdated, actor, out)
	return out, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	var deleted model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err := s.productRepo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, ErrProductNotFound, "product")
		}
		if err := s.productRepo.Delete(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		deleted = *product
		return writeAudit(txCtx, s.auditRepo, actor, model.ActionDeleteProduct, events.EntityProduct, id, product.Title, nil)
	})
	if err != nil {
		return err
	}
	s.afterChange(ctx, events.ActionDeleted, actor, toProduct(deleted))
	return nil
}

func (s *inventoryService) afterChange(ctx context.Context, action string, actor Actor, p worksync.Product) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("failed to invalidate product cache: %v", err)
	}
	s.events.Publish(ctx, events.New(events.EntityProduct, action, uint(p.ID), actor.ID, p))
}

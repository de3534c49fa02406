package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"

	"github.com/google/uuid"
)

// BranchService обрабатывает бизнес-логику филиалов
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService создает новый сервис филиалов
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// Create создает филиал с уникальным именем
func (s *BranchService) Create(ctx context.Context, req *entity.CreateBranchRequest) (*entity.Branch, error) {
	branch := &entity.Branch{
		ID:      uuid.New(),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBranchExists
		}
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}

	return branch, nil
}

// GetByID получает филиал по ID
func (s *BranchService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return branch, nil
}

// List получает все филиалы
func (s *BranchService) List(ctx context.Context) ([]entity.Branch, error) {
	branches, err := s.branchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

// Update обновляет филиал
func (s *BranchService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateBranchRequest) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrBranchNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrBranchExists
		}
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}

	return branch, nil
}

// Delete удаляет филиал
func (s *BranchService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.branchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return nil
}

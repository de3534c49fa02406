package service

import (
	"context"
	"fmt"
	"time"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"
)

// Каталог меняется только сидом при старте, TTL короткий на случай деплоя
const permissionCacheTTL = 5 * time.Minute

// PermissionService отдает read-only каталог разрешений
type PermissionService struct {
	permissionRepo repository.PermissionRepository
	cache          *util.RedisClient
}

// NewPermissionService создает новый сервис каталога разрешений.
// cache может быть nil, тогда каждая страница читается из БД
func NewPermissionService(permissionRepo repository.PermissionRepository, cache *util.RedisClient) *PermissionService {
	return &PermissionService{
		permissionRepo: permissionRepo,
		cache:          cache,
	}
}

// List получает страницу каталога разрешений.
// Страница кешируется в Redis; ошибка кеша не фатальна, идем в БД
func (s *PermissionService) List(ctx context.Context, page, limit int) (*entity.PermissionPage, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPermissionPage(ctx, page, limit)
		if err != nil {
			logger.Warn().Err(err).Msg("permission cache read failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	offset := (page - 1) * limit
	permissions, total, err := s.permissionRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	result := &entity.PermissionPage{
		Records: permissions,
		Meta:    entity.NewPaginationMeta(total, page, limit),
	}

	if s.cache != nil {
		if err := s.cache.SetPermissionPage(ctx, page, limit, result, permissionCacheTTL); err != nil {
			logger.Warn().Err(err).Msg("permission cache write failed")
		}
	}

	return result, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository создает новый репозиторий врачей
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

// Create создает врача. Несуществующий филиал - ErrForeignKey
func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if err := r.db.WithContext(ctx).Omit("Branch").Create(doctor).Error; err != nil {
		return fmt.Errorf("failed to create doctor: %w", translateDBError(err))
	}
	return nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	result := r.db.WithContext(ctx).Preload("Branch").First(&doctor, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor by id: %w", result.Error)
	}

	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	result := r.db.WithContext(ctx).Preload("Branch").Order("name").Find(&doctors)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", result.Error)
	}

	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	result := r.db.WithContext(ctx).Model(doctor).Where("id = ?", doctor.ID).Updates(map[string]interface{}{
		"name":       doctor.Name,
		"speciality": doctor.Speciality,
		"phone":      doctor.Phone,
		"branch_id":  doctor.BranchID,
	})

	if result.Error != nil {
		return fmt.Errorf("failed to update doctor: %w", translateDBError(result.Error))
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Doctor{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete doctor: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

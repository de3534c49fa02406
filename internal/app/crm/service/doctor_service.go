package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"

	"github.com/google/uuid"
)

// DoctorService обрабатывает бизнес-логику врачей
type DoctorService struct {
	doctorRepo repository.DoctorRepository
}

// NewDoctorService создает новый сервис врачей
func NewDoctorService(doctorRepo repository.DoctorRepository) *DoctorService {
	return &DoctorService{doctorRepo: doctorRepo}
}

// Create создает врача, привязанного к филиалу
func (s *DoctorService) Create(ctx context.Context, req *entity.CreateDoctorRequest) (*entity.Doctor, error) {
	doctor := &entity.Doctor{
		ID:         uuid.New(),
		Name:       req.Name,
		Speciality: req.Speciality,
		Phone:      req.Phone,
		BranchID:   req.BranchID,
	}

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	return s.doctorRepo.GetByID(ctx, doctor.ID)
}

// GetByID получает врача с филиалом
func (s *DoctorService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

// List получает всех врачей
func (s *DoctorService) List(ctx context.Context) ([]entity.Doctor, error) {
	doctors, err := s.doctorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// Update обновляет врача
func (s *DoctorService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateDoctorRequest) (*entity.Doctor, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Speciality != nil {
		doctor.Speciality = *req.Speciality
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.BranchID != nil {
		doctor.BranchID = *req.BranchID
	}

	if err := s.doctorRepo.Update(ctx, doctor); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrDoctorNotFound
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	return s.doctorRepo.GetByID(ctx, id)
}

// Delete удаляет врача
func (s *DoctorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.doctorRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}

// Package patient resolves incoming identity data to a stored patient:
// lookup by internal ID, then by document number, then insert. Updates
// fully overwrite every supplied field.
package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigemech/admission-api/internal/identity"
	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
	"github.com/sigemech/admission-api/pkg/apperror"
)

type Service struct {
	patients   repository.PatientRepository
	admissions repository.AdmissionRepository
	logger     zerolog.Logger
}

func NewService(patients repository.PatientRepository, admissions repository.AdmissionRepository, logger zerolog.Logger) *Service {
	return &Service{
		patients:   patients,
		admissions: admissions,
		logger:     logger,
	}
}

// Resolve finds or creates the patient described by payload inside the
// enclosing unit of work and returns the stored row. It never runs outside
// a transaction: uow is mandatory.
func (s *Service) Resolve(ctx context.Context, uow repository.UnitOfWork, payload *model.PatientPayload, userID int64) (*model.Patient, error) {
	if uow == nil {
		return nil, apperror.Internal(errors.New("patient resolution requires a transaction"))
	}
	if err := s.ValidatePayload(payload); err != nil {
		return nil, err
	}

	existing, err := s.lookup(ctx, uow, payload)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Apply(payload)
		if err := s.refreshTempCode(existing); err != nil {
			return nil, err
		}
		if err := s.patients.Update(ctx, uow, existing); err != nil {
			return nil, s.translateStorageErr(existing.DocumentNumber, err)
		}
		s.logger.Debug().Int64("patient_id", existing.ID).Msg("patient updated from admission payload")
		return existing, nil
	}

	created := &model.Patient{CreatedBy: userID}
	created.Apply(payload)
	if created.FirstName == "" || created.FirstSurname == "" {
		return nil, apperror.Validation("patient first name and first surname are required", nil)
	}
	if created.BirthDate.IsZero() {
		return nil, apperror.Validation("patient birth date is required", nil)
	}
	if err := s.refreshTempCode(created); err != nil {
		return nil, err
	}
	if created.DocumentNumber == "" {
		return nil, apperror.Validation("patient document number is required", nil)
	}
	id, err := s.patients.Create(ctx, uow, created)
	if err != nil {
		return nil, s.translateStorageErr(created.DocumentNumber, err)
	}
	created.ID = id
	s.logger.Debug().Int64("patient_id", created.ID).Msg("patient created from admission payload")
	return created, nil
}

func (s *Service) lookup(ctx context.Context, uow repository.UnitOfWork, payload *model.PatientPayload) (*model.Patient, error) {
	if payload.ID != nil {
		p, err := s.patients.FindByID(ctx, uow, *payload.ID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
	}
	if payload.DocumentNumber != nil && *payload.DocumentNumber != "" {
		p, err := s.patients.FindByDocument(ctx, uow, *payload.DocumentNumber)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
	}
	return nil, nil
}

// ValidatePayload runs the pure input checks on a patient section. It
// touches no storage, so callers run it before opening a transaction;
// Resolve repeats it as a guard for direct callers.
func (s *Service) ValidatePayload(payload *model.PatientPayload) error {
	if payload.DocumentNumber != nil && *payload.DocumentNumber != "" &&
		payload.IdentityTypeID != nil && *payload.IdentityTypeID == model.IdentityCedula {
		if err := identity.ValidateCedula(*payload.DocumentNumber); err != nil {
			return apperror.Validation(fmt.Sprintf("invalid cedula %s", *payload.DocumentNumber), err)
		}
	}
	if payload.BirthDate != nil && payload.BirthDate.IsZero() {
		return apperror.Validation("patient birth date is required", nil)
	}
	return nil
}

// refreshTempCode regenerates the derived 17-character code for
// temporary-identity patients after the payload has been applied, so a
// code built from partial data never survives a later correction. The
// merged row decides: a correction that omits identity_type_id must
// still refresh the code of a stored temporary-identity patient.
func (s *Service) refreshTempCode(patient *model.Patient) error {
	if !patient.IsTemporaryIdentity() {
		return nil
	}
	in := identity.TempCodeInput{
		FirstName:       patient.FirstName,
		FirstSurname:    patient.FirstSurname,
		ForeignNational: patient.ForeignNational,
		BirthDate:       patient.BirthDate.Time,
	}
	if patient.MiddleName != nil {
		in.MiddleName = *patient.MiddleName
	}
	if patient.SecondSurname != nil {
		in.SecondSurname = *patient.SecondSurname
	}
	if patient.ProvinceCode != nil {
		in.ProvinceCode = *patient.ProvinceCode
	}
	code, err := identity.GenerateTempCode(in)
	if err != nil {
		return apperror.Validation("cannot derive temporary identity code", err)
	}
	patient.DocumentNumber = code
	return nil
}

func (s *Service) translateStorageErr(document string, err error) error {
	if errors.Is(err, repository.ErrUniqueViolation) {
		return apperror.DuplicateIdentity(document, err)
	}
	return apperror.Internal(err)
}

// FindByDocument answers the form-prefill lookup: the patient, if any,
// plus their most recent admission that is not discharged.
func (s *Service) FindByDocument(ctx context.Context, document string) (*model.PatientLookupResult, error) {
	if document == "" {
		return nil, apperror.Validation("document number is required", nil)
	}
	patient, err := s.patients.FindByDocument(ctx, nil, document)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.PatientLookupResult{Found: false}, nil
		}
		return nil, apperror.Internal(err)
	}

	result := &model.PatientLookupResult{Found: true, Patient: patient}
	open, err := s.admissions.FindOpen(ctx, patient.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		return result, nil
	}
	result.OpenAdmission = open
	return result, nil
}

// HasRecentAdmission reports whether the patient has an admission within
// the given window, counted back from now.
func (s *Service) HasRecentAdmission(ctx context.Context, patientID int64, window time.Duration) (bool, error) {
	_, err := s.admissions.LatestSince(ctx, patientID, time.Now().Add(-window))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, apperror.Internal(err)
	}
	return true, nil
}

// MaternalCheck validates that the document belongs to a female patient
// with an admission inside the recency window, returning both on success.
func (s *Service) MaternalCheck(ctx context.Context, document string, window time.Duration) (*model.MaternalCheckResult, error) {
	if document == "" {
		return nil, apperror.Validation("mother document number is required", nil)
	}
	patient, err := s.patients.FindByDocument(ctx, nil, document)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient", err)
		}
		return nil, apperror.Internal(err)
	}
	if patient.SexID == nil || *patient.SexID != model.SexFemale {
		return nil, apperror.Rule("maternal_sex", "the document does not belong to a female patient")
	}
	admission, err := s.admissions.LatestSince(ctx, patient.ID, time.Now().Add(-window))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Rule("maternal_recency", fmt.Sprintf("no admission for this patient within the last %s", window))
		}
		return nil, apperror.Internal(err)
	}
	return &model.MaternalCheckResult{Patient: patient, Admission: admission}, nil
}


package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
	"github.com/sigemech/admission-api/pkg/apperror"
)

// Rule names surfaced to the caller on violation.
const (
	RuleReferralProvenance = "referral_provenance"
	RuleNonFutureTimestamp = "non_future_timestamp"
	RuleNeonateLinkage     = "neonate_mother_linkage"
	RuleDisabilityFloor    = "disability_percentage_floor"
)

// neonateAge is the age bound below which a patient is a neonate.
const neonateAge = 28 * 24 * time.Hour

// minDisabilityPercentage is the legal floor for a declared disability.
const minDisabilityPercentage = 30

// RuleConfig carries the tunable parts of the rule set.
type RuleConfig struct {
	MaternalRecencyWindow time.Duration
	ClockSkewTolerance    time.Duration
	// FacilityID is this health center's ID in the birth-place catalog.
	// Deliveries at this facility require the mother to have a recent
	// admission here.
	FacilityID int64
}

// arrivalModeReader is the slice of the catalog service the rules need.
type arrivalModeReader interface {
	ArrivalMode(ctx context.Context, id int64) (*model.ArrivalMode, error)
}

// Validator runs the admission business rules. Every rule is checked
// before any write; the first violation aborts the submission.
type Validator struct {
	cfg        RuleConfig
	catalogs   arrivalModeReader
	patients   repository.PatientRepository
	admissions repository.AdmissionRepository
	now        func() time.Time
}

func NewValidator(cfg RuleConfig, catalogs arrivalModeReader, patients repository.PatientRepository, admissions repository.AdmissionRepository) *Validator {
	return &Validator{
		cfg:        cfg,
		catalogs:   catalogs,
		patients:   patients,
		admissions: admissions,
		now:        time.Now,
	}
}

// Validate runs the full rule set against a submission. It returns nil or
// an apperror carrying the violated rule's name.
func (v *Validator) Validate(ctx context.Context, req *model.CreateAdmissionRequest) error {
	merged, err := v.mergedPatient(ctx, req.Patient)
	if err != nil {
		return err
	}
	if err := v.checkTimestamps(req, merged); err != nil {
		return err
	}
	if err := v.checkReferralProvenance(ctx, req.Admission); err != nil {
		return err
	}
	if err := v.checkDisabilityFloor(merged); err != nil {
		return err
	}
	return v.checkNeonateLinkage(ctx, req, merged)
}

// mergedPatient builds the row the transaction would persist: the
// submitted fields applied over the stored patient the payload resolves
// to, if any. Rules judge that outcome; an update omitting a field must
// not slip past a rule the stored value triggers.
func (v *Validator) mergedPatient(ctx context.Context, payload *model.PatientPayload) (*model.Patient, error) {
	merged := &model.Patient{}
	stored, err := v.storedPatient(ctx, payload)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		*merged = *stored
	}
	merged.Apply(payload)
	return merged, nil
}

func (v *Validator) storedPatient(ctx context.Context, payload *model.PatientPayload) (*model.Patient, error) {
	if payload.ID != nil {
		p, err := v.patients.FindByID(ctx, nil, *payload.ID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
	}
	if payload.DocumentNumber != nil && *payload.DocumentNumber != "" {
		p, err := v.patients.FindByDocument(ctx, nil, *payload.DocumentNumber)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
	}
	return nil, nil
}

func (v *Validator) checkTimestamps(req *model.CreateAdmissionRequest, merged *model.Patient) error {
	limit := v.now().Add(v.cfg.ClockSkewTolerance)
	if !merged.BirthDate.IsZero() && merged.BirthDate.Time.After(limit) {
		return apperror.Rule(RuleNonFutureTimestamp, "patient birth date cannot be in the future")
	}
	if req.Birth != nil && req.Birth.BirthTime != nil && req.Birth.BirthTime.After(limit) {
		return apperror.Rule(RuleNonFutureTimestamp, "birth time cannot be in the future")
	}
	return nil
}

func (v *Validator) checkReferralProvenance(ctx context.Context, payload *model.AdmissionPayload) error {
	if payload.ArrivalModeID == nil {
		return nil
	}
	mode, err := v.catalogs.ArrivalMode(ctx, *payload.ArrivalModeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Validation(fmt.Sprintf("unknown arrival mode %d", *payload.ArrivalModeID), err)
		}
		return apperror.Internal(err)
	}
	if mode.Name != model.ArrivalModeReferred {
		return nil
	}
	if payload.OriginFacility == nil || strings.TrimSpace(*payload.OriginFacility) == "" {
		return apperror.Rule(RuleReferralProvenance, "referred patients require the origin facility")
	}
	return nil
}

func (v *Validator) checkDisabilityFloor(merged *model.Patient) error {
	if merged.DisabilityPercentage != nil && *merged.DisabilityPercentage < minDisabilityPercentage {
		return apperror.Rule(RuleDisabilityFloor,
			fmt.Sprintf("disability percentage %d is below the legal floor of %d", *merged.DisabilityPercentage, minDisabilityPercentage))
	}
	if merged.HasDisability && merged.DisabilityPercentage == nil {
		return apperror.Rule(RuleDisabilityFloor, "declared disability requires a percentage")
	}
	return nil
}

// checkNeonateLinkage enforces the mother linkage for patients under 28
// days. When the delivery happened at this facility, the mother must
// resolve to a female patient with an admission inside the recency window.
// The age comes from the merged row, so an update by internal ID that
// omits birth_date still counts the stored one.
func (v *Validator) checkNeonateLinkage(ctx context.Context, req *model.CreateAdmissionRequest, merged *model.Patient) error {
	if merged.BirthDate.IsZero() {
		return nil
	}
	age := v.now().Sub(merged.BirthDate.Time)
	if age < 0 || age >= neonateAge {
		return nil
	}

	if !req.Birth.HasMotherDocument() {
		return apperror.Rule(RuleNeonateLinkage, "neonate admissions require the mother's document number")
	}

	bornHere := req.Birth.PlaceID != nil && v.cfg.FacilityID != 0 && *req.Birth.PlaceID == v.cfg.FacilityID
	if !bornHere {
		return nil
	}

	mother, err := v.patients.FindByDocument(ctx, nil, *req.Birth.MotherDocumentNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Rule(RuleNeonateLinkage, "mother is not registered as a patient at this facility")
		}
		return apperror.Internal(err)
	}
	if mother.SexID == nil || *mother.SexID != model.SexFemale {
		return apperror.Rule(RuleNeonateLinkage, "the mother's document does not belong to a female patient")
	}
	since := v.now().Add(-v.cfg.MaternalRecencyWindow)
	if _, err := v.admissions.LatestSince(ctx, mother.ID, since); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Rule(RuleNeonateLinkage,
				fmt.Sprintf("mother has no admission at this facility within the last %s", v.cfg.MaternalRecencyWindow))
		}
		return apperror.Internal(err)
	}
	return nil
}

package admission

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sigemech/admission-api/internal/model"
	"github.com/sigemech/admission-api/internal/repository"
	"github.com/sigemech/admission-api/internal/service/catalog"
	"github.com/sigemech/admission-api/internal/service/patient"
	"github.com/sigemech/admission-api/pkg/apperror"
	"github.com/sigemech/admission-api/pkg/metrics"
)

// duplicateRetries is how many times the whole transaction is re-run when
// a concurrent submission wins the patient-create race. One retry is
// enough: the second run finds the winner's row and takes the update path.
const duplicateRetries = 1

// Service coordinates the admission transaction. Every write of one
// submission happens inside a single unit of work; either all rows land
// or none do.
type Service struct {
	tx        repository.TxManager
	patients  *patient.Service
	catalogs  *catalog.Service
	rules     *Validator
	reps      repository.RepresentativeRepository
	adms      repository.AdmissionRepository
	births    repository.BirthRecordRepository
	patientsR repository.PatientRepository
	outbox    repository.OutboxRepository
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(
	tx repository.TxManager,
	patients *patient.Service,
	catalogs *catalog.Service,
	rules *Validator,
	reps repository.RepresentativeRepository,
	adms repository.AdmissionRepository,
	births repository.BirthRecordRepository,
	patientsRepo repository.PatientRepository,
	outbox repository.OutboxRepository,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		tx:        tx,
		patients:  patients,
		catalogs:  catalogs,
		rules:     rules,
		reps:      reps,
		adms:      adms,
		births:    births,
		patientsR: patientsRepo,
		outbox:    outbox,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// admissionCreatedEvent is the outbox payload for a committed admission.
type admissionCreatedEvent struct {
	AdmissionID    int64     `json:"admission_id"`
	PatientID      int64     `json:"patient_id"`
	DocumentNumber string    `json:"document_number"`
	AdmissionDate  time.Time `json:"admission_date"`
	RegisteredBy   int64     `json:"registered_by"`
	NewbornRecord  bool      `json:"newborn_record"`
}

// birthRegisteredEvent is the outbox payload for a newborn record written
// alongside the admission.
type birthRegisteredEvent struct {
	AdmissionID     int64     `json:"admission_id"`
	PatientID       int64     `json:"patient_id"`
	MotherPatientID *int64    `json:"mother_patient_id,omitempty"`
	BirthTime       time.Time `json:"birth_time"`
	PlaceID         *int64    `json:"place_id,omitempty"`
}

// Create validates and commits one admission submission. All business
// rules run before the transaction opens, so a rejected submission leaves
// no trace in storage.
func (s *Service) Create(ctx context.Context, req *model.CreateAdmissionRequest, userID int64) (*model.AdmissionResult, error) {
	if req.Patient == nil || req.Admission == nil {
		return nil, apperror.Validation("patient and admission sections are required", nil)
	}
	if err := s.patients.ValidatePayload(req.Patient); err != nil {
		return nil, err
	}

	s.normalizeEthnicity(ctx, req.Patient)

	if err := s.rules.Validate(ctx, req); err != nil {
		s.countRuleViolation(err)
		return nil, err
	}

	start := s.now()
	var result *model.AdmissionResult
	var err error
	for attempt := 0; ; attempt++ {
		result, err = s.runTransaction(ctx, req, userID)
		if err == nil || !apperror.IsCode(err, apperror.CodeDuplicateIdentity) || attempt >= duplicateRetries {
			break
		}
		// Another submission created this patient between our lookup and
		// insert. A fresh run finds their row and updates it instead.
		if s.metrics != nil {
			s.metrics.DuplicateRetries.Inc()
		}
		s.logger.Warn().
			Int("attempt", attempt+1).
			Msg("duplicate identity race, retrying admission transaction")
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.AdmissionsRolledBack.WithLabelValues(rollbackReason(err)).Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AdmissionsCommitted.Inc()
		s.metrics.AdmissionDuration.Observe(s.now().Sub(start).Seconds())
	}
	s.logger.Info().
		Int64("patient_id", result.PatientID).
		Int64("admission_id", result.AdmissionID).
		Int64("registered_by", userID).
		Msg("admission committed")
	return result, nil
}

func (s *Service) runTransaction(ctx context.Context, req *model.CreateAdmissionRequest, userID int64) (*model.AdmissionResult, error) {
	uow, err := s.tx.Begin(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := uow.Rollback(); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("admission rollback failed")
			}
		}
	}()

	pat, err := s.patients.Resolve(ctx, uow, req.Patient, userID)
	if err != nil {
		return nil, err
	}

	if req.Representative.HasDocument() {
		if err := s.upsertRepresentative(ctx, uow, pat.ID, req.Representative); err != nil {
			return nil, err
		}
	}

	adm := &model.Admission{
		PatientID:             pat.ID,
		AdmissionDate:         s.now(),
		ArrivalModeID:         req.Admission.ArrivalModeID,
		ArrivalConditionID:    req.Admission.ArrivalConditionID,
		OriginFacility:        req.Admission.OriginFacility,
		ConsultationReason:    req.Admission.ConsultationReason,
		CurrentIllness:        req.Admission.CurrentIllness,
		Status:                model.AdmissionStatusWaiting,
		CompanionName:         req.Admission.CompanionName,
		CompanionPhone:        req.Admission.CompanionPhone,
		CompanionRelationship: req.Admission.CompanionRelationship,
		RegisteredBy:          userID,
	}
	admissionID, err := s.adms.Create(ctx, uow, adm)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var birth *model.BirthRecord
	if req.Birth != nil {
		birth, err = s.createBirthRecord(ctx, uow, admissionID, pat.ID, req.Birth)
		if err != nil {
			return nil, err
		}
	}

	if err := s.enqueueEvent(ctx, uow, model.EventAdmissionCreated, admissionCreatedEvent{
		AdmissionID:    admissionID,
		PatientID:      pat.ID,
		DocumentNumber: pat.DocumentNumber,
		AdmissionDate:  adm.AdmissionDate,
		RegisteredBy:   userID,
		NewbornRecord:  birth != nil,
	}); err != nil {
		return nil, err
	}
	if birth != nil {
		if err := s.enqueueEvent(ctx, uow, model.EventBirthRegistered, birthRegisteredEvent{
			AdmissionID:     admissionID,
			PatientID:       pat.ID,
			MotherPatientID: birth.MotherPatientID,
			BirthTime:       birth.BirthTime,
			PlaceID:         birth.PlaceID,
		}); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}
	committed = true
	return &model.AdmissionResult{PatientID: pat.ID, AdmissionID: admissionID}, nil
}

// upsertRepresentative creates or refreshes the legal representative row
// for the patient. Supplied fields fully overwrite stored ones.
func (s *Service) upsertRepresentative(ctx context.Context, uow repository.UnitOfWork, patientID int64, payload *model.RepresentativePayload) error {
	existing, err := s.reps.FindByPatient(ctx, uow, patientID)
	switch {
	case err == nil:
		applyRepresentative(existing, payload)
		if err := s.reps.Update(ctx, uow, existing); err != nil {
			return apperror.Internal(err)
		}
		return nil
	case errors.Is(err, repository.ErrNotFound):
		rep := &model.Representative{PatientID: patientID}
		applyRepresentative(rep, payload)
		if _, err := s.reps.Create(ctx, uow, rep); err != nil {
			return apperror.Internal(err)
		}
		return nil
	default:
		return apperror.Internal(err)
	}
}

func applyRepresentative(rep *model.Representative, in *model.RepresentativePayload) {
	if in.IdentityTypeID != nil {
		rep.IdentityTypeID = *in.IdentityTypeID
	}
	if in.DocumentNumber != nil {
		rep.DocumentNumber = *in.DocumentNumber
	}
	if in.FirstName != nil {
		rep.FirstName = *in.FirstName
	}
	if in.MiddleName != nil {
		rep.MiddleName = in.MiddleName
	}
	if in.FirstSurname != nil {
		rep.FirstSurname = *in.FirstSurname
	}
	if in.SecondSurname != nil {
		rep.SecondSurname = in.SecondSurname
	}
	if in.RelationshipID != nil {
		rep.RelationshipID = *in.RelationshipID
	}
	if in.Phone != nil {
		rep.Phone = in.Phone
	}
	if in.Address != nil {
		rep.Address = in.Address
	}
}

// enqueueEvent writes an outbox row inside the enclosing transaction; the
// worker publishes it after commit.
func (s *Service) enqueueEvent(ctx context.Context, uow repository.UnitOfWork, eventType string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := s.outbox.Create(ctx, uow, &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) createBirthRecord(ctx context.Context, uow repository.UnitOfWork, admissionID, patientID int64, payload *model.BirthPayload) (*model.BirthRecord, error) {
	record := &model.BirthRecord{
		AdmissionID:       admissionID,
		PatientID:         patientID,
		PlaceID:           payload.PlaceID,
		WeightGrams:       payload.WeightGrams,
		HeightCm:          payload.HeightCm,
		HeadCircumference: payload.HeadCircumference,
		ApgarFiveMin:      payload.ApgarFiveMin,
		ApgarTenMin:       payload.ApgarTenMin,
		DeliveryType:      payload.DeliveryType,
		DeliveryPosition:  payload.DeliveryPosition,
		AttendedBy:        payload.AttendedBy,
	}
	if payload.BirthTime != nil {
		record.BirthTime = *payload.BirthTime
	} else {
		record.BirthTime = s.now()
	}
	if payload.HepBApplied != nil {
		record.HepBApplied = *payload.HepBApplied
	}
	if payload.BCGApplied != nil {
		record.BCGApplied = *payload.BCGApplied
	}

	// Link the mother when her document resolves to a known patient. The
	// linkage rule already required the document; resolution can still
	// miss for deliveries outside this facility.
	if payload.HasMotherDocument() {
		mother, err := s.patientsR.FindByDocument(ctx, uow, *payload.MotherDocumentNumber)
		switch {
		case err == nil:
			record.MotherPatientID = &mother.ID
		case errors.Is(err, repository.ErrNotFound):
			// leave the link empty
		default:
			return nil, apperror.Internal(err)
		}
	}

	if _, err := s.births.Create(ctx, uow, record); err != nil {
		return nil, apperror.Internal(err)
	}
	return record, nil
}

// normalizeEthnicity runs the classification cascade over the patient
// payload. Children inconsistent with their parent are reset, never
// rejected.
func (s *Service) normalizeEthnicity(ctx context.Context, payload *model.PatientPayload) {
	sel, err := s.catalogs.NormalizeSelection(ctx, model.EthnicSelection{
		EthnicityID:   payload.EthnicityID,
		NationalityID: payload.EthnicNationalityID,
		GroupID:       payload.EthnicGroupID,
	})
	if err != nil {
		// Catalog unavailable: keep the submitted values rather than
		// losing the classification.
		s.logger.Warn().Err(err).Msg("ethnic cascade normalization skipped")
		return
	}
	payload.EthnicityID = sel.EthnicityID
	payload.EthnicNationalityID = sel.NationalityID
	payload.EthnicGroupID = sel.GroupID
}

func (s *Service) countRuleViolation(err error) {
	if s.metrics == nil {
		return
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Rule != "" {
		s.metrics.RuleViolations.WithLabelValues(appErr.Rule).Inc()
	}
}

func rollbackReason(err error) string {
	switch apperror.CodeOf(err) {
	case apperror.CodeValidation:
		return "validation"
	case apperror.CodeBusinessRule:
		return "business_rule"
	case apperror.CodeDuplicateIdentity:
		return "duplicate_identity"
	default:
		return "internal"
	}
}

package appointment

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/platform/apperror"
	"github.com/carefind/carefind/internal/platform/event"
	"github.com/carefind/carefind/internal/platform/notification"
)

// PatientInfo is the slice of a user profile the appointment flow needs.
type PatientInfo struct {
	Name  string
	Email string
}

// PatientDirectory resolves a patient's display name and email address.
// Implemented by the identity service.
type PatientDirectory interface {
	PatientByID(ctx context.Context, id uuid.UUID) (PatientInfo, error)
}

// BookingRequest is the patient-supplied portion of a new appointment.
type BookingRequest struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     time.Time `json:"date"`
	Slot     string    `json:"slot"`
}

type Service struct {
	appointments Repository
	hospitals    hospital.HospitalRepository
	doctors      hospital.DoctorRepository
	patients     PatientDirectory
	events       event.Publisher
	notifier     *notification.Service
	now          func() time.Time
}

func NewService(
	appointments Repository,
	hospitals hospital.HospitalRepository,
	doctors hospital.DoctorRepository,
	patients PatientDirectory,
	events event.Publisher,
	notifier *notification.Service,
) *Service {
	return &Service{
		appointments: appointments,
		hospitals:    hospitals,
		doctors:      doctors,
		patients:     patients,
		events:       events,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Book validates the requested slot and creates a pending appointment with
// doctor, hospital and patient names denormalized from their current
// records. It does not check for double-booking of the same doctor and
// slot; overlapping requests both land as pending and the hospital resolves
// the conflict by declining one.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req BookingRequest) (*Appointment, error) {
	if err := ValidateBooking(req.Date, req.Slot, s.now()); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, "doctor not found")
	}
	hosp, err := s.hospitals.GetByID(ctx, doctor.HospitalID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindRemoteFailure, err, "load hospital")
	}
	patient, err := s.patients.PatientByID(ctx, patientID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindRemoteFailure, err, "load patient")
	}

	a := &Appointment{
		PatientID:    patientID,
		PatientName:  patient.Name,
		DoctorID:     doctor.ID,
		DoctorName:   doctor.Name,
		HospitalID:   hosp.ID,
		HospitalName: hosp.Name,
		Date:         req.Date,
		Slot:         req.Slot,
		Status:       StatusPending,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, apperror.Wrap(apperror.KindRemoteFailure, err, "create appointment")
	}

	s.publish(ctx, event.AppointmentCreated, a)
	s.notify(ctx, patient.Email, notification.TemplateAppointmentRequested, a)
	return a, nil
}

// ListForPatient returns the patient's appointment history, newest first.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

// ListForHospital returns the appointments for the hospital owned by
// ownerUserID. A user without a hospital gets an empty list.
func (s *Service) ListForHospital(ctx context.Context, ownerUserID uuid.UUID) ([]*Appointment, error) {
	hosp, err := s.hospitals.GetByUserID(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if hosp == nil {
		return []*Appointment{}, nil
	}
	return s.appointments.ListByHospital(ctx, hosp.ID)
}

// ApplyAction runs a lifecycle action (accept, decline, complete, cancel)
// against an appointment on behalf of the hospital that owns it.
func (s *Service) ApplyAction(ctx context.Context, ownerUserID, appointmentID uuid.UUID, action Action) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, "appointment not found")
	}
	if err := s.checkHospitalOwnership(ctx, ownerUserID, a.HospitalID); err != nil {
		return nil, err
	}

	next, err := Transition(a.Status, action)
	if err != nil {
		return nil, err
	}
	if err := s.appointments.UpdateStatus(ctx, a.ID, next); err != nil {
		return nil, apperror.Wrap(apperror.KindRemoteFailure, err, "update status")
	}
	a.Status = next

	s.publish(ctx, event.AppointmentUpdated, a)
	if patient, perr := s.patients.PatientByID(ctx, a.PatientID); perr == nil {
		if tmpl := statusTemplate(next); tmpl != "" {
			s.notify(ctx, patient.Email, tmpl, a)
		}
	}
	return a, nil
}

// Rate records a patient rating on a completed appointment and recomputes
// the doctor's and hospital's aggregate ratings as the mean of all ratings
// referencing each, rounded to one decimal place.
func (s *Service) Rate(ctx context.Context, patientID, appointmentID uuid.UUID, rating int, review string) (*Appointment, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.New(apperror.KindValidation, "rating must be between 1 and 5")
	}

	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, "appointment not found")
	}
	if a.PatientID != patientID {
		return nil, apperror.New(apperror.KindForbidden, "appointment belongs to another patient")
	}
	if a.Status != StatusCompleted {
		return nil, apperror.New(apperror.KindInvalidTransition,
			"only completed appointments can be rated")
	}
	if a.Rated() {
		return nil, apperror.New(apperror.KindAlreadyRated, "appointment already rated")
	}

	if err := s.appointments.SetRating(ctx, a.ID, rating, review); err != nil {
		return nil, apperror.Wrap(apperror.KindAlreadyRated, err, "rating already recorded")
	}
	a.Rating = &rating
	a.Review = review

	if err := s.recomputeAggregates(ctx, a.DoctorID, a.HospitalID); err != nil {
		return nil, err
	}

	s.publish(ctx, event.AppointmentUpdated, a)
	return a, nil
}

// recomputeAggregates re-derives both aggregate ratings from the full set of
// recorded ratings, so the result is the same whatever order concurrent
// rating submissions land in.
func (s *Service) recomputeAggregates(ctx context.Context, doctorID, hospitalID uuid.UUID) error {
	doctorRatings, err := s.appointments.RatingsByDoctor(ctx, doctorID)
	if err != nil {
		return apperror.Wrap(apperror.KindRemoteFailure, err, "load doctor ratings")
	}
	if len(doctorRatings) > 0 {
		if err := s.doctors.UpdateRating(ctx, doctorID, roundedMean(doctorRatings)); err != nil {
			return apperror.Wrap(apperror.KindRemoteFailure, err, "update doctor rating")
		}
	}

	hospitalRatings, err := s.appointments.RatingsByHospital(ctx, hospitalID)
	if err != nil {
		return apperror.Wrap(apperror.KindRemoteFailure, err, "load hospital ratings")
	}
	if len(hospitalRatings) > 0 {
		if err := s.hospitals.UpdateRating(ctx, hospitalID, roundedMean(hospitalRatings)); err != nil {
			return apperror.Wrap(apperror.KindRemoteFailure, err, "update hospital rating")
		}
	}
	return nil
}

func roundedMean(ratings []int) float64 {
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

func (s *Service) checkHospitalOwnership(ctx context.Context, ownerUserID, hospitalID uuid.UUID) error {
	hosp, err := s.hospitals.GetByID(ctx, hospitalID)
	if err != nil {
		return apperror.Wrap(apperror.KindRemoteFailure, err, "load hospital")
	}
	if hosp.UserID != ownerUserID {
		return apperror.New(apperror.KindForbidden, "appointment belongs to another hospital")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, kind string, a *Appointment) {
	_ = s.events.Publish(ctx, event.Event{
		Kind:          kind,
		HospitalID:    a.HospitalID,
		AppointmentID: a.ID,
		OccurredAt:    s.now(),
	})
}

func (s *Service) notify(ctx context.Context, email, templateID string, a *Appointment) {
	s.notifier.Send(ctx, email, templateID, map[string]string{
		"patient_name":  a.PatientName,
		"doctor_name":   a.DoctorName,
		"hospital_name": a.HospitalName,
		"date":          a.Date.Format("2006-01-02"),
		"time":          a.Slot,
	})
}

func statusTemplate(status Status) string {
	switch status {
	case StatusConfirmed:
		return notification.TemplateAppointmentConfirmed
	case StatusCancelled:
		return notification.TemplateAppointmentCancelled
	case StatusCompleted:
		return notification.TemplateAppointmentCompleted
	}
	return ""
}

package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carefind/carefind/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryer {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const appointmentCols = `id, patient_id, patient_name, doctor_id, doctor_name,
	hospital_id, hospital_name, date, slot, status, rating, review, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorID, &a.DoctorName,
		&a.HospitalID, &a.HospitalName, &a.Date, &a.Slot, &a.Status,
		&a.Rating, &a.Review, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments
			(id, patient_id, patient_name, doctor_id, doctor_name,
			 hospital_id, hospital_name, date, slot, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		a.HospitalID, a.HospitalName, a.Date, a.Slot, a.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Appointment, error) {
	return r.list(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE hospital_id = $1 ORDER BY created_at DESC`,
		hospitalID)
}

func (r *repoPG) list(ctx context.Context, query string, arg any) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := []*Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

// SetRating writes the rating only when none exists yet, so a concurrent
// second submission loses at the storage layer rather than overwriting.
func (r *repoPG) SetRating(ctx context.Context, id uuid.UUID, rating int, review string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET rating=$2, review=$3, updated_at=NOW()
		WHERE id = $1 AND rating IS NULL`,
		id, rating, review)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) RatingsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]int, error) {
	return r.ratings(ctx,
		`SELECT rating FROM appointments WHERE doctor_id = $1 AND rating IS NOT NULL`, doctorID)
}

func (r *repoPG) RatingsByHospital(ctx context.Context, hospitalID uuid.UUID) ([]int, error) {
	return r.ratings(ctx,
		`SELECT rating FROM appointments WHERE hospital_id = $1 AND rating IS NOT NULL`, hospitalID)
}

func (r *repoPG) ratings(ctx context.Context, query string, arg any) ([]int, error) {
	rows, err := r.conn(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ratings = append(ratings, v)
	}
	return ratings, rows.Err()
}

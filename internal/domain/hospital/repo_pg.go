package hospital

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carefind/carefind/internal/platform/db"
)

// =========== Hospital Repository ===========

type hospitalRepoPG struct{ pool *pgxpool.Pool }

func NewHospitalRepoPG(pool *pgxpool.Pool) HospitalRepository { return &hospitalRepoPG{pool: pool} }

func (r *hospitalRepoPG) conn(ctx context.Context) db.Queryer {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const hospitalCols = `id, name, address, phone, image, rating, lat, lng, user_id, created_at, updated_at`

func (r *hospitalRepoPG) scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Address, &h.Phone, &h.Image, &h.Rating,
		&h.Lat, &h.Lng, &h.UserID, &h.CreatedAt, &h.UpdatedAt)
	return &h, err
}

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospitals (id, name, address, phone, image, rating, lat, lng, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		h.ID, h.Name, h.Address, h.Phone, h.Image, h.Rating, h.Lat, h.Lng, h.UserID)
	return err
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := r.scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalCols+` FROM hospitals WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	doctors, err := r.doctorsFor(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	h.Doctors = doctors
	return h, nil
}

func (r *hospitalRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Hospital, error) {
	h, err := r.scanHospital(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hospitalCols+` FROM hospitals WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	doctors, err := r.doctorsFor(ctx, h.ID)
	if err != nil {
		return nil, err
	}
	h.Doctors = doctors
	return h, nil
}

// ListAll loads every hospital and attaches doctors in a single second query
// grouped by hospital, avoiding a per-hospital fetch.
func (r *hospitalRepoPG) ListAll(ctx context.Context) ([]*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+hospitalCols+` FROM hospitals ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hospitals []*Hospital
	byID := make(map[uuid.UUID]*Hospital)
	for rows.Next() {
		h, err := r.scanHospital(rows)
		if err != nil {
			return nil, err
		}
		h.Doctors = []*Doctor{}
		hospitals = append(hospitals, h)
		byID[h.ID] = h
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	drows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		d, err := scanDoctor(drows)
		if err != nil {
			return nil, err
		}
		if h, ok := byID[d.HospitalID]; ok {
			h.Doctors = append(h.Doctors, d)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospitals SET name=$2, address=$3, phone=$4, image=$5, lat=$6, lng=$7, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.Address, h.Phone, h.Image, h.Lat, h.Lng)
	return err
}

func (r *hospitalRepoPG) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE hospitals SET rating=$2, updated_at=NOW() WHERE id = $1`, id, rating)
	return err
}

func (r *hospitalRepoPG) doctorsFor(ctx context.Context, hospitalID uuid.UUID) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE hospital_id = $1 ORDER BY created_at ASC`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := []*Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Queryer {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `id, name, specialization, experience, rating, image, hospital_id, available, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Experience, &d.Rating,
		&d.Image, &d.HospitalID, &d.Available, &d.CreatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, name, specialization, experience, rating, image, hospital_id, available)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.Name, d.Specialization, d.Experience, d.Rating, d.Image, d.HospitalID, d.Available)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET name=$2, specialization=$3, experience=$4, image=$5, available=$6
		WHERE id = $1`,
		d.ID, d.Name, d.Specialization, d.Experience, d.Image, d.Available)
	return err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	return err
}

func (r *doctorRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE hospital_id = $1 ORDER BY created_at ASC`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := []*Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *doctorRepoPG) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET rating=$2 WHERE id = $1`, id, rating)
	return err
}

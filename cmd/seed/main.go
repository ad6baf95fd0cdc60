package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/hospital-booking/internal/appointment"
	"github.com/medicore/hospital-booking/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	serviceIDs, err := seedServices(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedUsers(context.Background(), pool, 200); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, serviceIDs, 2000); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	departments := []struct {
		title string
		icon  string
	}{
		{"Dermatology", "skin"},
		{"Cardiology", "heart"},
		{"General Practice", "stethoscope"},
		{"Orthopedics", "bone"},
		{"Endocrinology", "gland"},
		{"Neurology", "brain"},
		{"Pediatrics", "child"},
		{"Psychiatry", "mind"},
		{"Ophthalmology", "eye"},
		{"ENT", "ear"},
	}

	log.Printf("seeding %d services", len(departments))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, len(departments))
	for _, dept := range departments {
		id := uuid.New()
		keyServices := []string{
			gofakeit.Sentence(3),
			gofakeit.Sentence(3),
			gofakeit.Sentence(3),
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, title, description, key_services, icon_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, dept.title, gofakeit.Paragraph(1, 3, 8, " "), keyServices, dept.icon)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("services seeded")
	return ids, nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d users", count)

	// One hash for every seeded account; per-row bcrypt would make the
	// seed take minutes.
	hash, err := bcrypt.GenerateFromPassword([]byte("Seeded@123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			role := "user"
			if i == 0 {
				role = "admin"
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, name, email, password_hash, phone, role, logs_count, last_login, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, 0, NULL, now())
			`, uuid.New(), gofakeit.Name(), fmt.Sprintf("seed%d@%s", i, gofakeit.DomainName()),
				string(hash), fakePhone(), role)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("users seeded: %d/%d", end, count)
	}

	log.Println("users seeded")
	return nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, serviceIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	doctorIDs := make([]uuid.UUID, 20)
	for i := range doctorIDs {
		doctorIDs[i] = uuid.New()
	}

	statuses := []appointment.Status{
		appointment.StatusPending,
		appointment.StatusPending,
		appointment.StatusPostponed,
		appointment.StatusCompleted,
		appointment.StatusCancelled,
	}

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			date := gofakeit.DateRange(
				time.Now().AddDate(0, -2, 0),
				time.Now().AddDate(0, 1, 0),
			).Format("2006-01-02")
			time12 := fakeSlotTime()

			scheduledAt, err := appointment.ComputeScheduledAt(date, time12)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}

			status := statuses[gofakeit.Number(0, len(statuses)-1)]
			var completedAt, cancelledAt *time.Time
			now := time.Now()
			switch status {
			case appointment.StatusCompleted:
				completedAt = &now
			case appointment.StatusCancelled:
				cancelledAt = &now
			}

			var doctorID *uuid.UUID
			if gofakeit.Bool() {
				doctorID = &doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO appointments (id, user_id, name, email, phone, service_id, doctor_id,
					date, time, scheduled_at, status, details,
					completed_at, cancelled_at, created_at, updated_at)
				VALUES ($1, NULL, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
			`, uuid.New(), gofakeit.Name(), gofakeit.Email(), fakePhone(),
				serviceIDs[gofakeit.Number(0, len(serviceIDs)-1)], doctorID,
				date, time12, scheduledAt, status, gofakeit.Sentence(8),
				completedAt, cancelledAt)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("appointments seeded: %d/%d", end, count)
	}

	log.Println("appointments seeded")
	return nil
}

// fakePhone generates a 10-digit number starting with 6-9, matching the
// format the booking validators accept.
func fakePhone() string {
	return fmt.Sprintf("%d%09d", gofakeit.Number(6, 9), gofakeit.Number(0, 999999999))
}

// fakeSlotTime picks a half-hour clinic slot between 9 AM and 5 PM.
func fakeSlotTime() string {
	hour := gofakeit.Number(9, 16)
	minute := [2]int{0, 30}[gofakeit.Number(0, 1)]

	period := "AM"
	display := hour
	if hour >= 12 {
		period = "PM"
		if hour > 12 {
			display = hour - 12
		}
	}
	return fmt.Sprintf("%02d:%02d %s", display, minute, period)
}

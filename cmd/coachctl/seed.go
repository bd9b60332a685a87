package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coachhub/database"
	appointmentRepo "coachhub/database/repository/appointment"
	checkinRepo "coachhub/database/repository/checkin"
	planRepo "coachhub/database/repository/plan"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/user"
	"coachhub/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const demoDoctorEmail = "demo.doctor@coachhub.local"

var errAlreadySeeded = errors.New("demo data already present")

// seedRepos are the stores the demo data is written to.
type seedRepos struct {
	Users        userRepo.UserRepository
	Plans        planRepo.PlanRepository
	Meals        planRepo.MealRepository
	Appointments appointmentRepo.AppointmentRepository
	CheckIns     checkinRepo.CheckInRepository
}

type seedResult struct {
	DoctorID     string
	ClientIDs    []string
	Meals        int
	Appointments int
	CheckIns     int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo doctor with clients, a plan, appointments and check-ins",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		db := database.Database()
		repos := seedRepos{
			Users:        userRepo.NewMongoUserRepo(db),
			Plans:        planRepo.NewMongoPlanRepo(db),
			Meals:        planRepo.NewMongoMealRepo(db),
			Appointments: appointmentRepo.NewMongoAppointmentRepo(db),
			CheckIns:     checkinRepo.NewMongoCheckInRepo(db),
		}
		res, err := seedDemo(cmd.Context(), repos, password, time.Now().UTC())
		if errors.Is(err, errAlreadySeeded) {
			fmt.Printf("Demo doctor %s already exists, nothing to do\n", demoDoctorEmail)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Seeded doctor %s (%s) with %d clients, %d meals, %d appointments, %d check-ins\n",
			demoDoctorEmail, res.DoctorID, len(res.ClientIDs), res.Meals, res.Appointments, res.CheckIns)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("password", "p", "coachhub-demo", "Password for every demo account")
}

func seedDemo(ctx context.Context, r seedRepos, password string, now time.Time) (*seedResult, error) {
	if _, err := r.Users.GetByEmail(ctx, demoDoctorEmail); err == nil {
		return nil, errAlreadySeeded
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}
	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, err
	}

	doctor := &models.User{ID: uuid.NewString(), Role: models.RoleDoctor, Name: "Dr. Demo", Email: demoDoctorEmail, PasswordHash: hash}
	if err := r.Users.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	res := &seedResult{DoctorID: doctor.ID}

	roster := []struct {
		name, email   string
		status        models.ClientStatus
		tags          []string
		start, target float64
	}{
		{"Ana Ruiz", "ana@coachhub.local", models.ClientActive, []string{"weight-loss"}, 82, 72},
		{"Ben Okafor", "ben@coachhub.local", models.ClientActive, []string{"muscle-gain", "athlete"}, 70, 76},
		{"Cara Lind", "cara@coachhub.local", models.ClientPaused, nil, 64, 60},
	}
	for _, c := range roster {
		client := &models.User{
			ID: uuid.NewString(), Role: models.RoleClient, Name: c.name, Email: c.email, PasswordHash: hash,
			Client: &models.ClientProfile{
				DoctorID: doctor.ID, Status: c.status, Tags: c.tags,
				StartWeightKg: c.start, TargetWeightKg: c.target, HeightCm: 170,
			},
		}
		if err := r.Users.Create(ctx, client); err != nil {
			return nil, fmt.Errorf("create client %s: %w", c.email, err)
		}
		res.ClientIDs = append(res.ClientIDs, client.ID)
	}
	ana := res.ClientIDs[0]

	week := utils.WeekStart(now)
	p := &models.Plan{
		ID: uuid.NewString(), ClientID: ana, DoctorID: doctor.ID, Format: models.PlanFormatDaily,
		Name: "Balanced week", Tags: []string{"balanced"}, StartDate: week,
	}
	if err := r.Plans.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	for day := 1; day <= 3; day++ {
		for _, name := range []string{"Breakfast", "Lunch"} {
			m := &models.Meal{
				ID: uuid.NewString(), PlanID: p.ID, ClientID: ana, DayID: fmt.Sprintf("day-%d", day), Name: name,
				Categories: []models.MealCategory{
					{Name: "Protein", Options: []models.MealOption{{Name: "Eggs"}, {Name: "Greek yogurt"}}},
					{Name: "Carbs", Options: []models.MealOption{{Name: "Oats"}, {Name: "Rye bread"}}},
				},
			}
			if day == 1 {
				done := week.Add(9 * time.Hour)
				m.IsCompleted, m.CompletedAt = true, &done
			}
			if err := r.Meals.Create(ctx, m); err != nil {
				return nil, fmt.Errorf("create meal: %w", err)
			}
			res.Meals++
		}
	}

	tomorrow := utils.StartOfDay(now).AddDate(0, 0, 1).Add(10 * time.Hour)
	lastWeek := utils.StartOfDay(now).AddDate(0, 0, -7).Add(15 * time.Hour)
	for _, a := range []models.Appointment{
		{ClientID: ana, StartsAt: tomorrow, Status: models.AppointmentScheduled, Notes: "Weekly review"},
		{ClientID: res.ClientIDs[1], StartsAt: lastWeek, Status: models.AppointmentCompleted},
	} {
		a.ID, a.DoctorID, a.EndsAt = uuid.NewString(), doctor.ID, a.StartsAt.Add(30*time.Minute)
		if err := r.Appointments.Create(ctx, &a); err != nil {
			return nil, fmt.Errorf("create appointment: %w", err)
		}
		res.Appointments++
	}

	for i := 4; i >= 0; i-- {
		ci := &models.CheckIn{
			ID: uuid.NewString(), ClientID: ana, DoctorID: doctor.ID,
			Date:     utils.StartOfDay(now).AddDate(0, 0, -i).Add(8 * time.Hour),
			WeightKg: 82 - float64(4-i)*0.3, Mood: 3 + i%2, Energy: 4,
		}
		if err := r.CheckIns.Create(ctx, ci); err != nil {
			return nil, fmt.Errorf("create check-in: %w", err)
		}
		res.CheckIns++
	}
	if err := r.Users.SetLastCheckIn(ctx, ana, utils.StartOfDay(now).Add(8*time.Hour)); err != nil {
		return nil, err
	}
	return res, nil
}

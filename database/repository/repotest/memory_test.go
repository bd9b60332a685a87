package repotest

import (
	appointmentRepo "coachhub/database/repository/appointment"
	checkinRepo "coachhub/database/repository/checkin"
	planRepo "coachhub/database/repository/plan"
	userRepo "coachhub/database/repository/user"
)

var (
	_ userRepo.UserRepository               = (*Users)(nil)
	_ planRepo.PlanRepository               = (*Plans)(nil)
	_ planRepo.MealRepository               = (*Meals)(nil)
	_ appointmentRepo.AppointmentRepository = (*Appointments)(nil)
	_ checkinRepo.CheckInRepository         = (*CheckIns)(nil)
)

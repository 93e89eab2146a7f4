package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/sfk-console-api/internal/models"
	"github.com/noah-isme/sfk-console-api/pkg/normalize"
)

// mapUsers keeps the privileged seed accounts in front of the synced ones.
func mapUsers(rows []normalize.Row, seeds []models.User) []models.User {
	users := make([]models.User, 0, len(seeds)+len(rows))
	kept := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		if !seed.Role.Privileged() {
			continue
		}
		seed.Seed = true
		users = append(users, seed)
		kept[strings.ToLower(seed.Login)] = struct{}{}
	}
	for _, row := range rows {
		login := normalize.Field(row, aliasUserLogin)
		if login == "" {
			continue
		}
		if _, dup := kept[strings.ToLower(login)]; dup {
			continue
		}
		users = append(users, models.User{
			Login:    login,
			Password: normalize.Field(row, aliasUserPassword),
			Role:     models.UserRole(normalize.Field(row, aliasUserRole)),
			Name:     normalize.Field(row, aliasUserName),
		})
	}
	return users
}

func mapClasses(rows []normalize.Row) []models.Class {
	classes := make([]models.Class, 0, len(rows))
	for _, row := range rows {
		name := normalize.Field(row, aliasClassName)
		if name == "" {
			continue
		}
		classes = append(classes, models.Class{
			ID:           name,
			Name:         name,
			Unit:         normalize.Field(row, aliasClassUnit),
			Schedule:     normalize.Field(row, aliasClassSchedule),
			Instructor:   normalize.Field(row, aliasClassInstructor),
			Capacity:     parseCount(normalize.Field(row, aliasClassCapacity)),
			MonthlyPrice: normalize.ParseCurrency(normalize.Field(row, aliasClassPrice)),
		})
	}
	return classes
}

func parseCount(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, ",", ".")), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f)
}

func isActiveStatus(raw string) bool {
	switch strings.ToLower(normalize.StripAccents(strings.TrimSpace(raw))) {
	case "ativo", "sim", "m", "a":
		return true
	}
	return false
}

// mapRoster turns the base sheet into students and their active enrollments. Student fields
// come from the row with the latest enrollment date; ties keep the first row seen.
func mapRoster(rows []normalize.Row) ([]models.Student, []models.Enrollment) {
	var order []string
	students := make(map[string]*models.Student)
	active := make(map[string]bool)
	cancelled := make(map[string][]models.CancelledCourse)

	enrollments := make([]models.Enrollment, 0, len(rows))
	seenEnrollment := make(map[string]struct{})

	for _, row := range rows {
		name := normalize.Field(row, aliasStudentName)
		slug := normalize.Slug(name)
		if slug == "" {
			continue
		}

		course := normalize.Field(row, aliasStudentCourse, forbiddenStudentCourse...)
		unit := normalize.Field(row, aliasStudentUnit)
		enrolledAt := normalize.ParseDate(normalize.Field(row, aliasEnrollmentDate))
		grade := normalize.Field(row, aliasStudentGrade)

		candidate := models.Student{
			ID:             slug,
			Name:           name,
			BirthDate:      normalize.FormatDate(normalize.ParseDate(normalize.Field(row, aliasStudentBirth))),
			Stage:          normalize.ClassifyStage(normalize.Field(row, aliasStudentStage), grade),
			Grade:          normalize.CleanGrade(grade),
			SchoolClass:    normalize.Field(row, aliasStudentClass),
			Email:          normalize.Field(row, aliasStudentEmail),
			Guardian1:      normalize.Field(row, aliasGuardian1),
			Guardian1Phone: normalize.SanitizePhone(normalize.Field(row, aliasGuardian1Phone)),
			Guardian2:      normalize.Field(row, aliasGuardian2),
			Guardian2Phone: normalize.SanitizePhone(normalize.Field(row, aliasGuardian2Phone)),
			Unit:           unit,
			EnrollmentDate: enrolledAt,
		}

		if current, ok := students[slug]; !ok {
			order = append(order, slug)
			students[slug] = &candidate
		} else if enrolledAt.After(current.EnrollmentDate) {
			*current = candidate
		}

		if isActiveStatus(normalize.Field(row, aliasStudentStatus)) {
			active[slug] = true
			if course == "" {
				continue
			}
			id := slug + "|" + normalize.Slug(course) + "|" + normalize.Slug(unit)
			if _, dup := seenEnrollment[id]; dup {
				continue
			}
			seenEnrollment[id] = struct{}{}
			enrollments = append(enrollments, models.Enrollment{
				ID:             id,
				StudentID:      slug,
				ClassID:        course,
				Unit:           unit,
				EnrollmentDate: enrolledAt,
			})
			continue
		}

		if course != "" {
			cancelled[slug] = append(cancelled[slug], models.CancelledCourse{
				Course:           course,
				Unit:             unit,
				EnrollmentDate:   normalize.FormatDate(enrolledAt),
				CancellationDate: normalize.FormatDate(normalize.ParseDate(normalize.Field(row, aliasCancellationDate))),
			})
		}
	}

	out := make([]models.Student, 0, len(order))
	for _, slug := range order {
		st := *students[slug]
		st.CancelledCourses = cancelled[slug]
		if st.CancelledCourses == nil {
			st.CancelledCourses = []models.CancelledCourse{}
		}
		st.Status = models.StudentStatusCancelled
		if active[slug] {
			st.Status = models.StudentStatusActive
		}
		out = append(out, st)
	}
	return out, enrollments
}

func mapAttendance(rows []normalize.Row) []models.AttendanceRecord {
	records := make([]models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		name := normalize.Field(row, aliasAttendanceStudent)
		slug := normalize.Slug(name)
		date := normalize.ParseDate(normalize.Field(row, aliasAttendanceDate))
		if slug == "" || normalize.IsZeroDate(date) {
			continue
		}
		class := normalize.Field(row, aliasAttendanceClass)
		status := models.AttendanceAbsent
		if normalize.Field(row, aliasAttendanceStatus) == string(models.AttendancePresent) {
			status = models.AttendancePresent
		}
		var submitted time.Time
		if at := normalize.ParseDate(normalize.Field(row, aliasAttendanceSentAt)); !normalize.IsZeroDate(at) {
			submitted = at
		}
		day := normalize.FormatDate(date)
		records = append(records, models.AttendanceRecord{
			ID:          slug + "|" + normalize.Slug(class) + "|" + day,
			StudentID:   slug,
			StudentName: name,
			ClassID:     class,
			Unit:        normalize.Field(row, aliasAttendanceUnit),
			Date:        day,
			Status:      status,
			Note:        normalize.Field(row, aliasAttendanceNote),
			SubmittedAt: submitted,
			AlarmSent:   normalize.ParseFlag(normalize.Field(row, aliasAttendanceAlarm)),
		})
	}
	return records
}

func trialStatus(raw string) models.TrialStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "presente":
		return models.TrialPresent
	case "ausente":
		return models.TrialAbsent
	default:
		return models.TrialPending
	}
}

func mapTrialLeads(rows []normalize.Row) []models.TrialLead {
	leads := make([]models.TrialLead, 0, len(rows))
	seen := make(map[string]int)
	for _, row := range rows {
		name := normalize.Field(row, aliasTrialStudent)
		if name == "" {
			continue
		}
		course := normalize.Field(row, aliasTrialCourse)
		date := normalize.FormatDate(normalize.ParseDate(normalize.Field(row, aliasTrialDate)))

		id := normalize.Field(row, aliasTrialID)
		if id == "" {
			id = normalize.Slug(name) + "|" + normalize.Slug(course) + "|" + date
		}
		// Identical rows would otherwise share an ID and become unaddressable.
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = id + "#" + strconv.Itoa(n+1)
		} else {
			seen[id] = 1
		}

		leads = append(leads, models.TrialLead{
			ID:            id,
			StudentName:   name,
			Grade:         normalize.Field(row, aliasTrialGrade),
			Course:        course,
			Unit:          normalize.Field(row, aliasTrialUnit),
			ScheduledDate: date,
			GuardianName:  normalize.Field(row, aliasTrialGuardian),
			GuardianPhone: normalize.SanitizePhone(normalize.Field(row, aliasTrialPhone)),
			Status:        trialStatus(normalize.Field(row, aliasTrialStatus)),
			FollowUpSent:  normalize.ParseFlag(normalize.Field(row, aliasTrialFollowUp)),
			ReminderSent:  normalize.ParseFlag(normalize.Field(row, aliasTrialReminder)),
			Converted:     normalize.ParseFlag(normalize.Field(row, aliasTrialConverted)),
			Note:          normalize.Field(row, aliasTrialNote),
		})
	}
	return leads
}

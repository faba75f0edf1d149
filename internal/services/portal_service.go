package services

import (
	"context"
	"fmt"
	"time"

	"campus-portal/internal/cache"
	"campus-portal/internal/database"
	"campus-portal/internal/models"
	"campus-portal/pkg/logger"
)

// Notifier is the dispatch surface the portal pushes through. All three
// modes are fire-and-forget; a dispatch with nobody connected succeeds
// trivially.
type Notifier interface {
	NotifyUser(role models.Role, ids []int, n models.Notification)
	NotifyUserType(role models.Role, n models.Notification)
	NotifyAll(n models.Notification)
}

const announcementsCacheKey = "announcements"

type PortalService struct {
	db       database.Database
	cache    *cache.Cache
	notifier Notifier
}

// NewPortalService wires the portal operations. cache may be nil to run
// without Redis.
func NewPortalService(db database.Database, c *cache.Cache, notifier Notifier) *PortalService {
	return &PortalService{db: db, cache: c, notifier: notifier}
}

// Announcements

func (s *PortalService) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	if s.cache != nil {
		var cached []*models.Announcement
		hit, err := s.cache.Get(ctx, announcementsCacheKey, &cached)
		if err != nil {
			logger.Warn("Announcement cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	announcements, err := s.db.ListAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, announcementsCacheKey, announcements); err != nil {
			logger.Warn("Announcement cache write failed: %v", err)
		}
	}
	return announcements, nil
}

func (s *PortalService) CreateAnnouncement(ctx context.Context, req *models.CreateAnnouncementRequest, createdBy int) (*models.Announcement, error) {
	if req.Title == "" || req.Body == "" {
		return nil, fmt.Errorf("title and body are required")
	}
	switch req.Audience {
	case models.AudienceAll, models.AudienceStudent, models.AudienceFaculty:
	case "":
		req.Audience = models.AudienceAll
	default:
		return nil, fmt.Errorf("unknown audience %q", req.Audience)
	}

	announcement, err := s.db.CreateAnnouncement(ctx, req, createdBy)
	if err != nil {
		return nil, err
	}
	s.invalidateAnnouncements(ctx)

	n := models.Notification{
		Type:    models.NotificationInfo,
		Title:   announcement.Title,
		Message: announcement.Body,
	}
	switch announcement.Audience {
	case models.AudienceStudent:
		s.notifier.NotifyUserType(models.RoleStudent, n)
	case models.AudienceFaculty:
		s.notifier.NotifyUserType(models.RoleFaculty, n)
	default:
		s.notifier.NotifyAll(n)
	}

	return announcement, nil
}

func (s *PortalService) DeleteAnnouncement(ctx context.Context, id int) error {
	if err := s.db.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	s.invalidateAnnouncements(ctx)
	return nil
}

func (s *PortalService) invalidateAnnouncements(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, announcementsCacheKey); err != nil {
		logger.Warn("Announcement cache invalidation failed: %v", err)
	}
}

// Attendance

func (s *PortalService) MarkAttendance(ctx context.Context, req *models.MarkAttendanceRequest, markedBy int) error {
	if len(req.StudentIDs) == 0 {
		return fmt.Errorf("no students given")
	}

	subject, err := s.db.GetSubjectByID(ctx, req.SubjectID)
	if err != nil {
		return fmt.Errorf("unknown subject: %w", err)
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", req.Date, err)
		}
	}

	absent := make(map[int]bool, len(req.AbsentIDs))
	for _, id := range req.AbsentIDs {
		absent[id] = true
	}

	records := make([]*models.AttendanceRecord, 0, len(req.StudentIDs))
	for _, id := range req.StudentIDs {
		records = append(records, &models.AttendanceRecord{
			StudentID: id,
			SubjectID: req.SubjectID,
			Date:      date,
			Present:   !absent[id],
			MarkedBy:  markedBy,
		})
	}

	if err := s.db.SaveAttendance(ctx, records); err != nil {
		return err
	}

	s.notifier.NotifyUser(models.RoleStudent, req.StudentIDs, models.Notification{
		Type:    models.NotificationInfo,
		Title:   "Attendance Marked",
		Message: fmt.Sprintf("Attendance for %s recorded for %s", subject.Name, date.Format("02 Jan 2006")),
	})
	return nil
}

func (s *PortalService) ListAttendanceForStudent(ctx context.Context, studentID int) ([]*models.AttendanceRecord, error) {
	return s.db.ListAttendanceForStudent(ctx, studentID)
}

// Marks

func (s *PortalService) RecordMarks(ctx context.Context, req *models.RecordMarksRequest, enteredBy int) error {
	if len(req.Scores) == 0 {
		return fmt.Errorf("no scores given")
	}
	if req.Exam == "" {
		return fmt.Errorf("exam name is required")
	}

	subject, err := s.db.GetSubjectByID(ctx, req.SubjectID)
	if err != nil {
		return fmt.Errorf("unknown subject: %w", err)
	}

	records := make([]*models.MarkRecord, 0, len(req.Scores))
	studentIDs := make([]int, 0, len(req.Scores))
	for _, score := range req.Scores {
		if score.Score < 0 || score.Score > req.MaxScore {
			return fmt.Errorf("score %d out of range for student %d", score.Score, score.StudentID)
		}
		records = append(records, &models.MarkRecord{
			StudentID: score.StudentID,
			SubjectID: req.SubjectID,
			Exam:      req.Exam,
			Score:     score.Score,
			MaxScore:  req.MaxScore,
			EnteredBy: enteredBy,
		})
		studentIDs = append(studentIDs, score.StudentID)
	}

	if err := s.db.SaveMarks(ctx, records); err != nil {
		return err
	}

	s.notifier.NotifyUser(models.RoleStudent, studentIDs, models.Notification{
		Type:    models.NotificationInfo,
		Title:   "Marks Published",
		Message: fmt.Sprintf("%s marks for %s are available on your dashboard", req.Exam, subject.Name),
	})
	return nil
}

func (s *PortalService) ListMarksForStudent(ctx context.Context, studentID int) ([]*models.MarkRecord, error) {
	return s.db.ListMarksForStudent(ctx, studentID)
}

// Achievements

func (s *PortalService) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	return s.db.ListAchievements(ctx)
}

func (s *PortalService) AddAchievement(ctx context.Context, req *models.CreateAchievementRequest) (*models.Achievement, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	achievement, err := s.db.CreateAchievement(ctx, req)
	if err != nil {
		return nil, err
	}

	student, err := s.db.GetStudentByID(ctx, achievement.StudentID)
	message := achievement.Description
	if err == nil {
		message = fmt.Sprintf("%s: %s", student.Name, achievement.Description)
	}

	s.notifier.NotifyAll(models.Notification{
		Type:    models.NotificationSuccess,
		Title:   achievement.Title,
		Message: message,
	})
	return achievement, nil
}

// Directory

func (s *PortalService) ListFaculty(ctx context.Context) ([]*models.Faculty, error) {
	return s.db.ListFaculty(ctx)
}

func (s *PortalService) GetFaculty(ctx context.Context, id int) (*models.Faculty, error) {
	return s.db.GetFacultyByID(ctx, id)
}

func (s *PortalService) CreateFaculty(ctx context.Context, req *models.CreateFacultyRequest) (*models.Faculty, error) {
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters long")
	}
	return s.db.CreateFaculty(ctx, req)
}

func (s *PortalService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.db.ListStudents(ctx)
}

func (s *PortalService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.db.ListSubjects(ctx)
}

func (s *PortalService) CreateSubject(ctx context.Context, req *models.CreateSubjectRequest) (*models.Subject, error) {
	if req.Code == "" || req.Name == "" {
		return nil, fmt.Errorf("code and name are required")
	}
	return s.db.CreateSubject(ctx, req)
}

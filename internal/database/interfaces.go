package database

import (
	"context"

	"campus-portal/internal/models"
)

type StudentRepository interface {
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
}

type FacultyRepository interface {
	GetFacultyByEmail(ctx context.Context, email string) (*models.Faculty, error)
	GetFacultyByID(ctx context.Context, id int) (*models.Faculty, error)
	ListFaculty(ctx context.Context) ([]*models.Faculty, error)
	CreateFaculty(ctx context.Context, req *models.CreateFacultyRequest) (*models.Faculty, error)
}

type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type SubjectRepository interface {
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	GetSubjectByID(ctx context.Context, id int) (*models.Subject, error)
	CreateSubject(ctx context.Context, req *models.CreateSubjectRequest) (*models.Subject, error)
}

type AnnouncementRepository interface {
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
	CreateAnnouncement(ctx context.Context, req *models.CreateAnnouncementRequest, createdBy int) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int) error
}

type AchievementRepository interface {
	ListAchievements(ctx context.Context) ([]*models.Achievement, error)
	CreateAchievement(ctx context.Context, req *models.CreateAchievementRequest) (*models.Achievement, error)
}

type AttendanceRepository interface {
	SaveAttendance(ctx context.Context, records []*models.AttendanceRecord) error
	ListAttendanceForStudent(ctx context.Context, studentID int) ([]*models.AttendanceRecord, error)
}

type MarkRepository interface {
	SaveMarks(ctx context.Context, records []*models.MarkRecord) error
	ListMarksForStudent(ctx context.Context, studentID int) ([]*models.MarkRecord, error)
}

type Database interface {
	StudentRepository
	FacultyRepository
	AdminRepository
	SubjectRepository
	AnnouncementRepository
	AchievementRepository
	AttendanceRepository
	MarkRepository
	Close() error
}

package models

import "time"

// Audience selects who an announcement is pushed to.
type Audience string

const (
	AudienceAll     Audience = "all"
	AudienceStudent Audience = "student"
	AudienceFaculty Audience = "faculty"
)

type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  Audience  `json:"audience"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateAnnouncementRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Audience Audience `json:"audience"`
}

type Subject struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Semester  int       `json:"semester"`
	FacultyID int       `json:"faculty_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSubjectRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Semester  int    `json:"semester"`
	FacultyID int    `json:"faculty_id"`
}

type Achievement struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StudentID   int       `json:"student_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateAchievementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StudentID   int    `json:"student_id"`
}

type AttendanceRecord struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	SubjectID int       `json:"subject_id"`
	Date      time.Time `json:"date"`
	Present   bool      `json:"present"`
	MarkedBy  int       `json:"marked_by"`
}

// MarkAttendanceRequest records one session's attendance for a subject.
// AbsentIDs must be a subset of StudentIDs.
type MarkAttendanceRequest struct {
	SubjectID  int    `json:"subject_id"`
	Date       string `json:"date"`
	StudentIDs []int  `json:"student_ids"`
	AbsentIDs  []int  `json:"absent_ids"`
}

type MarkRecord struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	SubjectID int       `json:"subject_id"`
	Exam      string    `json:"exam"`
	Score     int       `json:"score"`
	MaxScore  int       `json:"max_score"`
	EnteredBy int       `json:"entered_by"`
	CreatedAt time.Time `json:"created_at"`
}

type StudentScore struct {
	StudentID int `json:"student_id"`
	Score     int `json:"score"`
}

type RecordMarksRequest struct {
	SubjectID int            `json:"subject_id"`
	Exam      string         `json:"exam"`
	MaxScore  int            `json:"max_score"`
	Scores    []StudentScore `json:"scores"`
}

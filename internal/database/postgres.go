package database

import (
	"context"
	"fmt"

	"campus-portal/internal/models"
	"campus-portal/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// Student Repository Implementation
func (db *PostgresDB) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT id, name, email, roll_number, semester, password_hash, created_at FROM students WHERE email = $1`

	s := &models.Student{}
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&s.ID, &s.Name, &s.Email, &s.RollNumber, &s.Semester, &s.PasswordHash, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (db *PostgresDB) GetStudentByID(ctx context.Context, id int) (*models.Student, error) {
	query := `SELECT id, name, email, roll_number, semester, created_at FROM students WHERE id = $1`

	s := &models.Student{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &s.RollNumber, &s.Semester, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (db *PostgresDB) ListStudents(ctx context.Context) ([]*models.Student, error) {
	query := `SELECT id, name, email, roll_number, semester, created_at FROM students ORDER BY roll_number`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.RollNumber, &s.Semester, &s.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Faculty Repository Implementation
func (db *PostgresDB) GetFacultyByEmail(ctx context.Context, email string) (*models.Faculty, error) {
	query := `SELECT id, name, email, designation, department, password_hash, created_at FROM faculty WHERE email = $1`

	f := &models.Faculty{}
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&f.ID, &f.Name, &f.Email, &f.Designation, &f.Department, &f.PasswordHash, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (db *PostgresDB) GetFacultyByID(ctx context.Context, id int) (*models.Faculty, error) {
	query := `SELECT id, name, email, designation, department, created_at FROM faculty WHERE id = $1`

	f := &models.Faculty{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Email, &f.Designation, &f.Department, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (db *PostgresDB) ListFaculty(ctx context.Context) ([]*models.Faculty, error) {
	query := `SELECT id, name, email, designation, department, created_at FROM faculty ORDER BY name`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty: %w", err)
	}
	defer rows.Close()

	var faculty []*models.Faculty
	for rows.Next() {
		f := &models.Faculty{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Designation, &f.Department, &f.CreatedAt); err != nil {
			return nil, err
		}
		faculty = append(faculty, f)
	}
	return faculty, rows.Err()
}

func (db *PostgresDB) CreateFaculty(ctx context.Context, req *models.CreateFacultyRequest) (*models.Faculty, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO faculty (name, email, designation, department, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, name, email, designation, department, created_at`

	f := &models.Faculty{}
	err = db.pool.QueryRow(ctx, query, req.Name, req.Email, req.Designation, req.Department, string(hash)).Scan(
		&f.ID, &f.Name, &f.Email, &f.Designation, &f.Department, &f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create faculty: %w", err)
	}

	return f, nil
}

// Admin Repository Implementation
func (db *PostgresDB) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM admins WHERE email = $1`

	a := &models.Admin{}
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Subject Repository Implementation
func (db *PostgresDB) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	query := `SELECT id, code, name, semester, faculty_id, created_at FROM subjects ORDER BY semester, code`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Semester, &s.FacultyID, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (db *PostgresDB) GetSubjectByID(ctx context.Context, id int) (*models.Subject, error) {
	query := `SELECT id, code, name, semester, faculty_id, created_at FROM subjects WHERE id = $1`

	s := &models.Subject{}
	err := db.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Code, &s.Name, &s.Semester, &s.FacultyID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (db *PostgresDB) CreateSubject(ctx context.Context, req *models.CreateSubjectRequest) (*models.Subject, error) {
	query := `
		INSERT INTO subjects (code, name, semester, faculty_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, code, name, semester, faculty_id, created_at`

	s := &models.Subject{}
	err := db.pool.QueryRow(ctx, query, req.Code, req.Name, req.Semester, req.FacultyID).Scan(
		&s.ID, &s.Code, &s.Name, &s.Semester, &s.FacultyID, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	return s, nil
}

// Announcement Repository Implementation
func (db *PostgresDB) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	query := `SELECT id, title, body, audience, created_by, created_at FROM announcements ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		a := &models.Announcement{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (db *PostgresDB) CreateAnnouncement(ctx context.Context, req *models.CreateAnnouncementRequest, createdBy int) (*models.Announcement, error) {
	query := `
		INSERT INTO announcements (title, body, audience, created_by, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, title, body, audience, created_by, created_at`

	a := &models.Announcement{}
	err := db.pool.QueryRow(ctx, query, req.Title, req.Body, req.Audience, createdBy).Scan(
		&a.ID, &a.Title, &a.Body, &a.Audience, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	return a, nil
}

func (db *PostgresDB) DeleteAnnouncement(ctx context.Context, id int) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Achievement Repository Implementation
func (db *PostgresDB) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	query := `SELECT id, title, description, student_id, created_at FROM achievements ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		a := &models.Achievement{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.StudentID, &a.CreatedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (db *PostgresDB) CreateAchievement(ctx context.Context, req *models.CreateAchievementRequest) (*models.Achievement, error) {
	query := `
		INSERT INTO achievements (title, description, student_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, title, description, student_id, created_at`

	a := &models.Achievement{}
	err := db.pool.QueryRow(ctx, query, req.Title, req.Description, req.StudentID).Scan(
		&a.ID, &a.Title, &a.Description, &a.StudentID, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}

	return a, nil
}

// Attendance Repository Implementation
func (db *PostgresDB) SaveAttendance(ctx context.Context, records []*models.AttendanceRecord) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			`INSERT INTO attendance (student_id, subject_id, date, present, marked_by) VALUES ($1, $2, $3, $4, $5)`,
			r.StudentID, r.SubjectID, r.Date, r.Present, r.MarkedBy,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
	}
	return nil
}

func (db *PostgresDB) ListAttendanceForStudent(ctx context.Context, studentID int) ([]*models.AttendanceRecord, error) {
	query := `SELECT id, student_id, subject_id, date, present, marked_by FROM attendance WHERE student_id = $1 ORDER BY date DESC`

	rows, err := db.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.AttendanceRecord
	for rows.Next() {
		r := &models.AttendanceRecord{}
		if err := rows.Scan(&r.ID, &r.StudentID, &r.SubjectID, &r.Date, &r.Present, &r.MarkedBy); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Mark Repository Implementation
func (db *PostgresDB) SaveMarks(ctx context.Context, records []*models.MarkRecord) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(
			`INSERT INTO marks (student_id, subject_id, exam, score, max_score, entered_by, created_at) VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
			r.StudentID, r.SubjectID, r.Exam, r.Score, r.MaxScore, r.EnteredBy,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save marks: %w", err)
		}
	}
	return nil
}

func (db *PostgresDB) ListMarksForStudent(ctx context.Context, studentID int) ([]*models.MarkRecord, error) {
	query := `SELECT id, student_id, subject_id, exam, score, max_score, entered_by, created_at FROM marks WHERE student_id = $1 ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
	}
	defer rows.Close()

	var records []*models.MarkRecord
	for rows.Next() {
		r := &models.MarkRecord{}
		if err := rows.Scan(&r.ID, &r.StudentID, &r.SubjectID, &r.Exam, &r.Score, &r.MaxScore, &r.EnteredBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

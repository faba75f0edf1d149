package services

import (
	"context"
	"testing"

	"campus-portal/internal/models"

	"github.com/jackc/pgx/v5"
)

// recordingNotifier captures dispatches instead of emitting them.
type recordingNotifier struct {
	userCalls []struct {
		role models.Role
		ids  []int
		n    models.Notification
	}
	typeCalls []struct {
		role models.Role
		n    models.Notification
	}
	allCalls []models.Notification
}

func (r *recordingNotifier) NotifyUser(role models.Role, ids []int, n models.Notification) {
	r.userCalls = append(r.userCalls, struct {
		role models.Role
		ids  []int
		n    models.Notification
	}{role, ids, n})
}

func (r *recordingNotifier) NotifyUserType(role models.Role, n models.Notification) {
	r.typeCalls = append(r.typeCalls, struct {
		role models.Role
		n    models.Notification
	}{role, n})
}

func (r *recordingNotifier) NotifyAll(n models.Notification) {
	r.allCalls = append(r.allCalls, n)
}

// fakeDB is an in-memory Database good enough for service tests.
type fakeDB struct {
	students      map[int]*models.Student
	subjects      map[int]*models.Subject
	announcements []*models.Announcement
	achievements  []*models.Achievement
	attendance    []*models.AttendanceRecord
	marks         []*models.MarkRecord
	nextID        int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		students: make(map[int]*models.Student),
		subjects: make(map[int]*models.Subject),
		nextID:   1,
	}
}

func (f *fakeDB) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeDB) GetStudentByEmail(_ context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) GetStudentByID(_ context.Context, id int) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) ListStudents(_ context.Context) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeDB) GetFacultyByEmail(_ context.Context, _ string) (*models.Faculty, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) GetFacultyByID(_ context.Context, _ int) (*models.Faculty, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) ListFaculty(_ context.Context) ([]*models.Faculty, error) { return nil, nil }

func (f *fakeDB) CreateFaculty(_ context.Context, req *models.CreateFacultyRequest) (*models.Faculty, error) {
	return &models.Faculty{ID: f.id(), Name: req.Name, Email: req.Email}, nil
}

func (f *fakeDB) GetAdminByEmail(_ context.Context, _ string) (*models.Admin, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) ListSubjects(_ context.Context) ([]*models.Subject, error) { return nil, nil }

func (f *fakeDB) GetSubjectByID(_ context.Context, id int) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDB) CreateSubject(_ context.Context, req *models.CreateSubjectRequest) (*models.Subject, error) {
	s := &models.Subject{ID: f.id(), Code: req.Code, Name: req.Name, Semester: req.Semester, FacultyID: req.FacultyID}
	f.subjects[s.ID] = s
	return s, nil
}

func (f *fakeDB) ListAnnouncements(_ context.Context) ([]*models.Announcement, error) {
	return f.announcements, nil
}

func (f *fakeDB) CreateAnnouncement(_ context.Context, req *models.CreateAnnouncementRequest, createdBy int) (*models.Announcement, error) {
	a := &models.Announcement{ID: f.id(), Title: req.Title, Body: req.Body, Audience: req.Audience, CreatedBy: createdBy}
	f.announcements = append(f.announcements, a)
	return a, nil
}

func (f *fakeDB) DeleteAnnouncement(_ context.Context, id int) error {
	for i, a := range f.announcements {
		if a.ID == id {
			f.announcements = append(f.announcements[:i], f.announcements[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDB) ListAchievements(_ context.Context) ([]*models.Achievement, error) {
	return f.achievements, nil
}

func (f *fakeDB) CreateAchievement(_ context.Context, req *models.CreateAchievementRequest) (*models.Achievement, error) {
	a := &models.Achievement{ID: f.id(), Title: req.Title, Description: req.Description, StudentID: req.StudentID}
	f.achievements = append(f.achievements, a)
	return a, nil
}

func (f *fakeDB) SaveAttendance(_ context.Context, records []*models.AttendanceRecord) error {
	f.attendance = append(f.attendance, records...)
	return nil
}

func (f *fakeDB) ListAttendanceForStudent(_ context.Context, studentID int) ([]*models.AttendanceRecord, error) {
	var out []*models.AttendanceRecord
	for _, r := range f.attendance {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDB) SaveMarks(_ context.Context, records []*models.MarkRecord) error {
	f.marks = append(f.marks, records...)
	return nil
}

func (f *fakeDB) ListMarksForStudent(_ context.Context, studentID int) ([]*models.MarkRecord, error) {
	var out []*models.MarkRecord
	for _, r := range f.marks {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeDB) Close() error { return nil }

func setup(t *testing.T) (*PortalService, *fakeDB, *recordingNotifier) {
	t.Helper()
	db := newFakeDB()
	notifier := &recordingNotifier{}
	return NewPortalService(db, nil, notifier), db, notifier
}

func TestCreateAnnouncement_AudienceRouting(t *testing.T) {
	tests := []struct {
		name     string
		audience models.Audience
		wantType models.Role
		wantAll  bool
	}{
		{"students only", models.AudienceStudent, models.RoleStudent, false},
		{"faculty only", models.AudienceFaculty, models.RoleFaculty, false},
		{"everyone", models.AudienceAll, "", true},
		{"default audience", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, notifier := setup(t)

			_, err := svc.CreateAnnouncement(context.Background(), &models.CreateAnnouncementRequest{
				Title:    "Holiday",
				Body:     "Campus closed Friday",
				Audience: tt.audience,
			}, 1)
			if err != nil {
				t.Fatalf("CreateAnnouncement() error = %v", err)
			}

			if tt.wantAll {
				if len(notifier.allCalls) != 1 || len(notifier.typeCalls) != 0 {
					t.Fatalf("Got %d all / %d type dispatches, want 1 / 0", len(notifier.allCalls), len(notifier.typeCalls))
				}
				return
			}
			if len(notifier.typeCalls) != 1 || len(notifier.allCalls) != 0 {
				t.Fatalf("Got %d type / %d all dispatches, want 1 / 0", len(notifier.typeCalls), len(notifier.allCalls))
			}
			if notifier.typeCalls[0].role != tt.wantType {
				t.Errorf("Dispatched to role %q, want %q", notifier.typeCalls[0].role, tt.wantType)
			}
		})
	}
}

func TestCreateAnnouncement_RejectsUnknownAudience(t *testing.T) {
	svc, _, notifier := setup(t)

	_, err := svc.CreateAnnouncement(context.Background(), &models.CreateAnnouncementRequest{
		Title:    "x",
		Body:     "y",
		Audience: "alumni",
	}, 1)
	if err == nil {
		t.Fatal("CreateAnnouncement() expected an error for unknown audience")
	}
	if len(notifier.allCalls)+len(notifier.typeCalls) != 0 {
		t.Error("No dispatch should happen for a rejected announcement")
	}
}

func TestMarkAttendance_NotifiesAffectedStudents(t *testing.T) {
	svc, db, notifier := setup(t)
	db.subjects[10] = &models.Subject{ID: 10, Code: "CS301", Name: "Operating Systems"}

	err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		SubjectID:  10,
		Date:       "2026-08-31",
		StudentIDs: []int{42, 43},
		AbsentIDs:  []int{43},
	}, 7)
	if err != nil {
		t.Fatalf("MarkAttendance() error = %v", err)
	}

	if len(db.attendance) != 2 {
		t.Fatalf("Saved %d records, want 2", len(db.attendance))
	}
	if db.attendance[0].Present != true || db.attendance[1].Present != false {
		t.Error("Present flags do not match the absent list")
	}

	if len(notifier.userCalls) != 1 {
		t.Fatalf("Got %d user dispatches, want 1", len(notifier.userCalls))
	}
	call := notifier.userCalls[0]
	if call.role != models.RoleStudent {
		t.Errorf("Dispatched to role %q, want student", call.role)
	}
	if len(call.ids) != 2 || call.ids[0] != 42 || call.ids[1] != 43 {
		t.Errorf("Dispatched to ids %v, want [42 43]", call.ids)
	}
	if call.n.Title != "Attendance Marked" {
		t.Errorf("Title = %q, want %q", call.n.Title, "Attendance Marked")
	}
}

func TestMarkAttendance_UnknownSubject(t *testing.T) {
	svc, _, notifier := setup(t)

	err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		SubjectID:  99,
		StudentIDs: []int{1},
	}, 7)
	if err == nil {
		t.Fatal("MarkAttendance() expected an error for unknown subject")
	}
	if len(notifier.userCalls) != 0 {
		t.Error("No dispatch should happen when the write failed")
	}
}

func TestRecordMarks_NotifiesPerStudent(t *testing.T) {
	svc, db, notifier := setup(t)
	db.subjects[10] = &models.Subject{ID: 10, Code: "CS301", Name: "Operating Systems"}

	err := svc.RecordMarks(context.Background(), &models.RecordMarksRequest{
		SubjectID: 10,
		Exam:      "Midterm",
		MaxScore:  50,
		Scores: []models.StudentScore{
			{StudentID: 1, Score: 44},
			{StudentID: 2, Score: 38},
		},
	}, 7)
	if err != nil {
		t.Fatalf("RecordMarks() error = %v", err)
	}

	if len(db.marks) != 2 {
		t.Fatalf("Saved %d records, want 2", len(db.marks))
	}
	if len(notifier.userCalls) != 1 {
		t.Fatalf("Got %d user dispatches, want 1", len(notifier.userCalls))
	}
	if got := notifier.userCalls[0].ids; len(got) != 2 {
		t.Errorf("Dispatched to %d ids, want 2", len(got))
	}
}

func TestRecordMarks_ScoreOutOfRange(t *testing.T) {
	svc, db, _ := setup(t)
	db.subjects[10] = &models.Subject{ID: 10, Name: "OS"}

	err := svc.RecordMarks(context.Background(), &models.RecordMarksRequest{
		SubjectID: 10,
		Exam:      "Midterm",
		MaxScore:  50,
		Scores:    []models.StudentScore{{StudentID: 1, Score: 51}},
	}, 7)
	if err == nil {
		t.Fatal("RecordMarks() expected an error for out-of-range score")
	}
	if len(db.marks) != 0 {
		t.Error("No records should be saved on validation failure")
	}
}

func TestAddAchievement_BroadcastsToEveryone(t *testing.T) {
	svc, db, notifier := setup(t)
	db.students[42] = &models.Student{ID: 42, Name: "Priya"}

	_, err := svc.AddAchievement(context.Background(), &models.CreateAchievementRequest{
		Title:       "Hackathon Winner",
		Description: "First place at Smart India Hackathon",
		StudentID:   42,
	})
	if err != nil {
		t.Fatalf("AddAchievement() error = %v", err)
	}

	if len(notifier.allCalls) != 1 {
		t.Fatalf("Got %d global dispatches, want 1", len(notifier.allCalls))
	}
	if notifier.allCalls[0].Type != models.NotificationSuccess {
		t.Errorf("Type = %q, want success", notifier.allCalls[0].Type)
	}
}

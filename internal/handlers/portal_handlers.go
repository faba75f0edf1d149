package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"campus-portal/internal/auth"
	"campus-portal/internal/models"
	"campus-portal/internal/services"
	"campus-portal/pkg/logger"
)

type PortalHandlers struct {
	portalService *services.PortalService
	authService   *auth.Service
}

func NewPortalHandlers(portalService *services.PortalService, authService *auth.Service) *PortalHandlers {
	return &PortalHandlers{
		portalService: portalService,
		authService:   authService,
	}
}

// Announcements

func (h *PortalHandlers) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	if _, err := requireRole(h.authService, r, models.RoleStudent, models.RoleFaculty, models.RoleAdmin); err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	announcements, err := h.portalService.ListAnnouncements(r.Context())
	if err != nil {
		logger.Error("List announcements error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, announcements)
}

func (h *PortalHandlers) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	identity, err := requireRole(h.authService, r, models.RoleAdmin)
	if err != nil {
		respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	announcement, err := h.portalService.CreateAnnouncement(r.Context(), &req, identity.ID)
	if err != nil {
		logger.Error("Create announcement error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, announcement)
}

func (h *PortalHandlers) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if _, err := requireRole(h.authService, r, models.RoleAdmin); err != nil {
		respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	id, err := idFromPath(r, 3)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid announcement ID")
		return
	}

	if err := h.portalService.DeleteAnnouncement(r.Context(), id); err != nil {
		logger.Error("Delete announcement error: %v", err)
		respondError(w, http.StatusNotFound, "announcement not found")
		return
	}
	respondData(w, http.StatusOK, nil)
}

// Attendance

func (h *PortalHandlers) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	identity, err := requireRole(h.authService, r, models.RoleFaculty, models.RoleAdmin)
	if err != nil {
		respondError(w, http.StatusForbidden, "faculty access required")
		return
	}

	var req models.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.portalService.MarkAttendance(r.Context(), &req, identity.ID); err != nil {
		logger.Error("Mark attendance error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, nil)
}

func (h *PortalHandlers) MyAttendance(w http.ResponseWriter, r *http.Request) {
	identity, err := requireRole(h.authService, r, models.RoleStudent)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.portalService.ListAttendanceForStudent(r.Context(), identity.ID)
	if err != nil {
		logger.Error("List attendance error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, records)
}

// Marks

func (h *PortalHandlers) RecordMarks(w http.ResponseWriter, r *http.Request) {
	identity, err := requireRole(h.authService, r, models.RoleFaculty, models.RoleAdmin)
	if err != nil {
		respondError(w, http.StatusForbidden, "faculty access required")
		return
	}

	var req models.RecordMarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.portalService.RecordMarks(r.Context(), &req, identity.ID); err != nil {
		logger.Error("Record marks error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, nil)
}

func (h *PortalHandlers) MyMarks(w http.ResponseWriter, r *http.Request) {
	identity, err := requireRole(h.authService, r, models.RoleStudent)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.portalService.ListMarksForStudent(r.Context(), identity.ID)
	if err != nil {
		logger.Error("List marks error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, records)
}

// Achievements

func (h *PortalHandlers) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.portalService.ListAchievements(r.Context())
	if err != nil {
		logger.Error("List achievements error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, achievements)
}

func (h *PortalHandlers) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	if _, err := requireRole(h.authService, r, models.RoleFaculty, models.RoleAdmin); err != nil {
		respondError(w, http.StatusForbidden, "faculty access required")
		return
	}

	var req models.CreateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	achievement, err := h.portalService.AddAchievement(r.Context(), &req)
	if err != nil {
		logger.Error("Create achievement error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, achievement)
}

// Directory

func (h *PortalHandlers) ListFaculty(w http.ResponseWriter, r *http.Request) {
	faculty, err := h.portalService.ListFaculty(r.Context())
	if err != nil {
		logger.Error("List faculty error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, faculty)
}

func (h *PortalHandlers) GetFaculty(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 3)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid faculty ID")
		return
	}

	faculty, err := h.portalService.GetFaculty(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "faculty not found")
		return
	}
	respondData(w, http.StatusOK, faculty)
}

func (h *PortalHandlers) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	if _, err := requireRole(h.authService, r, models.RoleAdmin); err != nil {
		respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req models.CreateFacultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	faculty, err := h.portalService.CreateFaculty(r.Context(), &req)
	if err != nil {
		logger.Error("Create faculty error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, faculty)
}

func (h *PortalHandlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	if _, err := requireRole(h.authService, r, models.RoleFaculty, models.RoleAdmin); err != nil {
		respondError(w, http.StatusForbidden, "faculty access required")
		return
	}

	students, err := h.portalService.ListStudents(r.Context())
	if err != nil {
		logger.Error("List students error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, students)
}

func (h *PortalHandlers) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.portalService.ListSubjects(r.Context())
	if err != nil {
		logger.Error("List subjects error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, subjects)
}

func (h *PortalHandlers) CreateSubject(w http.ResponseWriter, r *http.Request) {
	if _, err := requireRole(h.authService, r, models.RoleAdmin); err != nil {
		respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req models.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	subject, err := h.portalService.CreateSubject(r.Context(), &req)
	if err != nil {
		logger.Error("Create subject error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondData(w, http.StatusCreated, subject)
}

// idFromPath reads the numeric id at the given segment index of the URL
// path, e.g. segment 3 of /api/announcements/12.
func idFromPath(r *http.Request, segment int) (int, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) <= segment-1 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(parts[segment-1])
}

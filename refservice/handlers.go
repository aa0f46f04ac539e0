package refservice

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/studentapi/student-contract-tests/servicedef"

	"github.com/go-playground/validator/v10"
)

// createRequest is the body of POST /students. Properties that are null or missing decode to
// the zero value.
type createRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name" validate:"required"`
	DisplayName string `json:"display_name"`
	StartedAt   string `json:"started_at" validate:"omitempty,datetime=2006-01-02"`
}

// Service serves the student records API.
type Service struct {
	storage  Storage
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. If logger is nil, slog.Default() is used; if now is nil,
// time.Now is used.
func NewService(storage Storage, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	validate := validator.New()
	// report JSON property names in validation errors
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		storage:  storage,
		validate: validate,
		logger:   logger,
		now:      now,
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+servicedef.HealthPath, s.health)
	mux.HandleFunc("POST "+servicedef.StudentsPath, s.create)
	mux.HandleFunc("GET "+servicedef.StudentsPath, s.search)
	mux.HandleFunc("GET "+servicedef.StudentsPath+"/{id}", s.getByID)
	return mux
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{Status: StatusOK})
}

func (s *Service) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, generalError(errors.New("request body is empty")))
		return
	}
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, generalError(err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			s.writeJSON(w, http.StatusUnprocessableEntity, validationError(validateErrs))
			return
		}
		s.writeJSON(w, http.StatusBadRequest, generalError(err))
		return
	}

	now := s.now().UTC()
	student := Student{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		StartedAt:   req.StartedAt,
		CreatedAt:   now.Format(servicedef.CreatedAtLayout),
	}
	if student.DisplayName == "" {
		student.DisplayName = student.FirstName + " " + student.LastName
	}
	if student.StartedAt == "" {
		student.StartedAt = now.Format(servicedef.StartedAtLayout)
	}

	id, err := s.storage.CreateStudent(r.Context(), student)
	if errors.Is(err, ErrDuplicateEmail) {
		s.writeJSON(w, http.StatusConflict, generalError(err))
		return
	}
	if err != nil {
		s.logger.Error("failed to create student", slog.String("error", err.Error()))
		s.writeJSON(w, http.StatusInternalServerError, generalError(err))
		return
	}
	student.ID = id
	s.logger.Info("student created", slog.Int64("id", id))
	s.writeJSON(w, http.StatusCreated, student)
}

func (s *Service) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		// an id that could never have been assigned simply does not exist
		s.writeJSON(w, http.StatusNotFound, generalError(ErrNotFound))
		return
	}
	student, err := s.storage.GetStudentByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, generalError(err))
		return
	}
	if err != nil {
		s.logger.Error("failed to get student", slog.Int64("id", id), slog.String("error", err.Error()))
		s.writeJSON(w, http.StatusInternalServerError, generalError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, student)
}

func (s *Service) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := SearchFilter{
		Name:         query.Get(servicedef.QueryName),
		StartedAfter: query.Get(servicedef.QueryStartedAfter),
	}
	if filter.Name == "" && filter.StartedAfter == "" {
		s.writeJSON(w, http.StatusBadRequest,
			generalError(errors.New("at least one of name or started_after is required")))
		return
	}
	if filter.StartedAfter != "" {
		if _, err := time.Parse(servicedef.StartedAtLayout, filter.StartedAfter); err != nil {
			s.writeJSON(w, http.StatusBadRequest,
				generalError(errors.New("started_after must be a date in the form YYYY-MM-DD")))
			return
		}
	}
	students, err := s.storage.SearchStudents(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to search students", slog.String("error", err.Error()))
		s.writeJSON(w, http.StatusInternalServerError, generalError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]Student{servicedef.StudentsKey: students})
}

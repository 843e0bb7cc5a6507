package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/pastpapers/internal/catalog"
	"github.com/abhisek/pastpapers/internal/markscheme"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ping != nil {
		if err := s.deps.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type subjectView struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Levels []catalog.Level `json:"levels"`
}

type topicView struct {
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Levels []catalog.Level `json:"levels"`
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects := catalog.AllSubjects()
	out := make([]subjectView, len(subjects))
	for i, subj := range subjects {
		out[i] = subjectView{ID: subj.ID, Name: subj.Name, Levels: subj.Levels}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	subj, ok := catalog.SubjectByID(chi.URLParam(r, "subject"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown subject")
		return
	}

	var level catalog.Level
	if q := r.URL.Query().Get("level"); q != "" {
		l, err := catalog.ParseLevel(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		level = l
	}

	topics := catalog.TopicsFor(subj.ID, level)
	out := make([]topicView, len(topics))
	for i, t := range topics {
		out[i] = topicView{Slug: t.ID, Name: t.Name, Levels: t.Levels}
	}
	writeJSON(w, http.StatusOK, out)
}

type questionRequest struct {
	Subject    string `json:"subject" validate:"notblank"`
	Board      string `json:"board" validate:"notblank"`
	Level      string `json:"level" validate:"notblank"`
	Topic      string `json:"topic" validate:"notblank"`
	Difficulty string `json:"difficulty" validate:"notblank"`
}

func (s *Server) handleRequestQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !s.decode(w, r, &req) {
		return
	}

	q, err := s.deps.Practice.Request(r.Context(), userFrom(r.Context()), catalog.Criteria{
		Subject:    req.Subject,
		Board:      catalog.Board(req.Board),
		Level:      catalog.Level(req.Level),
		Topic:      req.Topic,
		Difficulty: catalog.Difficulty(req.Difficulty),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.deps.Practice.Question(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type markRequest struct {
	Answer string `json:"answer" validate:"notblank,max=8000"`
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.deps.Practice.Mark(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type checkRequest struct {
	Question   string   `json:"question" validate:"notblank"`
	MarkScheme []string `json:"mark_scheme" validate:"required,min=1"`
	TotalMarks int      `json:"total_marks" validate:"min=1,max=100"`
}

type checkResponse struct {
	Valid  bool              `json:"valid"`
	Issues []string          `json:"issues"`
	Report markscheme.Report `json:"report"`
}

func (s *Server) handleCheckMarkScheme(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.decode(w, r, &req) {
		return
	}

	report := markscheme.CheckConsistency(req.Question, req.MarkScheme, req.TotalMarks)
	issues := report.Issues()
	if issues == nil {
		issues = []string{}
	}
	writeJSON(w, http.StatusOK, checkResponse{Valid: report.Valid(), Issues: issues, Report: report})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sum, err := s.deps.Progress.Summary(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	recent, err := s.deps.Progress.Recent(r.Context(), userFrom(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Quota.Remaining(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

package frontend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	v "github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crownline/pageant-manager/internal/apisrv"
	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/entity"
	"github.com/crownline/pageant-manager/internal/middleware"
	"github.com/crownline/pageant-manager/internal/ratelimit"
)

// maxAttachmentSize caps contact-form uploads at 10 MiB.
const maxAttachmentSize = 10 << 20

const (
	attachmentFolder = "attachments"
	photoFolder      = "candidates"
)

// Server implements handlers for public site requests.
type Server struct {
	repo      dependency.Repository
	fileStore dependency.FileStore
	limiter   *ratelimit.SubmissionLimiter
}

// New creates a new server with frontend handlers.
func New(r dependency.Repository, fs dependency.FileStore) *Server {
	return &Server{
		repo:      r,
		fileStore: fs,
		limiter:   ratelimit.NewSubmissionLimiter(),
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/contact", s.submitContact)
	r.Post("/candidates", s.submitCandidate)
	r.Post("/franchise", s.submitFranchise)
	r.Get("/news", s.listNews)
	r.Get("/news/{slug}", s.getNewsBySlug)
	return r
}

// submitContact accepts the public contact form as multipart form data with
// an optional single attachment. One submitted form becomes exactly one
// enquiry record.
func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		apisrv.BadRequest(w, "can't parse form")
		return
	}

	enq := entity.EnquiryInsert{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		Subject:     r.FormValue("subject"),
		Message:     r.FormValue("message"),
		InquiryType: entity.InquiryType(r.FormValue("inquiry_type")),
	}
	if err := entity.ValidateEnquiryInsert(&enq); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	if err := s.limiter.CheckContact(middleware.GetClientIP(r.Context()), enq.Email); err != nil {
		apisrv.TooManyRequests(w, err.Error())
		return
	}

	attachmentURL := ""
	file, header, err := r.FormFile("attachment")
	if err == nil {
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize+1))
		if err != nil {
			apisrv.RespondError(w, r, fmt.Errorf("can't read attachment: %w", err))
			return
		}
		if len(raw) > maxAttachmentSize {
			apisrv.BadRequest(w, "attachment exceeds 10MB")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(raw)
		}

		attachmentURL, err = s.fileStore.UploadFile(r.Context(), raw, attachmentFolder, uuid.New().String(), contentType)
		if err != nil {
			apisrv.RespondError(w, r, fmt.Errorf("can't upload attachment: %w", err))
			return
		}
	}

	id, err := s.repo.Enquiries().AddEnquiry(r.Context(), &enq, attachmentURL)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}

	apisrv.RespondJSON(w, http.StatusCreated, map[string]any{
		"id": id,
	})
}

type candidateRequest struct {
	entity.CandidateInsert
	PhotoB64 string `json:"photo_b64"`
}

// submitCandidate accepts a registration application with a required base64
// encoded photo.
func (s *Server) submitCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}

	if err := entity.ValidateCandidateInsert(&req.CandidateInsert); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	if _, err := v.ValidateStruct(req.CandidateInsert); err != nil {
		apisrv.BadRequest(w, err.Error())
		return
	}
	if req.PhotoB64 == "" {
		apisrv.BadRequest(w, "photo is required")
		return
	}
	if err := s.limiter.CheckApplication(middleware.GetClientIP(r.Context()), req.Email); err != nil {
		apisrv.TooManyRequests(w, err.Error())
		return
	}

	photoURL, err := s.fileStore.UploadContentImage(r.Context(), req.PhotoB64, photoFolder, uuid.New().String())
	if err != nil {
		apisrv.BadRequest(w, "can't process photo")
		return
	}

	ref, err := s.repo.Candidates().AddCandidate(r.Context(), &req.CandidateInsert, photoURL)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}

	apisrv.RespondJSON(w, http.StatusCreated, map[string]any{
		"reference_code": ref,
	})
}

// submitFranchise accepts a national-director franchise application. At most
// one non-declined application per country is accepted.
func (s *Server) submitFranchise(w http.ResponseWriter, r *http.Request) {
	var req entity.FranchiseApplicationInsert
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}

	if err := entity.ValidateFranchiseApplicationInsert(&req); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	if _, err := v.ValidateStruct(req); err != nil {
		apisrv.BadRequest(w, err.Error())
		return
	}
	if err := s.limiter.CheckApplication(middleware.GetClientIP(r.Context()), req.Email); err != nil {
		apisrv.TooManyRequests(w, err.Error())
		return
	}

	ref, err := s.repo.Franchise().AddFranchiseApplication(r.Context(), &req)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}

	apisrv.RespondJSON(w, http.StatusCreated, map[string]any{
		"reference_code": ref,
	})
}

func (s *Server) listNews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagingParams(r, 10)

	articles, total, err := s.repo.News().GetNewsPaged(r.Context(), limit, offset, true)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}

	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"total":    total,
	})
}

func (s *Server) getNewsBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := s.repo.News().GetNewsArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	if !article.Published.Bool() {
		apisrv.RespondJSON(w, http.StatusNotFound, map[string]any{"error": "record not found"})
		return
	}

	apisrv.RespondJSON(w, http.StatusOK, article)
}

func pagingParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o > 0 {
		offset = o
	}
	return limit, offset
}

package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crownline/pageant-manager/internal/apisrv"
	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/entity"
	"github.com/crownline/pageant-manager/internal/triage"
)

// Server exposes the triage workflow and back-office management over HTTP.
// All enquiry operations go through the shared triage session, so the HTTP
// surface and the in-memory state can't drift apart.
type Server struct {
	session *triage.Session
	repo    dependency.Repository
}

func New(session *triage.Session, repo dependency.Repository) *Server {
	return &Server{
		session: session,
		repo:    repo,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/enquiries", func(r chi.Router) {
		r.Get("/", s.listEnquiries)
		r.Get("/counts", s.enquiryCounts)
		r.Post("/refresh", s.refreshEnquiries)
		r.Post("/bulk", s.bulkFlag)
		r.Post("/selection", s.setSelection)
		r.Delete("/selection", s.clearSelection)
		r.Post("/selection/page", s.togglePageSelection)
		r.Post("/close", s.closeDetail)

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/open", s.openEnquiry)
			r.Post("/select", s.toggleSelect)
			r.Post("/star", s.toggleStar)
			r.Post("/archive", s.archiveEnquiry)
			r.Post("/status", s.updateEnquiryStatus)
			r.Delete("/", s.deleteEnquiry)
		})
	})

	r.Route("/candidates", func(r chi.Router) {
		r.Get("/", s.listCandidates)
		r.Post("/{id}/status", s.updateCandidateStatus)
	})

	r.Route("/franchise", func(r chi.Router) {
		r.Get("/", s.listFranchise)
		r.Post("/{id}/status", s.updateFranchiseStatus)
	})

	r.Route("/news", func(r chi.Router) {
		r.Get("/", s.listNews)
		r.Post("/", s.addNews)
		r.Put("/{id}", s.updateNews)
		r.Post("/{id}/publish", s.publishNews)
		r.Delete("/{id}", s.deleteNews)
	})

	return r
}

// listEnquiries applies the requested bucket, query and page to the session
// and renders the resulting view. Changing bucket or query resets to the
// first page; the page number is clamped to the filtered set.
func (s *Server) listEnquiries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bucket, err := triage.ParseBucket(q.Get("bucket"))
	if err != nil {
		apisrv.BadRequest(w, err.Error())
		return
	}
	s.session.SetBucket(bucket)
	s.session.SetQuery(q.Get("query"))
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		s.session.SetPage(p)
	}

	apisrv.RespondJSON(w, http.StatusOK, s.session.View())
}

// enquiryCounts returns the per-bucket badge counters, computed over the full
// record set regardless of the active filter.
func (s *Server) enquiryCounts(w http.ResponseWriter, _ *http.Request) {
	apisrv.RespondJSON(w, http.StatusOK, s.session.View().Counts)
}

// refreshEnquiries re-fetches the whole record set on demand, same as the
// background poll tick.
func (s *Server) refreshEnquiries(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Refresh(r.Context()); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, s.session.View())
}

// enquiryDetail is the open-record payload: the record plus the rendering
// hint for its attachment, when it has one.
type enquiryDetail struct {
	Enquiry        entity.Enquiry        `json:"enquiry"`
	AttachmentKind triage.AttachmentKind `json:"attachment_kind,omitempty"`
}

// openEnquiry puts a record into the detail view. Opening an unread record
// marks it read as a side effect.
func (s *Server) openEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	enq, err := s.session.Open(r.Context(), id)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}

	detail := enquiryDetail{Enquiry: enq}
	if enq.AttachmentURL.Valid && enq.AttachmentURL.String != "" {
		detail.AttachmentKind = triage.ClassifyAttachment(enq.AttachmentURL.String)
	}
	apisrv.RespondJSON(w, http.StatusOK, detail)
}

func (s *Server) closeDetail(w http.ResponseWriter, _ *http.Request) {
	s.session.CloseDetail()
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

func (s *Server) toggleSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	selected := s.session.ToggleSelect(id)
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"selected": selected,
	})
}

type selectionRequest struct {
	Ids []int `json:"ids"`
}

func (s *Server) setSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	s.session.SetSelection(req.Ids)
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"selected": s.session.Selected(),
	})
}

func (s *Server) clearSelection(w http.ResponseWriter, _ *http.Request) {
	s.session.ClearSelection()
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

// togglePageSelection is the select-all checkbox: it selects every record on
// the visible page, or deselects the page when it is already fully selected.
func (s *Server) togglePageSelection(w http.ResponseWriter, _ *http.Request) {
	s.session.TogglePageSelection()
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"selected":            s.session.Selected(),
		"page_fully_selected": s.session.PageFullySelected(),
	})
}

type bulkRequest struct {
	Ids  []int  `json:"ids,omitempty"`
	Flag string `json:"flag"`
}

// bulkFlag applies one flag to the whole selection in a single batch store
// write. Clients that track their own checkboxes can submit the ids inline;
// they replace the session selection before the batch is applied.
func (s *Server) bulkFlag(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}

	flag := entity.EnquiryFlag(req.Flag)
	if !flag.Valid() {
		apisrv.BadRequest(w, "unknown flag: "+req.Flag)
		return
	}
	if req.Ids != nil {
		s.session.SetSelection(req.Ids)
	}

	if err := s.session.ApplyBulkFlag(r.Context(), flag); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) toggleStar(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	starred, err := s.session.ToggleStarred(r.Context(), id)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"starred": starred,
	})
}

func (s *Server) archiveEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.session.Archive(r.Context(), id); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

// deleteEnquiry soft-deletes a record. The request must carry confirm=true,
// mirroring the confirmation dialog; without it nothing is written.
func (s *Server) deleteEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	confirmed := entity.IsTruthy(r.URL.Query().Get("confirm"))
	if err := s.session.SoftDelete(r.Context(), id, confirmed); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateEnquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	if !entity.IsValidEnquiryStatus(req.Status) {
		apisrv.BadRequest(w, "unknown status: "+req.Status)
		return
	}
	if err := s.session.UpdateStatus(r.Context(), id, entity.EnquiryStatus(req.Status)); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

func (s *Server) listCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagingParams(r)

	filters := entity.CandidateFilters{
		Country: q.Get("country"),
		Email:   q.Get("email"),
	}
	if st := q.Get("status"); st != "" {
		if !entity.IsValidCandidateStatus(st) {
			apisrv.BadRequest(w, "unknown status: "+st)
			return
		}
		cs := entity.CandidateStatus(st)
		filters.Status = &cs
	}

	candidates, total, err := s.repo.Candidates().GetCandidatesPaged(r.Context(), limit, offset, orderParam(r), filters)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"total":      total,
	})
}

func (s *Server) updateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	if !entity.IsValidCandidateStatus(req.Status) {
		apisrv.BadRequest(w, "unknown status: "+req.Status)
		return
	}
	if err := s.repo.Candidates().UpdateCandidateStatus(r.Context(), id, entity.CandidateStatus(req.Status)); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

func (s *Server) listFranchise(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagingParams(r)

	var status *entity.FranchiseStatus
	if st := r.URL.Query().Get("status"); st != "" {
		if !entity.IsValidFranchiseStatus(st) {
			apisrv.BadRequest(w, "unknown status: "+st)
			return
		}
		fs := entity.FranchiseStatus(st)
		status = &fs
	}

	applications, total, err := s.repo.Franchise().GetFranchiseApplicationsPaged(r.Context(), limit, offset, orderParam(r), status)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"applications": applications,
		"total":        total,
	})
}

func (s *Server) updateFranchiseStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	if !entity.IsValidFranchiseStatus(req.Status) {
		apisrv.BadRequest(w, "unknown status: "+req.Status)
		return
	}
	if err := s.repo.Franchise().UpdateFranchiseStatus(r.Context(), id, entity.FranchiseStatus(req.Status)); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

func (s *Server) listNews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagingParams(r)

	articles, total, err := s.repo.News().GetNewsPaged(r.Context(), limit, offset, false)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"total":    total,
	})
}

func (s *Server) addNews(w http.ResponseWriter, r *http.Request) {
	var req entity.NewsArticleInsert
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	if err := entity.ValidateNewsArticleInsert(&req); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	id, err := s.repo.News().AddNewsArticle(r.Context(), &req)
	if err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) updateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req entity.NewsArticleInsert
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	if err := entity.ValidateNewsArticleInsert(&req); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	if err := s.repo.News().UpdateNewsArticle(r.Context(), id, &req); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

func (s *Server) publishNews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apisrv.BadRequest(w, "can't parse request body")
		return
	}
	if err := s.repo.News().PublishNewsArticle(r.Context(), id, req.Publish); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

func (s *Server) deleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repo.News().DeleteNewsArticleById(r.Context(), id); err != nil {
		apisrv.RespondError(w, r, err)
		return
	}
	apisrv.RespondJSON(w, http.StatusOK, nil)
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		apisrv.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

func pagingParams(r *http.Request) (limit, offset int) {
	limit = 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o > 0 {
		offset = o
	}
	return limit, offset
}

func orderParam(r *http.Request) entity.OrderFactor {
	if r.URL.Query().Get("order") == "asc" {
		return entity.Ascending
	}
	return entity.Descending
}

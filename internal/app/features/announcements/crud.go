// internal/app/features/announcements/crud.go
package announcements

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	announcementstore "github.com/sevahub/sevahub/internal/app/store/announcements"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

func pathAnnouncementID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "announcementID"))
	if err != nil {
		respond.BadRequest(w, "invalid announcement id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type announcementRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	PublishAt *time.Time `json:"publish_at"`
}

// HandleCreate drafts an announcement. NGO staff create notices scoped to
// their organization; a superadmin's draft is platform-wide.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleAnnouncements, authz.ActionCreate)
	if !gate.OK {
		return
	}

	var req announcementRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(htmlsanitize.StripTags(req.Title))
	if title == "" {
		respond.BadRequest(w, "title is required")
		return
	}
	body := htmlsanitize.Sanitize(req.Body)
	if strings.TrimSpace(body) == "" {
		respond.BadRequest(w, "body is required")
		return
	}

	a := models.Announcement{
		Title:     title,
		Body:      body,
		PublishAt: req.PublishAt,
		CreatedBy: gate.UserID,
	}
	if !authz.IsSuperAdmin(r) {
		ngoID := authz.UserNGOID(r)
		if ngoID == primitive.NilObjectID {
			respond.Forbidden(w)
			return
		}
		a.NGOID = &ngoID
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create announcement")
	defer cancel()

	created, err := h.Announcements.Create(ctx, a)
	if err != nil {
		h.Log.Error("create announcement", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Created(w, map[string]any{"announcement": created})
}

// canEdit reports whether the caller may touch the announcement: its own
// organization's staff, or a superadmin for platform-wide notices.
func canEdit(r *http.Request, a models.Announcement) bool {
	if authz.IsSuperAdmin(r) {
		return true
	}
	return a.NGOID != nil && authz.UserNGOID(r) == *a.NGOID
}

// HandleUpdate edits a draft or rejected announcement.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleAnnouncements, authz.ActionUpdate)
	if !gate.OK {
		return
	}
	id, ok := pathAnnouncementID(w, r)
	if !ok {
		return
	}

	var req announcementRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update announcement")
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "announcement")
			return
		}
		h.Log.Error("update announcement: load", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !canEdit(r, a) {
		respond.Forbidden(w)
		return
	}

	title := strings.TrimSpace(htmlsanitize.StripTags(req.Title))
	body := htmlsanitize.Sanitize(req.Body)
	if err := h.Announcements.Update(ctx, id, title, body, req.PublishAt); err != nil {
		if err == announcementstore.ErrInvalidTransition {
			respond.Conflict(w, "only draft or rejected announcements can be edited")
			return
		}
		h.Log.Error("update announcement", zap.Error(err))
		respond.ServerError(w)
		return
	}

	updated, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("update announcement: reload", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, map[string]any{"announcement": updated})
}

// HandleSubmit queues a draft or rejected announcement for review.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleAnnouncements, "submit")
	if !gate.OK {
		return
	}
	id, ok := pathAnnouncementID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "submit announcement")
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "announcement")
			return
		}
		h.Log.Error("submit announcement: load", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !canEdit(r, a) {
		respond.Forbidden(w)
		return
	}

	if err := h.Announcements.Submit(ctx, id); err != nil {
		if err == announcementstore.ErrInvalidTransition {
			respond.Conflict(w, "this announcement is not awaiting submission")
			return
		}
		h.Log.Error("submit announcement", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, "announcement submitted for review")
}

// internal/app/features/programs/crud.go
package programs

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

func pathProgramID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "programID"))
	if err != nil {
		respond.BadRequest(w, "invalid program id")
		return primitive.NilObjectID, false
	}
	return id, true
}

type programRequest struct {
	Title        string     `json:"title" validate:"max=200" label:"Title"`
	Description  string     `json:"description" validate:"max=20000" label:"Description"`
	Category     string     `json:"category" validate:"max=60" label:"Category"`
	TargetAmount int64      `json:"target_amount"`
	Currency     string     `json:"currency" validate:"max=3" label:"Currency"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

// HandleCreate adds a draft program under the caller's organization.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModulePrograms, authz.ActionCreate)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	var in programRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if in.Title == "" {
		respond.BadRequest(w, "Title is required.")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}
	if in.TargetAmount < 0 {
		respond.BadRequest(w, "Target amount cannot be negative.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create program")
	defer cancel()

	program, err := h.Programs.Create(ctx, models.Program{
		NGOID:        ngoID,
		Title:        normalize.Name(in.Title),
		Description:  htmlsanitize.Sanitize(in.Description),
		Category:     normalize.Status(in.Category),
		TargetAmount: in.TargetAmount,
		Currency:     in.Currency,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
		CreatedBy:    gate.UserID,
	})
	if err != nil {
		h.Log.Error("create program", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventProgramCreated, gate.UserID, &ngoID, "program", program.ID, map[string]string{
		"title": program.Title,
	})

	respond.Created(w, map[string]any{"program": program})
}

// ServeGet returns one program. Active programs are readable by anyone
// signed in; drafts and archived programs only by the owning NGO's staff
// or a superadmin.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProgramID(w, r)
	if !ok {
		return
	}
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get program")
	defer cancel()

	program, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "program")
			return
		}
		h.Log.Error("get program", zap.Error(err))
		respond.ServerError(w)
		return
	}

	if program.Status != models.ProgramStatusActive && program.Status != models.ProgramStatusCompleted {
		if !authz.IsSuperAdmin(r) && authz.UserNGOID(r) != program.NGOID {
			respond.NotFound(w, "program")
			return
		}
	}

	respond.OK(w, map[string]any{"program": program})
}

// HandleUpdate edits a draft or active program's fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProgramID(w, r)
	if !ok {
		return
	}
	gate := gates.RequirePermission(w, r, authz.ModulePrograms, authz.ActionUpdate)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	var in programRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update program")
	defer cancel()

	err := h.Programs.Update(ctx, id, ngoID, models.Program{
		Title:        normalize.Name(in.Title),
		Description:  htmlsanitize.Sanitize(in.Description),
		Category:     normalize.Status(in.Category),
		TargetAmount: in.TargetAmount,
		StartsAt:     in.StartsAt,
		EndsAt:       in.EndsAt,
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "program")
			return
		}
		h.Log.Error("update program", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventProgramUpdated, gate.UserID, &ngoID, "program", id, nil)
	respond.Message(w, "program updated")
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus moves a program through its lifecycle:
// draft → active → completed | archived.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProgramID(w, r)
	if !ok {
		return
	}
	gate := gates.RequirePermission(w, r, authz.ModulePrograms, authz.ActionUpdate)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	var in statusRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	status := normalize.Status(in.Status)
	switch status {
	case models.ProgramStatusDraft, models.ProgramStatusActive,
		models.ProgramStatusCompleted, models.ProgramStatusArchived:
	default:
		respond.BadRequest(w, "invalid program status")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set program status")
	defer cancel()

	if err := h.Programs.SetStatus(ctx, id, ngoID, status); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "program")
			return
		}
		h.Log.Error("set program status", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventProgramUpdated, gate.UserID, &ngoID, "program", id, map[string]string{
		"status": status,
	})
	respond.Message(w, "program status updated")
}

// HandleArchive retires a program. Archived programs stop accepting
// donations but keep their history, so this is the delete operation.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathProgramID(w, r)
	if !ok {
		return
	}
	gate := gates.RequirePermission(w, r, authz.ModulePrograms, authz.ActionDelete)
	if !gate.OK {
		return
	}
	ngoID := authz.UserNGOID(r)
	if ngoID == primitive.NilObjectID {
		respond.Forbidden(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "archive program")
	defer cancel()

	if err := h.Programs.SetStatus(ctx, id, ngoID, models.ProgramStatusArchived); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "program")
			return
		}
		h.Log.Error("archive program", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventProgramDeleted, gate.UserID, &ngoID, "program", id, nil)
	respond.Message(w, "program archived")
}

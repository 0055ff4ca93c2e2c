// internal/app/features/volunteers/apply.go
package volunteers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	volunteerstore "github.com/sevahub/sevahub/internal/app/store/volunteers"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type applyRequest struct {
	ProgramID  string `json:"program_id"`
	Motivation string `json:"motivation"`
}

// HandleApply registers the caller as a volunteer applicant on a program.
// Only active programs accept applications; the registration is bound to
// the program's organization.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleVolunteers, authz.ActionCreate)
	if !gate.OK {
		return
	}

	var req applyRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		respond.BadRequest(w, "invalid program_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "volunteer apply")
	defer cancel()

	program, err := h.Programs.GetByID(ctx, programID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "program")
			return
		}
		h.Log.Error("volunteer apply: load program", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if program.Status != models.ProgramStatusActive {
		respond.BadRequest(w, "this program is not accepting volunteers")
		return
	}

	reg, err := h.Volunteers.Apply(ctx, models.VolunteerRegistration{
		UserID:     gate.UserID,
		ProgramID:  program.ID,
		NGOID:      program.NGOID,
		Motivation: htmlsanitize.StripTags(req.Motivation),
	})
	if err != nil {
		if err == volunteerstore.ErrAlreadyApplied {
			respond.Conflict(w, err.Error())
			return
		}
		h.Log.Error("volunteer apply", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Hub.PublishToNGO(program.NGOID.Hex(), events.Event{
		Kind: events.KindVolunteerApplied,
		Payload: map[string]any{
			"registration_id": reg.ID.Hex(),
			"program_id":      program.ID.Hex(),
			"program_title":   program.Title,
			"volunteer":       gate.Name,
		},
	})

	respond.Created(w, map[string]any{"registration": reg})
}

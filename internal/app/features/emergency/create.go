// internal/app/features/emergency/create.go
package emergency

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/events"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type createRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ContactInfo string `json:"contact_info"`
}

// HandleCreate files a help request. The request starts pending and is
// pushed to superadmins for triage.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequirePermission(w, r, authz.ModuleEmergency, authz.ActionCreate)
	if !gate.OK {
		return
	}

	var req createRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	category := strings.TrimSpace(htmlsanitize.StripTags(req.Category))
	description := strings.TrimSpace(htmlsanitize.StripTags(req.Description))
	if category == "" {
		respond.BadRequest(w, "category is required")
		return
	}
	if description == "" {
		respond.BadRequest(w, "description is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create emergency request")
	defer cancel()

	er, err := h.Emergencies.Create(ctx, models.EmergencyRequest{
		RequesterID: gate.UserID,
		Category:    category,
		Description: description,
		Location:    htmlsanitize.StripTags(req.Location),
		ContactInfo: htmlsanitize.StripTags(req.ContactInfo),
	})
	if err != nil {
		h.Log.Error("create emergency request", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Hub.PublishToRole(authz.RoleSuperAdmin, events.Event{
		Kind: events.KindEmergencyCreated,
		Payload: map[string]any{
			"request_id": er.ID.Hex(),
			"category":   er.Category,
			"location":   er.Location,
		},
	})

	respond.Created(w, map[string]any{"request": er})
}

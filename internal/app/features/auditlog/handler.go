// internal/app/features/auditlog/handler.go

// Package auditlog exposes the platform audit trail to administrators.
package auditlog

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/paging"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
)

type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Audit: audit.New(db), Log: logger}
}

// entryView is the wire shape of one audit record. The store type carries
// bson tags only.
type entryView struct {
	ID            string            `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	NGOID         string            `json:"ngo_id,omitempty"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	ActorID       string            `json:"actor_id,omitempty"`
	Entity        string            `json:"entity,omitempty"`
	EntityID      string            `json:"entity_id,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toView(ev audit.Event) entryView {
	v := entryView{
		ID:            ev.ID.Hex(),
		CreatedAt:     ev.CreatedAt,
		Category:      ev.Category,
		EventType:     ev.EventType,
		Entity:        ev.Entity,
		IP:            ev.IP,
		Success:       ev.Success,
		FailureReason: ev.FailureReason,
		Details:       ev.Details,
	}
	if ev.NGOID != nil {
		v.NGOID = ev.NGOID.Hex()
	}
	if ev.ActorID != nil {
		v.ActorID = ev.ActorID.Hex()
	}
	if ev.EntityID != nil {
		v.EntityID = ev.EntityID.Hex()
	}
	return v
}

// parseFilter builds a query filter from the request. Bad object IDs and
// timestamps are reported rather than silently dropped.
func parseFilter(r *http.Request) (audit.QueryFilter, string) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
		Entity:    q.Get("entity"),
	}
	if raw := q.Get("ngo_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return f, "invalid ngo_id"
		}
		f.NGOID = &id
	}
	if raw := q.Get("actor_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return f, "invalid actor_id"
		}
		f.ActorID = &id
	}
	if raw := q.Get("start"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, "start must be RFC 3339"
		}
		f.StartTime = &ts
	}
	if raw := q.Get("end"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, "end must be RFC 3339"
		}
		f.EndTime = &ts
	}
	return f, ""
}

// HandleList returns audit records newest first, filtered and paginated.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireSuperAdmin(w, r)
	if !gate.OK {
		return
	}

	filter, bad := parseFilter(r)
	if bad != "" {
		respond.BadRequest(w, bad)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list audit log")
	defer cancel()

	entries, total, err := h.Audit.List(ctx, filter, p.Skip(), p.Limit64())
	if err != nil {
		h.Log.Error("list audit log", zap.Error(err))
		respond.ServerError(w)
		return
	}

	views := make([]entryView, 0, len(entries))
	for _, ev := range entries {
		views = append(views, toView(ev))
	}
	respond.OK(w, paging.List{Items: views, Meta: paging.NewMeta(p, total)})
}

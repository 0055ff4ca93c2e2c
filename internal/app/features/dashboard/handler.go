// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	emergencystore "github.com/sevahub/sevahub/internal/app/store/emergencies"
	grantstore "github.com/sevahub/sevahub/internal/app/store/grants"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	notificationstore "github.com/sevahub/sevahub/internal/app/store/notifications"
	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	volunteerstore "github.com/sevahub/sevahub/internal/app/store/volunteers"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
)

// Handler aggregates per-role summary numbers from the stores. It holds no
// state of its own.
type Handler struct {
	NGOs          *ngostore.Store
	Programs      *programstore.Store
	Donations     *donationstore.Store
	Volunteers    *volunteerstore.Store
	Grants        *grantstore.Store
	Emergencies   *emergencystore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		NGOs:          ngostore.New(db),
		Programs:      programstore.New(db),
		Donations:     donationstore.New(db),
		Volunteers:    volunteerstore.New(db),
		Grants:        grantstore.New(db),
		Emergencies:   emergencystore.New(db),
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Log:           logger,
	}
}

// HandleDashboard serves the summary shaped for the caller's role. Every
// signed-in role gets a dashboard; the numbers differ.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}

	switch gate.Role {
	case authz.RoleSuperAdmin:
		h.servePlatform(w, r, gate)
	case authz.RoleNGOAdmin, authz.RoleNGOManager:
		h.serveOrganization(w, r, gate)
	case authz.RoleVolunteer:
		h.serveVolunteer(w, r, gate)
	case authz.RoleDonor:
		h.serveDonor(w, r, gate)
	default:
		h.serveCitizen(w, r, gate)
	}
}

func respondSummary(w http.ResponseWriter, role string, summary map[string]any) {
	respond.OK(w, map[string]any{"role": role, "summary": summary})
}

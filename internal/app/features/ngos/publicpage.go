// internal/app/features/ngos/publicpage.go
package ngos

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	programstore "github.com/sevahub/sevahub/internal/app/store/programs"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// publicNGO is the subset of an organization shown on its public page.
// KYC documents and internal review fields never leave the platform.
type publicNGO struct {
	Name     string                  `json:"name"`
	Slug     string                  `json:"slug"`
	City     string                  `json:"city,omitempty"`
	State    string                  `json:"state,omitempty"`
	Homepage *models.HomepageContent `json:"homepage,omitempty"`
	SEO      *models.SEOMetadata     `json:"seo,omitempty"`
}

// ServePublicPage returns the public page of a verified organization by
// slug, with its active programs. No authentication required.
func (h *Handler) ServePublicPage(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	if slugParam == "" {
		respond.NotFound(w, "organization")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "public ngo page")
	defer cancel()

	ngo, err := h.NGOs.GetBySlug(ctx, slugParam)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respond.NotFound(w, "organization")
			return
		}
		h.Log.Error("public ngo page", zap.Error(err))
		respond.ServerError(w)
		return
	}

	programs, _, err := programstore.New(h.DB).ListByNGO(ctx, ngo.ID, models.ProgramStatusActive, 0, 20)
	if err != nil {
		h.Log.Error("public ngo page: programs", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{
		"ngo": publicNGO{
			Name:     ngo.Name,
			Slug:     ngo.Slug,
			City:     ngo.City,
			State:    ngo.State,
			Homepage: ngo.Homepage,
			SEO:      ngo.SEO,
		},
		"programs": programs,
	})
}

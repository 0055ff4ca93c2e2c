// internal/app/features/ngos/content.go
package ngos

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/policy/ngopolicy"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

type homepageRequest struct {
	Headline     string   `json:"headline" validate:"max=200" label:"Headline"`
	About        string   `json:"about" validate:"max=20000" label:"About"`
	MissionLines []string `json:"mission_lines"`
	BannerURL    string   `json:"banner_url" validate:"max=500" label:"Banner URL"`
	ContactEmail string   `json:"contact_email" validate:"max=254" label:"Contact email"`
}

// HandleUpdateHomepage replaces the organization's public-page content.
// The about field may carry HTML from a rich-text editor; everything else
// is stored as plain text.
func (h *Handler) HandleUpdateHomepage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	if gate := gates.RequireAuth(w, r); !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update ngo homepage")
	defer cancel()

	allowed, err := ngopolicy.CanManageNGO(ctx, h.DB, r, id)
	if err != nil {
		h.Log.Error("update homepage: policy", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !allowed {
		respond.Forbidden(w)
		return
	}

	var in homepageRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}
	if in.BannerURL != "" && !inputval.IsValidHTTPURL(in.BannerURL) {
		respond.BadRequest(w, "Banner URL must be a valid http or https URL.")
		return
	}

	lines := make([]string, 0, len(in.MissionLines))
	for _, line := range in.MissionLines {
		if s := htmlsanitize.StripTags(line); s != "" {
			lines = append(lines, s)
		}
	}

	content := models.HomepageContent{
		Headline:     htmlsanitize.StripTags(in.Headline),
		About:        htmlsanitize.Sanitize(in.About),
		MissionLines: lines,
		BannerURL:    in.BannerURL,
		ContactEmail: in.ContactEmail,
	}
	if err := h.NGOs.UpdateHomepage(ctx, id, content); err != nil {
		h.Log.Error("update homepage", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{"homepage": content})
}

type seoRequest struct {
	Title       string   `json:"title" validate:"max=120" label:"Title"`
	Description string   `json:"description" validate:"max=400" label:"Description"`
	Keywords    []string `json:"keywords"`
}

// HandleUpdateSEO replaces the organization's public-page SEO metadata.
// All fields are plain text.
func (h *Handler) HandleUpdateSEO(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	if gate := gates.RequireAuth(w, r); !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update ngo seo")
	defer cancel()

	allowed, err := ngopolicy.CanManageNGO(ctx, h.DB, r, id)
	if err != nil {
		h.Log.Error("update seo: policy", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !allowed {
		respond.Forbidden(w)
		return
	}

	var in seoRequest
	if !respond.DecodeJSON(w, r, &in) {
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		respond.ValidationErr(w, result.Messages())
		return
	}

	keywords := make([]string, 0, len(in.Keywords))
	for _, kw := range in.Keywords {
		if s := htmlsanitize.StripTags(kw); s != "" {
			keywords = append(keywords, s)
		}
	}
	if len(keywords) > 20 {
		keywords = keywords[:20]
	}

	seo := models.SEOMetadata{
		Title:       htmlsanitize.StripTags(in.Title),
		Description: htmlsanitize.StripTags(in.Description),
		Keywords:    keywords,
	}
	if err := h.NGOs.UpdateSEO(ctx, id, seo); err != nil {
		h.Log.Error("update seo", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.OK(w, map[string]any{"seo": seo})
}

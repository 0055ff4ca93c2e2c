// internal/domain/models/ngo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KYC status values for an NGO. The status moves
// pending → documents_submitted → verified | rejected.
const (
	KYCStatusPending            = "pending"
	KYCStatusDocumentsSubmitted = "documents_submitted"
	KYCStatusVerified           = "verified"
	KYCStatusRejected           = "rejected"
)

// KYC document types accepted during onboarding.
const (
	DocPANCard                 = "pan_card"
	DocRegistrationCertificate = "registration_certificate"
	DocTaxExemption            = "tax_exemption"
	DocBankStatement           = "bank_statement"
)

// KYCDocument is a single uploaded verification document.
type KYCDocument struct {
	Type        string    `bson:"type" json:"type"`
	FilePath    string    `bson:"file_path" json:"-"`
	FileName    string    `bson:"file_name" json:"file_name"`
	ContentType string    `bson:"content_type" json:"content_type"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// HomepageContent is the structured public-page content an NGO admin edits.
// Fields are explicit rather than an open map so writes stay validated.
type HomepageContent struct {
	Headline     string   `bson:"headline,omitempty" json:"headline,omitempty"`
	About        string   `bson:"about,omitempty" json:"about,omitempty"` // sanitized HTML
	MissionLines []string `bson:"mission_lines,omitempty" json:"mission_lines,omitempty"`
	BannerURL    string   `bson:"banner_url,omitempty" json:"banner_url,omitempty"`
	ContactEmail string   `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
}

// SEOMetadata is the per-NGO metadata served on public pages.
type SEOMetadata struct {
	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Keywords    []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// NGO is the primary tenant entity. Slug is derived deterministically from
// the NGO name plus the last six characters of its ID when KYC verification
// succeeds, and is used for public pages.
type NGO struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Slug   string             `bson:"slug,omitempty" json:"slug,omitempty"`

	RegistrationNumber string `bson:"registration_number,omitempty" json:"registration_number,omitempty"`
	ContactEmail       string `bson:"contact_email" json:"contact_email"`
	ContactPhone       string `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address            string `bson:"address,omitempty" json:"address,omitempty"`
	City               string `bson:"city,omitempty" json:"city,omitempty"`
	State              string `bson:"state,omitempty" json:"state,omitempty"`

	KYCStatus       string              `bson:"kyc_status" json:"kyc_status"`
	KYCDocuments    []KYCDocument       `bson:"kyc_documents,omitempty" json:"kyc_documents,omitempty"`
	KYCRejectReason string              `bson:"kyc_reject_reason,omitempty" json:"kyc_reject_reason,omitempty"`
	VerifiedAt      *time.Time          `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	VerifiedBy      *primitive.ObjectID `bson:"verified_by,omitempty" json:"verified_by,omitempty"`

	Homepage *HomepageContent `bson:"homepage,omitempty" json:"homepage,omitempty"`
	SEO      *SEOMetadata     `bson:"seo,omitempty" json:"seo,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

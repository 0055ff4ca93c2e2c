// internal/app/features/ngos/kycupload.go
package ngos

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sevahub/sevahub/internal/app/policy/ngopolicy"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/app/store/audit"
	"github.com/sevahub/sevahub/internal/app/system/gates"
	"github.com/sevahub/sevahub/internal/app/system/respond"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
)

// maxKYCFileSize caps one verification document at 10 MB.
const maxKYCFileSize = 10 << 20

// documentTypes are the multipart field names accepted on the KYC
// submission form.
var documentTypes = []string{
	models.DocPANCard,
	models.DocRegistrationCertificate,
	models.DocTaxExemption,
	models.DocBankStatement,
}

var allowedDocContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// HandleUploadDocuments accepts the organization's verification documents
// as one multipart submission, with one file field per document type.
// A successful submission moves the organization to documents_submitted;
// after a rejection the form can be submitted again.
func (h *Handler) HandleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathNGOID(w, r)
	if !ok {
		return
	}
	gate := gates.RequireAuth(w, r)
	if !gate.OK {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "upload kyc documents")
	defer cancel()

	allowed, err := ngopolicy.CanManageNGO(ctx, h.DB, r, id)
	if err != nil {
		h.Log.Error("kyc upload: policy", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !allowed {
		respond.Forbidden(w)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respond.BadRequest(w, "invalid multipart form")
		return
	}

	var docs []models.KYCDocument
	for _, docType := range documentTypes {
		file, header, fileErr := r.FormFile(docType)
		if fileErr != nil || header == nil || header.Size == 0 {
			continue
		}
		doc, err := h.storeDocument(ctx, docType, file, header)
		file.Close()
		if err != nil {
			respond.BadRequest(w, err.Error())
			return
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		respond.BadRequest(w, "at least one verification document is required")
		return
	}

	if err := h.NGOs.SubmitDocuments(ctx, id, docs); err != nil {
		switch err {
		case ngostore.ErrInvalidTransition:
			respond.Conflict(w, "documents were already submitted for this organization")
		case mongo.ErrNoDocuments:
			respond.NotFound(w, "organization")
		default:
			h.Log.Error("kyc upload: submit", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	h.Audit.AdminAction(ctx, r, audit.EventKYCDocumentsSubmitted, gate.UserID, &id, "ngo", id, map[string]string{
		"documents": fmt.Sprintf("%d", len(docs)),
	})

	respond.OK(w, map[string]any{
		"kyc_status": models.KYCStatusDocumentsSubmitted,
		"documents":  docs,
	})
}

// storeDocument validates one uploaded file and writes it to storage under
// kyc/YYYY/MM/uuid-filename.
func (h *Handler) storeDocument(ctx context.Context, docType string, file multipart.File, header *multipart.FileHeader) (models.KYCDocument, error) {
	if header.Size > maxKYCFileSize {
		return models.KYCDocument{}, fmt.Errorf("%s exceeds the 10 MB limit", docType)
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedDocContentTypes[contentType] {
		return models.KYCDocument{}, fmt.Errorf("%s must be a PDF or an image", docType)
	}

	now := time.Now().UTC()
	dateDir := fmt.Sprintf("kyc/%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(header.Filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.Storage.Put(ctx, path, file, opts); err != nil {
		h.Log.Error("kyc upload: put", zap.Error(err), zap.String("path", path))
		return models.KYCDocument{}, fmt.Errorf("failed to store %s", docType)
	}

	return models.KYCDocument{
		Type:        docType,
		FilePath:    path,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		UploadedAt:  now,
	}, nil
}

// sanitizeFilename strips path components and replaces characters that
// could be problematic in storage keys.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == '-' || c == '_':
		return true
	}
	return false
}

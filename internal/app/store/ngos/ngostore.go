// internal/app/store/ngos/ngostore.go
package ngostore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sevahub/sevahub/internal/app/system/slug"
	"github.com/sevahub/sevahub/internal/domain/models"
)

var (
	ErrDuplicateName = errors.New("an organization with this name already exists")

	// ErrInvalidTransition is returned when a KYC state change is requested
	// from a state that does not allow it. Conditional updates make the
	// check atomic: a concurrent writer cannot race past it.
	ErrInvalidTransition = errors.New("operation not allowed in the organization's current KYC state")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ngos")}
}

// Create registers a new organization in the pending KYC state.
func (s *Store) Create(ctx context.Context, ngo models.NGO) (models.NGO, error) {
	now := time.Now().UTC()
	ngo.ID = primitive.NewObjectID()
	ngo.NameCI = text.Fold(ngo.Name)
	ngo.KYCStatus = models.KYCStatusPending
	ngo.Slug = ""
	if ngo.Status == "" {
		ngo.Status = "active"
	}
	ngo.CreatedAt = now
	ngo.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ngo); err != nil {
		if wafflemongo.IsDup(err) {
			return models.NGO{}, ErrDuplicateName
		}
		return models.NGO{}, err
	}
	return ngo, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.NGO, error) {
	var ngo models.NGO
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ngo); err != nil {
		return models.NGO{}, err
	}
	return ngo, nil
}

// GetBySlug resolves a verified organization's public page.
func (s *Store) GetBySlug(ctx context.Context, slugStr string) (models.NGO, error) {
	var ngo models.NGO
	err := s.c.FindOne(ctx, bson.M{"slug": slugStr, "kyc_status": models.KYCStatusVerified}).Decode(&ngo)
	if err != nil {
		return models.NGO{}, err
	}
	return ngo, nil
}

// List returns organizations, optionally filtered by KYC status, newest
// first, with the total for pagination.
func (s *Store) List(ctx context.Context, kycStatus string, skip, limit int64) ([]models.NGO, int64, error) {
	filter := bson.M{}
	if kycStatus != "" {
		filter["kyc_status"] = kycStatus
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var ngos []models.NGO
	if err := cur.All(ctx, &ngos); err != nil {
		return nil, 0, err
	}
	return ngos, total, nil
}

// Update modifies an organization's profile fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, ngo models.NGO) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if ngo.Name != "" {
		set["name"] = ngo.Name
		set["name_ci"] = text.Fold(ngo.Name)
	}
	if ngo.ContactEmail != "" {
		set["contact_email"] = ngo.ContactEmail
	}
	if ngo.ContactPhone != "" {
		set["contact_phone"] = ngo.ContactPhone
	}
	if ngo.Address != "" {
		set["address"] = ngo.Address
	}
	if ngo.City != "" {
		set["city"] = ngo.City
	}
	if ngo.State != "" {
		set["state"] = ngo.State
	}
	if ngo.RegistrationNumber != "" {
		set["registration_number"] = ngo.RegistrationNumber
	}
	if _, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// UpdateHomepage replaces the structured public-page content. Callers
// sanitize the HTML fields before storing.
func (s *Store) UpdateHomepage(ctx context.Context, id primitive.ObjectID, content models.HomepageContent) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"homepage":   content,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// UpdateSEO replaces the public-page SEO metadata.
func (s *Store) UpdateSEO(ctx context.Context, id primitive.ObjectID, seo models.SEOMetadata) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"seo":        seo,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SubmitDocuments appends uploaded KYC documents and moves the organization
// to documents_submitted. Allowed from pending (first submission) and from
// rejected (resubmission after correction); a rejection reason left over
// from the previous round is cleared.
func (s *Store) SubmitDocuments(ctx context.Context, id primitive.ObjectID, docs []models.KYCDocument) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":        id,
			"kyc_status": bson.M{"$in": []string{models.KYCStatusPending, models.KYCStatusRejected}},
		},
		bson.M{
			"$set": bson.M{
				"kyc_status": models.KYCStatusDocumentsSubmitted,
				"updated_at": time.Now().UTC(),
			},
			"$unset": bson.M{"kyc_reject_reason": ""},
			"$push":  bson.M{"kyc_documents": bson.M{"$each": docs}},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return transitionErr(ctx, s.c, id)
	}
	return nil
}

// Verify approves a submitted KYC request: the organization becomes
// verified and gets its deterministic public slug. Only valid from
// documents_submitted.
func (s *Store) Verify(ctx context.Context, id, reviewerID primitive.ObjectID) (models.NGO, error) {
	var current models.NGO
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&current); err != nil {
		return models.NGO{}, err
	}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "kyc_status": models.KYCStatusDocumentsSubmitted},
		bson.M{"$set": bson.M{
			"kyc_status":  models.KYCStatusVerified,
			"slug":        slug.Make(current.Name, id.Hex()),
			"verified_at": now,
			"verified_by": reviewerID,
			"updated_at":  now,
		}})
	if err != nil {
		return models.NGO{}, err
	}
	if res.MatchedCount == 0 {
		return models.NGO{}, ErrInvalidTransition
	}
	return s.GetByID(ctx, id)
}

// RejectKYC declines a submitted KYC request with a reason. Only valid
// from documents_submitted.
func (s *Store) RejectKYC(ctx context.Context, id, reviewerID primitive.ObjectID, reason string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "kyc_status": models.KYCStatusDocumentsSubmitted},
		bson.M{"$set": bson.M{
			"kyc_status":        models.KYCStatusRejected,
			"kyc_reject_reason": reason,
			"verified_by":       reviewerID,
			"updated_at":        time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// Delete removes an organization. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByKYCStatus is used on the superadmin dashboard.
func (s *Store) CountByKYCStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"kyc_status": status})
}

// transitionErr distinguishes "no such document" from "wrong state" after
// a conditional update matched nothing.
func transitionErr(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) error {
	if err := c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return err
	}
	return ErrInvalidTransition
}

// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureNGOs(ctx, db); err != nil {
		problems = append(problems, "ngos: "+err.Error())
	}
	if err := ensurePrograms(ctx, db); err != nil {
		problems = append(problems, "programs: "+err.Error())
	}
	if err := ensureDonations(ctx, db); err != nil {
		problems = append(problems, "donations: "+err.Error())
	}
	if err := ensureVolunteerRegistrations(ctx, db); err != nil {
		problems = append(problems, "volunteer_registrations: "+err.Error())
	}
	if err := ensureGrants(ctx, db); err != nil {
		problems = append(problems, "grants: "+err.Error())
	}
	if err := ensureCertificates(ctx, db); err != nil {
		problems = append(problems, "certificates: "+err.Error())
	}
	if err := ensureEmergencyRequests(ctx, db); err != nil {
		problems = append(problems, "emergency_requests: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}
	if err := ensureAuditLog(ctx, db); err != nil {
		problems = append(problems, "audit_log: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// Best-effort duplicate-key detector (works cross-vendors).
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes keyed by signature.
		existing := map[string]existingIndex{}
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
			cur.Close(ctx)
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Name alignment: if the name differs, drop & recreate.
				if desiredName != "" && ex.Name != desiredName {
					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("name", desiredName),
						zap.String("took", time.Since(start).String()))
					continue
				}

				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g. upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isOptionsConflictErr(err) {
				// An equivalent index snuck in under another name; treat as ensured.
				zap.L().Info("reusing existing index (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("keys", desiredSig),
					zap.String("took", time.Since(start).String()))
				continue
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("created_name", created),
			zap.String("keys", desiredSig),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email must be unique across all users.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Manager/member lists scoped to one NGO.
		{
			Keys: bson.D{
				{Key: "ngo_id", Value: 1},
				{Key: "role", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_ngo_role_nameci_id"),
		},
		// Role-wide admin listings.
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_users_role_status"),
		},
	})
}

func ensureNGOs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("ngos")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One organization per name (case/diacritics folded).
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_ngos_nameci"),
		},
		// Public pages resolve by slug; sparse because slugs appear only
		// after verification.
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_ngos_slug"),
		},
		// KYC review queue: status filter + stable sort.
		{
			Keys: bson.D{
				{Key: "kyc_status", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_ngos_kyc_created_id"),
		},
	})
}

func ensurePrograms(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("programs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-NGO program lists with status filter.
		{
			Keys: bson.D{
				{Key: "ngo_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_programs_ngo_status_created_id"),
		},
		// Public discovery: all active programs, newest first.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_programs_status_created"),
		},
	})
}

func ensureDonations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("donations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Donor history.
		{
			Keys:    bson.D{{Key: "donor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_donations_donor_created"),
		},
		// NGO-side ledger and dashboard totals.
		{
			Keys: bson.D{
				{Key: "ngo_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_donations_ngo_status_created"),
		},
		// Receipts resolve to exactly one donation.
		{
			Keys:    bson.D{{Key: "receipt_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_donations_receipt"),
		},
		// Webhook completion looks donations up by gateway order id.
		{
			Keys:    bson.D{{Key: "gateway_order_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_donations_gateway_order"),
		},
	})
}

func ensureVolunteerRegistrations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("volunteer_registrations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One application per (volunteer, program).
		{
			Keys:    bson.D{{Key: "volunteer_id", Value: 1}, {Key: "program_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_volreg_volunteer_program"),
		},
		// NGO review queues.
		{
			Keys: bson.D{
				{Key: "ngo_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_volreg_ngo_status_created"),
		},
	})
}

func ensureGrants(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("grants")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ngo_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_grants_ngo_status_created"),
		},
		// Superadmin review queue across all NGOs.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_grants_status_created"),
		},
	})
}

func ensureCertificates(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("certificates")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Public verification by serial.
		{
			Keys:    bson.D{{Key: "serial", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_certificates_serial"),
		},
		// A user's own certificates.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_certificates_user_created"),
		},
		{
			Keys:    bson.D{{Key: "ngo_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_certificates_ngo_created"),
		},
	})
}

func ensureEmergencyRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("emergency_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Superadmin triage queue: pending first, newest first.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_emergency_status_created_id"),
		},
		// NGO work queue of assigned requests.
		{
			Keys: bson.D{
				{Key: "assigned_ngo_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetSparse(true).SetName("idx_emergency_ngo_status_created"),
		},
		// A citizen's own requests.
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_emergency_requester_created"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("announcements")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Approval queue and author lists.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_announcements_status_created"),
		},
		{
			Keys: bson.D{
				{Key: "ngo_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetSparse(true).SetName("idx_announcements_ngo_status_created"),
		},
		// Public feed: approved items whose publish time has passed.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "publish_at", Value: -1},
			},
			Options: options.Index().SetName("idx_announcements_status_publishat"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("notifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Per-user inbox, unread filter, newest first.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "read", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_notifications_user_read_created"),
		},
	})
}

func ensureAuditLog(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_log")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_created"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_created"),
		},
		{
			Keys:    bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_entity_created"),
		},
	})
}

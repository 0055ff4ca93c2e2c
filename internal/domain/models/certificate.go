// internal/domain/models/certificate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Certificate types.
const (
	CertificateVolunteering = "volunteering"
	CertificateDonation     = "donation"
	CertificateAppreciation = "appreciation"
)

// Certificate is issued by an NGO to a volunteer or donor. Serial is unique
// and verifiable through the public lookup endpoint.
type Certificate struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NGOID    primitive.ObjectID `bson:"ngo_id" json:"ngo_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type     string             `bson:"type" json:"type"`
	Serial   string             `bson:"serial" json:"serial"`
	Title    string             `bson:"title" json:"title"`
	Remarks  string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	IssuedBy primitive.ObjectID `bson:"issued_by" json:"issued_by"`
	IssuedAt time.Time          `bson:"issued_at" json:"issued_at"`
}

package mailer

import (
	"strings"
	"testing"
)

func TestBuildKYCDecisionEmail_Verified(t *testing.T) {
	e := BuildKYCDecisionEmail(KYCDecisionData{
		SiteName: "SevaHub",
		NGOName:  "Helping Hands Foundation",
		Verified: true,
		Slug:     "helping-hands-foundation-abc123",
	})
	if !strings.Contains(e.Subject, "verified") {
		t.Errorf("subject = %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "helping-hands-foundation-abc123") {
		t.Error("text body should carry the public slug")
	}
	if !strings.Contains(e.HTMLBody, "Helping Hands Foundation") {
		t.Error("html body should carry the NGO name")
	}
}

func TestBuildKYCDecisionEmail_Rejected(t *testing.T) {
	e := BuildKYCDecisionEmail(KYCDecisionData{
		SiteName: "SevaHub",
		NGOName:  "Helping Hands Foundation",
		Verified: false,
		Reason:   "PAN card is unreadable",
	})
	if !strings.Contains(e.TextBody, "PAN card is unreadable") {
		t.Error("text body should carry the rejection reason")
	}
	if strings.Contains(e.TextBody, "live at") {
		t.Error("rejected email should not mention a public page")
	}
}

func TestBuildManagerInviteEmail_EscapesHTML(t *testing.T) {
	e := BuildManagerInviteEmail(ManagerInviteData{
		SiteName:    "SevaHub",
		NGOName:     `<script>alert(1)</script>`,
		ManagerName: "Asha",
		Email:       "asha@seva.org",
		TempPass:    "temp-pass-123",
	})
	if e.To != "asha@seva.org" {
		t.Errorf("to = %q", e.To)
	}
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("NGO name must be escaped in the HTML body")
	}
	if !strings.Contains(e.TextBody, "temp-pass-123") {
		t.Error("text body should carry the temporary password")
	}
}

func TestBuildReceiptEmail(t *testing.T) {
	e := BuildReceiptEmail(ReceiptData{
		SiteName:      "SevaHub",
		DonorName:     "Ravi",
		NGOName:       "Helping Hands Foundation",
		AmountDisplay: "₹1,500.00",
		ReceiptNumber: "RCP-2026-000123",
	})
	if !strings.Contains(e.Subject, "RCP-2026-000123") {
		t.Errorf("subject = %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "₹1,500.00") {
		t.Error("text body should carry the amount")
	}
}

func TestEnvelopeFrom(t *testing.T) {
	if got := envelopeFrom("SevaHub <no-reply@sevahub.org>"); got != "no-reply@sevahub.org" {
		t.Errorf("envelopeFrom = %q", got)
	}
	if got := envelopeFrom("no-reply@sevahub.org"); got != "no-reply@sevahub.org" {
		t.Errorf("envelopeFrom bare = %q", got)
	}
}

func TestSend_NilAndUnconfigured(t *testing.T) {
	var m *Mailer
	if err := m.Send(Email{To: "x@y.z"}); err != nil {
		t.Errorf("nil mailer should drop silently, got %v", err)
	}
}

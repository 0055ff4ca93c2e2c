// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// KYCDecisionData holds data for KYC decision emails.
type KYCDecisionData struct {
	SiteName string
	NGOName  string
	Verified bool
	Reason   string // rejection reason, empty when verified
	Slug     string // public page slug, set when verified
}

// BuildKYCDecisionEmail creates the email sent to an NGO admin when their
// verification request is decided.
func BuildKYCDecisionEmail(data KYCDecisionData) Email {
	subject := fmt.Sprintf("%s: your organization has been verified", data.SiteName)
	if !data.Verified {
		subject = fmt.Sprintf("%s: your verification request was not approved", data.SiteName)
	}
	return Email{
		Subject:  subject,
		TextBody: buildKYCDecisionText(data),
		HTMLBody: buildDecisionHTML(data.SiteName, kycDecisionHTMLBody(data)),
	}
}

func buildKYCDecisionText(data KYCDecisionData) string {
	var buf bytes.Buffer
	if data.Verified {
		fmt.Fprintf(&buf, "Good news: %s has been verified.\n\n", data.NGOName)
		fmt.Fprintf(&buf, "Your public page is now live at /ngo/%s.\n", data.Slug)
		buf.WriteString("You can now publish programs, receive donations, and request grants.\n")
	} else {
		fmt.Fprintf(&buf, "The verification request for %s was not approved.\n\n", data.NGOName)
		if data.Reason != "" {
			fmt.Fprintf(&buf, "Reason: %s\n\n", data.Reason)
		}
		buf.WriteString("You can correct the documents and submit them again.\n")
	}
	return buf.String()
}

func kycDecisionHTMLBody(data KYCDecisionData) string {
	if data.Verified {
		return fmt.Sprintf(
			`<p><strong>%s</strong> has been verified.</p><p>Your public page is now live at <code>/ngo/%s</code>. You can now publish programs, receive donations, and request grants.</p>`,
			template.HTMLEscapeString(data.NGOName), template.HTMLEscapeString(data.Slug))
	}
	body := fmt.Sprintf(
		`<p>The verification request for <strong>%s</strong> was not approved.</p>`,
		template.HTMLEscapeString(data.NGOName))
	if data.Reason != "" {
		body += fmt.Sprintf(`<p>Reason: %s</p>`, template.HTMLEscapeString(data.Reason))
	}
	return body + `<p>You can correct the documents and submit them again.</p>`
}

// ManagerInviteData holds data for manager invitation emails.
type ManagerInviteData struct {
	SiteName    string
	NGOName     string
	ManagerName string
	Email       string
	TempPass    string
	Permissions []string
}

// BuildManagerInviteEmail creates the email sent to a newly created
// manager account.
func BuildManagerInviteEmail(data ManagerInviteData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "Hello %s,\n\n", data.ManagerName)
	fmt.Fprintf(&text, "You have been added as a manager for %s on %s.\n\n", data.NGOName, data.SiteName)
	fmt.Fprintf(&text, "Sign in with %s and the temporary password: %s\n", data.Email, data.TempPass)
	text.WriteString("Change the password after your first sign-in.\n")

	html := fmt.Sprintf(
		`<p>Hello %s,</p><p>You have been added as a manager for <strong>%s</strong>.</p><p>Sign in with <code>%s</code> and the temporary password <code>%s</code>. Change it after your first sign-in.</p>`,
		template.HTMLEscapeString(data.ManagerName),
		template.HTMLEscapeString(data.NGOName),
		template.HTMLEscapeString(data.Email),
		template.HTMLEscapeString(data.TempPass))

	return Email{
		To:       data.Email,
		Subject:  fmt.Sprintf("You have been added to %s on %s", data.NGOName, data.SiteName),
		TextBody: text.String(),
		HTMLBody: buildDecisionHTML(data.SiteName, html),
	}
}

// ReceiptData holds data for donation receipt emails.
type ReceiptData struct {
	SiteName      string
	DonorName     string
	NGOName       string
	ProgramTitle  string
	AmountDisplay string // formatted with currency, e.g. "₹1,500.00"
	ReceiptNumber string
}

// BuildReceiptEmail creates the email sent to a donor after a completed
// donation.
func BuildReceiptEmail(data ReceiptData) Email {
	var text bytes.Buffer
	fmt.Fprintf(&text, "Dear %s,\n\n", data.DonorName)
	fmt.Fprintf(&text, "Thank you for your donation of %s to %s", data.AmountDisplay, data.NGOName)
	if data.ProgramTitle != "" {
		fmt.Fprintf(&text, " (%s)", data.ProgramTitle)
	}
	text.WriteString(".\n\n")
	fmt.Fprintf(&text, "Receipt number: %s\n", data.ReceiptNumber)
	text.WriteString("Keep this receipt for your records.\n")

	html := fmt.Sprintf(
		`<p>Dear %s,</p><p>Thank you for your donation of <strong>%s</strong> to <strong>%s</strong>.</p><p>Receipt number: <code>%s</code></p>`,
		template.HTMLEscapeString(data.DonorName),
		template.HTMLEscapeString(data.AmountDisplay),
		template.HTMLEscapeString(data.NGOName),
		template.HTMLEscapeString(data.ReceiptNumber))

	return Email{
		Subject:  fmt.Sprintf("Your donation receipt %s", data.ReceiptNumber),
		TextBody: text.String(),
		HTMLBody: buildDecisionHTML(data.SiteName, html),
	}
}

// buildDecisionHTML wraps a body fragment in the shared email shell.
func buildDecisionHTML(siteName, body string) string {
	tmpl := template.Must(template.New("shell").Parse(emailShellTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, map[string]any{
		"SiteName": siteName,
		"Body":     template.HTML(body),
	})
	return buf.String()
}

const emailShellTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; font-size: 15px; color: #374151; line-height: 1.5;">
              {{.Body}}
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                This is an automated message from {{.SiteName}}.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

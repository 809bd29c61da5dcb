package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gauravsaxena1997/punit-portfolio/internal/contact"
)

var htmlTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Contact Form Submission</title>
  </head>
  <body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f5f5f5;">
    <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f5f5f5; padding: 20px;">
      <tr>
        <td align="center">
          <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
            <tr>
              <td style="background: linear-gradient(135deg, #F2C811 0%, #01B8AA 100%); padding: 30px; text-align: center;">
                <h1 style="margin: 0; color: #0D1117; font-size: 24px; font-weight: 700;">New Portfolio Contact</h1>
              </td>
            </tr>
            <tr>
              <td style="padding: 30px;">
                <div style="margin-bottom: 25px; padding: 20px; background-color: #f8f9fa; border-radius: 8px; border-left: 4px solid #0078D4;">
                  <h2 style="margin: 0 0 15px 0; color: #0078D4; font-size: 16px; font-weight: 600;">Sender Information</h2>
                  <p style="margin: 0 0 8px 0; color: #333;"><strong>Name:</strong> {{.Name}}</p>
                  <p style="margin: 0; color: #333;"><strong>Email:</strong> <a href="mailto:{{.Email}}" style="color: #0078D4; text-decoration: none;">{{.Email}}</a></p>
                </div>
                <div style="padding: 20px; background-color: #f8f9fa; border-radius: 8px; border-left: 4px solid #F2C811;">
                  <h2 style="margin: 0 0 15px 0; color: #F2C811; font-size: 16px; font-weight: 600;">Message</h2>
                  <p style="margin: 0; color: #333; line-height: 1.6; white-space: pre-wrap;">{{.Message}}</p>
                </div>
              </td>
            </tr>
            <tr>
              <td style="padding: 20px 30px; background-color: #0D1117; text-align: center;">
                <p style="margin: 0; color: #8B949E; font-size: 12px;">This email was sent from your portfolio contact form.</p>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`))

// RenderHTML builds the HTML body. Every submitted field is escaped by
// html/template, which covers & < > " and '.
func RenderHTML(s contact.Submission) (string, error) {
	var b strings.Builder
	if err := htmlTemplate.Execute(&b, s); err != nil {
		return "", fmt.Errorf("render html email: %w", err)
	}
	return b.String(), nil
}

// RenderText builds the plain-text fallback body.
func RenderText(s contact.Submission) string {
	return fmt.Sprintf(`New Contact Form Submission
===========================

From: %s
Email: %s

Message:
%s

---
This email was sent from your portfolio contact form.`, s.Name, s.Email, s.Message)
}

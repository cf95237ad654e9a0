package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	Name         string
	Email        string
	Subject      string
	Message      string
	InquiryLabel string
}

// Field is one labelled row of an application email.
type Field struct {
	Label string
	Value string
}

// JoinEmailData holds the data for join application emails. Fields are
// rendered in order.
type JoinEmailData struct {
	Category string
	Name     string
	Email    string
	Fields   []Field
}

const layoutHead = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; padding: 20px; background: #f5f5f5; margin: 0;">
  <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="background: #1E0A14; padding: 24px; text-align: center;">
      <h1 style="color: #F5E6C8; margin: 0; font-size: 24px;">{{.Heading}}</h1>
      <p style="color: #D4AA6A; margin: 8px 0 0 0; font-size: 14px;">{{.Tagline}}</p>
    </div>
    <div style="padding: 24px;">`

const layoutFoot = `
    </div>
    <div style="background: #f9f9f9; padding: 16px 24px; text-align: center; border-top: 1px solid #eee;">
      <p style="color: #999; font-size: 12px; margin: 0;">
        {{.Footer}}<br>
        <a href="mailto:{{.ReplyTo}}" style="color: #1A7B7A;">Reply to {{.ReplyName}}</a>
      </p>
    </div>
  </div>
</body>
</html>`

// contactEmailTemplate is the HTML template for contact form emails
const contactEmailTemplate = layoutHead + `
      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600; color: #333; width: 120px;">From</td>
          <td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">{{.Data.Name}}</td>
        </tr>
        <tr>
          <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600; color: #333;">Email</td>
          <td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">
            <a href="mailto:{{.Data.Email}}" style="color: #1A7B7A;">{{.Data.Email}}</a>
          </td>
        </tr>
        <tr>
          <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600; color: #333;">Subject</td>
          <td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">{{.Data.Subject}}</td>
        </tr>
      </table>
      <div style="margin-top: 24px;">
        <h3 style="color: #333; margin: 0 0 12px 0; font-size: 14px; text-transform: uppercase; letter-spacing: 0.5px;">Message</h3>
        <div style="background: #f9f9f9; padding: 16px; border-radius: 6px; color: #555; line-height: 1.6; white-space: pre-wrap;">{{.Data.Message}}</div>
      </div>` + layoutFoot

// joinEmailTemplate is the HTML template for join application emails
const joinEmailTemplate = layoutHead + `
      <p style="color: #666; font-size: 14px; margin: 0 0 16px 0;">Submitted on {{.SubmittedAt}}</p>
      <table style="width: 100%; border-collapse: collapse;">
        {{- range .Data.Fields}}
        <tr>
          <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600; color: #333; width: 180px; vertical-align: top;">{{.Label}}</td>
          <td style="padding: 12px; border-bottom: 1px solid #eee; color: #666; white-space: pre-wrap;">{{.Value}}</td>
        </tr>
        {{- end}}
      </table>` + layoutFoot

var (
	contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))
	joinTmpl    = template.Must(template.New("join").Parse(joinEmailTemplate))
)

type templateData struct {
	Title       string
	Heading     string
	Tagline     string
	Footer      string
	ReplyTo     string
	ReplyName   string
	SubmittedAt string
	Data        any
}

// Composer turns validated submissions into messages addressed to the
// organisation inbox.
type Composer struct {
	from string
	to   string
	now  func() time.Time
}

func NewComposer(from, to string) *Composer {
	return &Composer{from: from, to: to, now: time.Now}
}

// ComposeContact builds the contact form notification.
func (c *Composer) ComposeContact(data ContactEmailData) (Message, error) {
	label := data.InquiryLabel
	if label == "" {
		label = "General Inquiry"
	}

	html, err := render(contactTmpl, templateData{
		Title:     "New Contact Form Submission",
		Heading:   "New Contact Message",
		Tagline:   label,
		Footer:    "Submitted via anduberinnovate.org contact form",
		ReplyTo:   data.Email,
		ReplyName: data.Name,
		Data:      data,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    c.from,
		To:      c.to,
		ReplyTo: headerSafe(data.Email),
		Subject: headerSafe(fmt.Sprintf("[Contact Form] %s", data.Subject)),
		HTML:    html,
	}, nil
}

// ComposeJoin builds the application notification.
func (c *Composer) ComposeJoin(data JoinEmailData) (Message, error) {
	html, err := render(joinTmpl, templateData{
		Title:       fmt.Sprintf("New %s Application", data.Category),
		Heading:     "New Application",
		Tagline:     data.Category,
		Footer:      "Submitted via anduberinnovate.org",
		ReplyTo:     data.Email,
		ReplyName:   data.Name,
		SubmittedAt: c.now().UTC().Format("Monday, January 2, 2006 at 3:04 PM MST"),
		Data:        data,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    c.from,
		To:      c.to,
		ReplyTo: headerSafe(data.Email),
		Subject: headerSafe(fmt.Sprintf("[%s] New Application from %s", data.Category, data.Name)),
		HTML:    html,
	}, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute %s email template: %w", tmpl.Name(), err)
	}
	return body.String(), nil
}

// headerSafe collapses whitespace, line breaks included, so a value cannot
// start a new mail header.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

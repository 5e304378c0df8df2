package service

import (
	"strings"

	"github.com/unclebandit/outreach-engine/internal/model"
)

// Personalize substitutes {{name}} into subject or body text. An empty
// name falls back to "there" so greetings never render blank.
func Personalize(text, name string) string {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	return strings.ReplaceAll(text, "{{name}}", name)
}

// A small fixed set of pre-built sequence emails, detected by
// case-insensitive substring match on the template's name.
type cannedTemplate struct {
	match   string
	subject string
	body    string
}

var cannedTemplates = []cannedTemplate{
	{
		match:   "quote follow",
		subject: "Following up on your quote",
		body:    "<p>Hi {{name}},</p><p>Just checking in on the quote we sent over. Let us know if anything needs adjusting and we can get it updated right away.</p>",
	},
	{
		match:   "deal follow",
		subject: "Checking in, {{name}}",
		body:    "<p>Hi {{name}},</p><p>Wanted to follow up on our conversation and see where things stand on your side. Is there anything holding the deal up that we can help with?</p>",
	},
	{
		match:   "welcome",
		subject: "Welcome aboard, {{name}}!",
		body:    "<p>Hi {{name}},</p><p>Great to have you with us. Over the next few days we'll send a couple of short emails to help you get the most out of the platform.</p>",
	},
	{
		match:   "meeting reminder",
		subject: "Reminder: our upcoming meeting",
		body:    "<p>Hi {{name}},</p><p>A quick reminder about our upcoming meeting. Reply to this email if you need to reschedule.</p>",
	},
}

const genericBody = "<p>Hi {{name}},</p><p>Just reaching out to stay in touch. Reply to this email if there's anything we can help with.</p>"

// RenderMailTemplate resolves a sequence email template to a subject and
// body. A name matching one of the pre-built templates wins; otherwise the
// template's own content is used with placeholder substitution, and a
// template with neither falls back to the generic body.
func RenderMailTemplate(tpl *model.MailTemplate, name string) (string, string) {
	lower := strings.ToLower(tpl.Name)
	for _, c := range cannedTemplates {
		if strings.Contains(lower, c.match) {
			return Personalize(c.subject, name), Personalize(c.body, name)
		}
	}

	subject := tpl.Subject
	if subject == "" {
		subject = tpl.Name
	}
	body := tpl.Content
	if strings.TrimSpace(body) == "" {
		body = genericBody
	}
	return Personalize(subject, name), Personalize(body, name)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/outreach-engine/internal/model"
)

func TestPersonalize(t *testing.T) {
	assert.Equal(t, "Hello Alice!", Personalize("Hello {{name}}!", "Alice"))
	assert.Equal(t, "Hello there!", Personalize("Hello {{name}}!", ""))
	assert.Equal(t, "Hello there!", Personalize("Hello {{name}}!", "   "))
	assert.Equal(t, "Hi Bob, Bob again", Personalize("Hi {{name}}, {{name}} again", "Bob"))
	assert.Equal(t, "no placeholder", Personalize("no placeholder", "Alice"))
}

func TestRenderMailTemplateCannedMatch(t *testing.T) {
	cases := []struct {
		name        string
		wantSubject string
	}{
		{"Welcome email", "Welcome aboard, Alice!"},
		{"Q1 Quote Follow-up", "Following up on your quote"},
		{"deal follow up v2", "Checking in, Alice"},
		{"Meeting Reminder (sales)", "Reminder: our upcoming meeting"},
	}
	for _, tc := range cases {
		subject, body := RenderMailTemplate(&model.MailTemplate{Name: tc.name}, "Alice")
		assert.Equal(t, tc.wantSubject, subject, "template %q", tc.name)
		assert.Contains(t, body, "Hi Alice", "template %q", tc.name)
		assert.NotContains(t, body, "{{name}}", "template %q", tc.name)
	}
}

func TestRenderMailTemplateOwnContent(t *testing.T) {
	tpl := &model.MailTemplate{
		Name:    "Monthly newsletter",
		Subject: "News for {{name}}",
		Content: "<p>Hi {{name}}, here is the news.</p>",
	}
	subject, body := RenderMailTemplate(tpl, "Alice")
	assert.Equal(t, "News for Alice", subject)
	assert.Equal(t, "<p>Hi Alice, here is the news.</p>", body)
}

func TestRenderMailTemplateFallbacks(t *testing.T) {
	// No subject: the template name stands in.
	subject, body := RenderMailTemplate(&model.MailTemplate{Name: "Spring promo"}, "Alice")
	assert.Equal(t, "Spring promo", subject)
	assert.Contains(t, body, "Hi Alice")

	// Canned match beats the template's own content.
	subject, _ = RenderMailTemplate(&model.MailTemplate{
		Name:    "Welcome series step 1",
		Subject: "ignored",
		Content: "ignored",
	}, "Alice")
	assert.Equal(t, "Welcome aboard, Alice!", subject)
}

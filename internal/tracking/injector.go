package tracking

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Injector rewrites outbound campaign HTML so opens and clicks route
// through the beacon endpoints before reaching the real destination.
type Injector struct {
	BaseURL string
}

func NewInjector(baseURL string) *Injector {
	return &Injector{BaseURL: baseURL}
}

// Inject embeds the open pixel, rewrites anchor hrefs to click-tracking
// URLs and appends the unsubscribe footer. On parse failure the original
// HTML comes back untouched; a send without tracking beats no send.
func (i *Injector) Inject(html string, recipientID int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	trackPrefix := trimBase(i.BaseURL) + "/track/"

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !rewritable(href, trackPrefix) {
			return
		}
		sel.SetAttr("href", ClickURL(i.BaseURL, recipientID, href))
	})

	// Pixel and footer go in after the rewrite pass so their own links
	// are not themselves rewritten.
	body := doc.Find("body")
	body.AppendHtml(fmt.Sprintf(
		`<img src="%s" width="1" height="1" alt="" style="display:none;border:0;" />`,
		OpenURL(i.BaseURL, recipientID),
	))
	body.AppendHtml(fmt.Sprintf(
		`<p style="font-size:12px;color:#999999;">If you no longer wish to receive these emails, you can <a href="%s">unsubscribe</a>.</p>`,
		UnsubscribeURL(i.BaseURL, recipientID),
	))

	// The parser wraps fragments in a full document; only hand back the
	// wrapper when the input was a full document to begin with.
	if strings.Contains(strings.ToLower(html), "<html") {
		out, err := doc.Html()
		if err != nil {
			return html
		}
		return out
	}
	out, err := body.Html()
	if err != nil {
		return html
	}
	return out
}

// rewritable filters out hrefs that must pass through unchanged: anything
// already under the tracking namespace, mailto:/tel: links, empty hrefs
// and in-page fragments.
func rewritable(href, trackPrefix string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return false
	}
	if strings.HasPrefix(href, trackPrefix) {
		return false
	}
	return true
}

package tracking

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "http://app.test"

func TestInjectRewritesLinksAndAppendsPixel(t *testing.T) {
	in := `<p>Hi Alice, see <a href="https://example.com/promo?x=1">our promo</a>.</p>`
	out := NewInjector(testBase).Inject(in, 7)

	assert.Contains(t, out, `<img src="http://app.test/track/open/7"`)
	assert.Contains(t, out, `http://app.test/unsubscribe/7`)
	assert.NotContains(t, out, `href="https://example.com/promo?x=1"`)

	// The original destination survives the round trip through the query
	// parameter.
	idx := strings.Index(out, "/track/click/7?url=")
	require.GreaterOrEqual(t, idx, 0)
	encoded := out[idx+len("/track/click/7?url="):]
	encoded = encoded[:strings.IndexByte(encoded, '"')]
	decoded, err := url.QueryUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/promo?x=1", decoded)
}

func TestInjectSkipsNonRewritableLinks(t *testing.T) {
	in := `<p>` +
		`<a href="mailto:sales@example.com">mail</a>` +
		`<a href="tel:+254700000000">call</a>` +
		`<a href="#section">jump</a>` +
		`<a href="http://app.test/track/open/3">already tracked</a>` +
		`</p>`
	out := NewInjector(testBase).Inject(in, 7)

	assert.Contains(t, out, `href="mailto:sales@example.com"`)
	assert.Contains(t, out, `href="tel:+254700000000"`)
	assert.Contains(t, out, `href="#section"`)
	assert.Contains(t, out, `href="http://app.test/track/open/3"`)
	assert.NotContains(t, out, "/track/click/7?url=mailto")
}

func TestInjectFooterLinkNotSelfRewritten(t *testing.T) {
	out := NewInjector(testBase).Inject("<p>hello</p>", 9)

	// Exactly one unsubscribe link and it points straight at the endpoint.
	assert.Equal(t, 1, strings.Count(out, "/unsubscribe/9"))
	assert.Contains(t, out, `<a href="http://app.test/unsubscribe/9">`)
}

func TestInjectPreservesFullDocument(t *testing.T) {
	in := `<html><head><title>Promo</title></head><body><p>Hi <a href="https://example.com">x</a></p></body></html>`
	out := NewInjector(testBase).Inject(in, 7)

	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, "<title>Promo</title>")
	assert.Contains(t, out, "/track/open/7")
	assert.Contains(t, out, "/track/click/7?url=")
}

func TestInjectTrailingSlashBase(t *testing.T) {
	out := NewInjector("http://app.test/").Inject("<p>hi</p>", 3)
	assert.Contains(t, out, "http://app.test/track/open/3")
	assert.NotContains(t, out, "http://app.test//track")
}

func TestTrackingURLs(t *testing.T) {
	assert.Equal(t, "http://app.test/track/open/12", OpenURL(testBase, 12))
	assert.Equal(t, "http://app.test/unsubscribe/12", UnsubscribeURL(testBase, 12))
	assert.Equal(t,
		"http://app.test/track/click/12?url=https%3A%2F%2Fx.com%2Fa%3Fb%3D1",
		ClickURL(testBase, 12, "https://x.com/a?b=1"))
}

package tracking

import (
	"fmt"
	"net/url"
	"strings"
)

// Tracking URLs are pure functions of (baseURL, recipientID[, target]).
// Nothing is stored at send time; a beacon request carries everything
// needed to resolve it.

func OpenURL(baseURL string, recipientID int) string {
	return fmt.Sprintf("%s/track/open/%d", trimBase(baseURL), recipientID)
}

func ClickURL(baseURL string, recipientID int, target string) string {
	return fmt.Sprintf("%s/track/click/%d?url=%s", trimBase(baseURL), recipientID, url.QueryEscape(target))
}

func UnsubscribeURL(baseURL string, recipientID int) string {
	return fmt.Sprintf("%s/unsubscribe/%d", trimBase(baseURL), recipientID)
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

package ingest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

var (
	scriptStylePattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)\s*>`)
	tagPattern         = regexp.MustCompile(`(?s)<[^>]*>`)
)

// ASCII outside the URL character set; anything at or above U+0080 is kept.
var hrefDisallowed = regexp.MustCompile(`[^A-Za-z0-9\-~+_.?#=!&;,/:%@$|*'()\[\]\x{80}-\x{10FFFF}]`)

var allowedSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"ftp":    {},
	"ftps":   {},
	"mailto": {},
	"tel":    {},
}

// SanitizeText turns collector supplied text into plain, single-line text:
// markup is stripped, control characters dropped, whitespace collapsed and
// the result truncated to the column limit.
func SanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = scriptStylePattern.ReplaceAllString(s, "")
	s = tagPattern.ReplaceAllString(s, "")

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if utf8.RuneCountInString(s) > domain.MaxLinkTextRunes {
		s = strings.TrimSpace(string([]rune(s)[:domain.MaxLinkTextRunes]))
	}
	return s
}

// SanitizeURL returns the URL with characters illegal in a URL removed, or ""
// when it does not parse or its scheme is not an allowed link protocol.
// Non-ASCII is stored as sent, not percent-encoded.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
	s = strings.ReplaceAll(s, " ", "%20")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = hrefDisallowed.ReplaceAllString(s, "")

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if _, ok := allowedSchemes[u.Scheme]; !ok {
		return ""
	}
	// url.Parse lowercases the scheme, which is always the ASCII prefix of s
	return u.Scheme + s[len(u.Scheme):]
}

// Sanitize applies SanitizeText and SanitizeURL to a validated page view.
// Values that sanitize to nothing are rejected rather than stored empty.
func Sanitize(pv domain.PageView) (domain.PageView, error) {
	out := domain.PageView{
		ScreenWidth:  pv.ScreenWidth,
		ScreenHeight: pv.ScreenHeight,
		Links:        make([]domain.LinkInput, 0, len(pv.Links)),
	}

	for i, l := range pv.Links {
		text := SanitizeText(l.Text)
		if text == "" {
			return domain.PageView{}, domain.ErrLinkItem("empty_link_text", i, "text", "not_empty",
				fmt.Sprintf(`linkData item at index %d: "text" cannot be empty`, i))
		}
		href := SanitizeURL(l.Href)
		if href == "" {
			return domain.PageView{}, domain.ErrLinkItem("invalid_link_href_format", i, "href", "url",
				fmt.Sprintf(`linkData item at index %d: "href" must be a valid URL`, i))
		}
		// escaped spaces can push a URL that passed validation over the column limit
		if utf8.RuneCountInString(href) > domain.MaxLinkHrefLen {
			return domain.PageView{}, domain.ErrLinkItem("link_href_too_long", i, "href", "max",
				fmt.Sprintf(`linkData item at index %d: "href" must be at most %d characters`, i, domain.MaxLinkHrefLen))
		}
		out.Links = append(out.Links, domain.LinkInput{Text: text, Href: href})
	}
	return out, nil
}

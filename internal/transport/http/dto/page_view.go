package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/application/ingest"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
)

// PageViewRequest is the collector payload. Fields stay raw so that JSON type
// mistakes can be reported precisely instead of as a generic decode error.
type PageViewRequest struct {
	ScreenWidth  json.RawMessage `json:"screenWidth"`
	ScreenHeight json.RawMessage `json:"screenHeight"`
	LinkData     json.RawMessage `json:"linkData"`
}

type PageViewResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	SessionID  int64  `json:"session_id"`
	LinksCount int    `json:"links_count"`
}

// ToPageView checks JSON types only; value rules belong to ingest.Validate.
func (req PageViewRequest) ToPageView() (domain.PageView, error) {
	w, ok := parseInt(req.ScreenWidth)
	if !ok {
		return domain.PageView{}, ingest.ErrInvalidScreenWidth("integer")
	}
	h, ok := parseInt(req.ScreenHeight)
	if !ok {
		return domain.PageView{}, ingest.ErrInvalidScreenHeight("integer")
	}

	links, err := parseLinks(req.LinkData)
	if err != nil {
		return domain.PageView{}, err
	}
	return domain.PageView{ScreenWidth: w, ScreenHeight: h, Links: links}, nil
}

func parseLinks(raw json.RawMessage) ([]domain.LinkInput, error) {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, domain.ErrValidation("invalid_link_data_type", "linkData", "array", "linkData must be an array")
	}

	links := make([]domain.LinkInput, 0, len(items))
	for i, item := range items {
		var obj map[string]json.RawMessage
		if isNull(item) || json.Unmarshal(item, &obj) != nil {
			return nil, domain.ErrLinkItem("invalid_link_item_type", i, "linkData", "object",
				fmt.Sprintf("linkData item at index %d must be an object", i))
		}

		text, present := obj["text"]
		if !present || isNull(text) {
			return nil, domain.ErrLinkItem("missing_link_text", i, "text", "required",
				fmt.Sprintf(`linkData item at index %d is missing required "text" property`, i))
		}
		href, present := obj["href"]
		if !present || isNull(href) {
			return nil, domain.ErrLinkItem("missing_link_href", i, "href", "required",
				fmt.Sprintf(`linkData item at index %d is missing required "href" property`, i))
		}

		var l domain.LinkInput
		if json.Unmarshal(text, &l.Text) != nil {
			return nil, domain.ErrLinkItem("invalid_link_text_type", i, "text", "string",
				fmt.Sprintf(`linkData item at index %d: "text" must be a string`, i))
		}
		if json.Unmarshal(href, &l.Href) != nil {
			return nil, domain.ErrLinkItem("invalid_link_href_type", i, "href", "string",
				fmt.Sprintf(`linkData item at index %d: "href" must be a string`, i))
		}
		links = append(links, l)
	}
	return links, nil
}

// parseInt accepts JSON integers only: 3 but not 3.0, "3" or true.
func parseInt(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil || i > math.MaxInt || i < math.MinInt {
		return 0, false
	}
	return int(i), true
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

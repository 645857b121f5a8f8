package api

import (
	"log/slog"
	"net/http"

	"railsetu/pkg/noticeproc"
)

// NoticeHandler extracts announcement prose from pasted notice HTML.
type NoticeHandler struct {
	maxBodyMB int64
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler() *NoticeHandler {
	return &NoticeHandler{maxBodyMB: 4}
}

// NoticeResponse is the extraction result.
type NoticeResponse struct {
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
	IsReliable bool   `json:"is_reliable"`
}

// HandleExtract handles POST /api/notice/extract. The body is raw HTML,
// typically a circular or notice page pasted by the operator.
func (h *NoticeHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyMB<<20)

	info, err := noticeproc.ExtractText(body)
	if err != nil {
		slog.Warn("Notice extraction failed", "error", err)
		writeError(w, http.StatusBadRequest, "failed to extract text from notice")
		return
	}

	writeJSON(w, http.StatusOK, NoticeResponse{
		Text:       info.Text,
		WordCount:  info.WordCount,
		IsReliable: info.IsReliable,
	})
}

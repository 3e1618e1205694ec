// ==============================================================================
// PROFILE EXPORT HANDLER - internal/handler/export.go
// ==============================================================================
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"verid/internal/export"
	"verid/internal/pipeline"
	"verid/internal/session"
	veriderrors "verid/pkg/errors"
	"verid/pkg/logger"
)

type ExportHandler struct {
	sessions *session.Store
	excel    *export.ExcelWriter
	pdf      *export.PDFWriter
	email    pipeline.EmailSender
	logger   logger.Logger
}

func NewExportHandler(sessions *session.Store, excel *export.ExcelWriter, pdf *export.PDFWriter, email pipeline.EmailSender, log logger.Logger) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		excel:    excel,
		pdf:      pdf,
		email:    email,
		logger:   log,
	}
}

// Export handles GET /api/v1/profile/export?format=xlsx|pdf. It renders the
// cached profile from the last successful run; nothing is re-verified.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	cached, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "xlsx", "":
		data, err := h.excel.Write(cached.Profile, cached.Draft)
		if err != nil {
			h.logger.Error("Excel export failed", map[string]interface{}{"error": err.Error()})
			respondError(w, http.StatusInternalServerError, veriderrors.ErrExcelGenerationFailed.Error())
			return
		}
		serveDownload(w, data,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			exportFilename(cached, "xlsx"))
	case "pdf":
		data, err := h.pdf.Render(cached.Profile, cached.Draft)
		if err != nil {
			h.logger.Error("PDF export failed", map[string]interface{}{"error": err.Error()})
			respondError(w, http.StatusInternalServerError, veriderrors.ErrPDFGenerationFailed.Error())
			return
		}
		serveDownload(w, data, "application/pdf", exportFilename(cached, "pdf"))
	default:
		respondError(w, http.StatusBadRequest, veriderrors.ErrUnknownExportFormat.Error())
	}
}

// Email handles POST /api/v1/profile/email: re-sends the report for the
// cached profile to the session's stored address on demand.
func (h *ExportHandler) Email(w http.ResponseWriter, r *http.Request) {
	cached, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	sess, _ := h.sessions.LoadContext(r.Context(), sessionID(r))
	if sess.Email == "" {
		respondError(w, http.StatusBadRequest, veriderrors.ErrEmailNotConfigured.Error())
		return
	}
	if h.email == nil {
		respondError(w, http.StatusServiceUnavailable, "Email delivery is not configured")
		return
	}

	pdf, err := h.pdf.Render(cached.Profile, cached.Draft)
	if err != nil {
		h.logger.Warn("PDF generation failed for email, sending without attachment", map[string]interface{}{
			"error": err.Error(),
		})
		pdf = nil
	}

	if err := h.email.SendReport(r.Context(), sess, cached.Profile, cached.Draft, pdf); err != nil {
		h.logger.Error("Report email failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusBadGateway, veriderrors.ErrEmailDeliveryFailed.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *ExportHandler) loadProfile(w http.ResponseWriter, r *http.Request) (*session.CachedProfile, bool) {
	cached, err := h.sessions.LoadProfile(r.Context(), sessionID(r))
	if err != nil {
		if errors.Is(err, veriderrors.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, veriderrors.ErrProfileNotFound.Error())
		} else {
			respondError(w, http.StatusInternalServerError, "Failed to load profile")
		}
		return nil, false
	}
	return cached, true
}

func serveDownload(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func exportFilename(cached *session.CachedProfile, ext string) string {
	name := "profile"
	if cached.Draft != nil && cached.Draft.FullName != "" {
		name = cached.Draft.FullName
	}
	return fmt.Sprintf("%s-verification-report.%s", sanitize(name), ext)
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "profile"
	}
	return string(out)
}

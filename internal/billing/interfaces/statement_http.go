package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"theater-billing/internal/audit"
	"theater-billing/internal/auth"
	"theater-billing/internal/billing/application"
	billing "theater-billing/internal/billing/domain"
	"theater-billing/internal/billing/infrastructure/file"
	"theater-billing/internal/billing/render"
)

const maxInvoiceBodyBytes = 1 << 20

// StatementHandler serves statement, catalog and reload routes.
type StatementHandler struct {
	service     *application.StatementService
	catalog     *application.CatalogCache
	auditLogger audit.Logger
	logger      *log.Logger
}

// NewStatementHandler constructs a handler. auditLogger may be nil.
func NewStatementHandler(service *application.StatementService, catalog *application.CatalogCache, auditLogger audit.Logger, logger *log.Logger) (*StatementHandler, error) {
	if service == nil {
		return nil, errors.New("statement handler: nil service")
	}
	if catalog == nil {
		return nil, errors.New("statement handler: nil catalog")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &StatementHandler{service: service, catalog: catalog, auditLogger: auditLogger, logger: logger}, nil
}

// ServeHTTP routes /api/v1/statements, /api/v1/invoices/{id}/statement,
// /api/v1/plays and /api/v1/catalog/reload.
func (h *StatementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/statements" && r.Method == http.MethodPost:
		h.handleCreate(w, r)
		return
	case path == "/api/v1/plays" && r.Method == http.MethodGet:
		h.handlePlays(w, r)
		return
	case path == "/api/v1/catalog/reload" && r.Method == http.MethodPost:
		h.handleReload(w, r)
		return
	case strings.HasPrefix(path, "/api/v1/invoices/"):
		parts := strings.Split(strings.TrimPrefix(path, "/api/v1/invoices/"), "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] == "statement" && r.Method == http.MethodGet {
			h.handleInvoiceStatement(w, r, parts[0])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *StatementHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req file.InvoiceRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInvoiceBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	invoice, err := req.ToInvoice()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	doc, err := h.service.Statement(r.Context(), invoice, r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeDocument(w, doc)
}

func (h *StatementHandler) handleInvoiceStatement(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := h.service.Export(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeDocument(w, doc)
	meta := map[string]any{"format": doc.Format}
	if doc.ArchiveKey != "" {
		meta["archive_key"] = doc.ArchiveKey
	}
	h.logAudit(r, "invoice", id, "statement.export", meta)
}

type playView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Genre string `json:"genre"`
}

func (h *StatementHandler) handlePlays(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.LoadCatalog(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	plays := catalog.Plays()
	resp := make([]playView, 0, len(plays))
	for _, play := range plays {
		resp = append(resp, playView{ID: play.ID, Name: play.Name, Genre: play.Genre.String()})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *StatementHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog.Reload(r.Context())
	if err != nil {
		h.logger.Printf("catalog reload error: %v", err)
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"plays": catalog.Len()})
	h.logAudit(r, "catalog", "plays", "catalog.reload", map[string]any{"plays": catalog.Len()})
}

func writeDocument(w http.ResponseWriter, doc *application.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	switch doc.Format {
	case render.FormatPDF, render.FormatXLSX:
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "statement-"+doc.InvoiceID+"."+doc.Extension))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}

func (h *StatementHandler) logAudit(r *http.Request, resourceType, resourceID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     payload,
		IP:           callerAddr(r),
		UserAgent:    r.UserAgent(),
	})
	if err != nil {
		h.logger.Printf("audit log error: action=%s err=%v", action, err)
	}
}

// callerAddr is the first X-Forwarded-For hop, else the peer host.
func callerAddr(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

var invalidInputErrors = []error{
	billing.ErrUnknownPlay,
	billing.ErrUnsupportedGenre,
	billing.ErrNegativeAudience,
	billing.ErrAudienceTooLarge,
	billing.ErrMissingAudience,
	billing.ErrEmptyPlayID,
	billing.ErrEmptyPlayName,
	billing.ErrEmptyGenre,
	billing.ErrDuplicatePlay,
	billing.ErrEmptyCustomer,
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, render.ErrUnknownFormat) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, billing.ErrInvoiceNotFound) {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	for _, target := range invalidInputErrors {
		if errors.Is(err, target) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

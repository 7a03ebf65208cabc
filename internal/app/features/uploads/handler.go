// internal/app/features/uploads/handler.go
package uploads

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nexushub/nexushub/internal/app/capability"
	"github.com/nexushub/nexushub/internal/app/system/apierror"
	"github.com/nexushub/nexushub/internal/app/system/auth"
	"github.com/nexushub/nexushub/internal/app/system/timeouts"
)

// maxUploadBytes bounds a single uploaded file.
const maxUploadBytes = 10 << 20

// Handler accepts file uploads (avatars, post images) and returns the
// public URL of the stored file.
type Handler struct {
	Files capability.FileStore
	Log   *zap.Logger
}

func NewHandler(files capability.FileStore, logger *zap.Logger) *Handler {
	return &Handler{Files: files, Log: logger}
}

// Routes returns the upload subrouter, mounted under /api/uploads.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Post("/", h.Serve)
	return r
}

// Serve stores the "file" part of a multipart form and responds with its URL.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		apierror.WriteError(w, apierror.Invalid("upload must be a multipart form under 10 MB", nil))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierror.WriteError(w, apierror.Invalid("missing file field", map[string]string{"file": "required"}))
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	url, err := h.Files.Store(ctx, header.Filename, file)
	if err != nil {
		h.Log.Error("store upload", zap.String("name", header.Filename), zap.Error(err))
		apierror.WriteError(w, apierror.Unavailable(err))
		return
	}

	apierror.WriteCreated(w, "file uploaded", map[string]string{"url": url})
}

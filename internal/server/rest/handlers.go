package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
)

// multipartOverhead is allowed on top of the upload limit for part headers
// and boundaries.
const multipartOverhead = 64 << 10

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"auth-token"`
}

type renameRequest struct {
	Filename string `json:"filename"`
}

type fileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed login body", common.ErrorValidation))
		return
	}

	token, err := s.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), tokenFromHeader(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: limit must be an integer", common.ErrorValidation))
		return
	}

	items, err := s.storage.List(r.Context(), caller(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]fileInfo, 0, len(items))
	for _, it := range items {
		out = append(out, fileInfo{Filename: it.Filename, Size: it.Size})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+multipartOverhead)
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, fmt.Errorf("%w: file exceeds %d bytes", common.ErrorValidation, s.maxUploadSize))
			return
		}
		writeError(w, fmt.Errorf("%w: multipart field \"file\" is required", common.ErrorValidation))
		return
	}
	defer part.Close()
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	data, err := io.ReadAll(part)
	if err != nil {
		writeError(w, fmt.Errorf("%w: reading upload: %v", common.ErrorValidation, err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := s.storage.Upload(r.Context(), caller(r), r.URL.Query().Get("filename"), contentType, data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed rename body", common.ErrorValidation))
		return
	}

	if err := s.storage.Rename(r.Context(), caller(r), r.URL.Query().Get("filename"), req.Filename); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Delete(r.Context(), caller(r), r.URL.Query().Get("filename")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	f, err := s.storage.Download(r.Context(), caller(r), r.URL.Query().Get("filename"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Content)
}

// caller returns the identity placed by requireToken. A missing identity
// yields the zero value, which the storage service rejects.
func caller(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

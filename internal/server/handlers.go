package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"imgsel/internal/app"
	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
)

type pathRequest struct {
	Path string `json:"path"`
}

type batchRequest struct {
	Files      []domain.ImageFileRecord `json:"files"`
	TargetPath string                   `json:"target_path"`
}

type errorResponse struct {
	Error string         `json:"error"`
	Kind  appErrors.Kind `json:"kind"`
}

// service attaches hooks that forward progress for one request to the hub.
func (s *Server) service(operation string) app.Service {
	return s.svc.WithProgress(
		func(current, total int) {
			s.hub.Broadcast(Event{Type: EventScanProgress, Operation: operation, Current: current, Total: total})
		},
		func(current, total int) {
			s.hub.Broadcast(Event{Type: EventBatchProgress, Operation: operation, Current: current, Total: total})
		},
	)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Path == "" {
		s.writeError(w, appErrors.Wrap(appErrors.InvalidConfig, "scan", "", errors.New("path cannot be empty")))
		return
	}

	result, err := s.service("scan").ScanFolder(r.Context(), req.Path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: EventScanDone, Operation: "scan", Current: result.TotalCount, Total: result.TotalCount})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.writeError(w, appErrors.Wrap(appErrors.InvalidConfig, "metadata", "", errors.New("path parameter required")))
		return
	}

	meta, err := s.svc.GetImageMetadata(r.Context(), path)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleBatch(kind domain.OperationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
		if req.TargetPath == "" {
			s.writeError(w, appErrors.Wrap(appErrors.InvalidConfig, string(kind), "", errors.New("target_path cannot be empty")))
			return
		}

		svc := s.service(string(kind))
		var result domain.BatchResult
		if kind == domain.OpMove {
			result = svc.BatchMoveFiles(r.Context(), req.Files, req.TargetPath)
		} else {
			result = svc.BatchCopyFiles(r.Context(), req.Files, req.TargetPath)
		}
		s.hub.Broadcast(Event{Type: EventBatchDone, Operation: string(kind), Current: result.Total(), Total: result.Total()})
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleCreateDirectory(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Path == "" {
		s.writeError(w, appErrors.Wrap(appErrors.InvalidConfig, "mkdir", "", errors.New("path cannot be empty")))
		return
	}

	if err := s.svc.CreateDirectory(req.Path); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "decode request", "", err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := appErrors.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Warnf("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: appErrors.UserMessage(err), Kind: kind})
}

func statusFor(kind appErrors.Kind) int {
	switch kind {
	case appErrors.NotFound:
		return http.StatusNotFound
	case appErrors.PermissionDenied:
		return http.StatusForbidden
	case appErrors.DecodeFailure:
		return http.StatusUnprocessableEntity
	case appErrors.InvalidConfig:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

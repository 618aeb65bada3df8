package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/datachat-ai/datachat/internal/ingest"
	"github.com/datachat-ai/datachat/internal/retrieval"
)

const maxUploadBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

func decodeChatRequest(r *http.Request) (*chatRequest, error) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}
	return &req, nil
}

// streamFragments writes each answer fragment as it arrives, flushing so
// the client sees tokens before the response completes.
func streamFragments(w http.ResponseWriter, fragments <-chan string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	for fragment := range fragments {
		if _, err := io.WriteString(w, fragment); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	chunks, err := s.deps.Retriever.Documents(ctx, req.Query)
	if err != nil {
		log.Printf("document retrieval: %v", err)
		writeError(w, http.StatusInternalServerError, "retrieval failed")
		return
	}

	fragments, err := s.deps.Engine.Answer(ctx, req.SessionID, req.Query, chunks)
	if err != nil {
		log.Printf("chat completion: %v", err)
		writeError(w, http.StatusBadGateway, "completion failed")
		return
	}
	streamFragments(w, fragments)
}

func (s *Server) handleDatasetChat(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	chunks, err := s.deps.Retriever.Dataset(ctx, req.Query)
	if err != nil {
		if errors.Is(err, retrieval.ErrIndexNotReady) {
			writeError(w, http.StatusBadRequest, "no dataset has been trained yet")
			return
		}
		log.Printf("dataset retrieval: %v", err)
		writeError(w, http.StatusInternalServerError, "retrieval failed")
		return
	}

	fragments, err := s.deps.Engine.AnswerWithTools(ctx, req.SessionID, req.Query, chunks)
	if err != nil {
		log.Printf("dataset completion: %v", err)
		writeError(w, http.StatusBadGateway, "completion failed")
		return
	}
	streamFragments(w, fragments)
}

func (s *Server) saveUpload(w http.ResponseWriter, r *http.Request, dir, wantExt string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer src.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), wantExt) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("only %s files are accepted", wantExt))
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("creating upload dir: %v", err)
		writeError(w, http.StatusInternalServerError, "storing upload failed")
		return
	}
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.Printf("creating upload file: %v", err)
		writeError(w, http.StatusInternalServerError, "storing upload failed")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		log.Printf("writing upload: %v", err)
		writeError(w, http.StatusInternalServerError, "storing upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"filename": name, "status": "uploaded"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	s.saveUpload(w, r, s.cfg.UploadsDir, ".pdf")
}

func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	s.saveUpload(w, r, s.cfg.DatasetsDir, ".csv")
}

func (s *Server) startTraining(w http.ResponseWriter, start func() error) {
	if err := start(); err != nil {
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			writeError(w, http.StatusConflict, "training already in progress")
			return
		}
		log.Printf("starting training: %v", err)
		writeError(w, http.StatusInternalServerError, "starting training failed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "Training started"})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	// The run outlives the request, so it gets a fresh context.
	s.startTraining(w, func() error {
		return s.deps.Runner.TrainDocuments(context.Background(), s.cfg.UploadsDir)
	})
}

func (s *Server) handleTrainDataset(w http.ResponseWriter, r *http.Request) {
	s.startTraining(w, func() error {
		return s.deps.Runner.TrainDataset(context.Background(), s.cfg.DatasetsDir)
	})
}

func (s *Server) handleTrainStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Runner.State())
}

func (s *Server) handleTrainHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.deps.Runs.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("reading run history: %v", err)
		writeError(w, http.StatusInternalServerError, "reading history failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Documents.Reset(r.Context()); err != nil {
		log.Printf("resetting document store: %v", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	if err := s.deps.Tables.Reset(); err != nil {
		log.Printf("resetting dataset index: %v", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	s.deps.Sessions.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	if file := r.URL.Query().Get("file"); file != "" {
		s.deleteDocument(w, r, file)
		return
	}
	if err := s.deps.Documents.Reset(r.Context()); err != nil {
		log.Printf("deleting document chunks: %v", err)
		writeError(w, http.StatusInternalServerError, "deleting documents failed")
		return
	}
	if err := os.RemoveAll(s.cfg.UploadsDir); err != nil {
		log.Printf("deleting uploads: %v", err)
		writeError(w, http.StatusInternalServerError, "deleting documents failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "documents deleted"})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request, file string) {
	if filepath.Base(file) != file {
		writeError(w, http.StatusBadRequest, "file must be a bare name")
		return
	}
	path := filepath.Join(s.cfg.UploadsDir, file)
	found, err := s.deps.Ingestor.ClearDocument(r.Context(), path)
	if err != nil {
		log.Printf("clearing embeddings for %s: %v", file, err)
		writeError(w, http.StatusInternalServerError, "deleting document failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no embeddings stored for that file")
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("removing %s: %v", path, err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "document deleted"})
}

type keyRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) handleInputKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		writeError(w, http.StatusBadRequest, "api_key is required")
		return
	}
	if err := s.deps.SetAPIKey(req.APIKey); err != nil {
		log.Printf("saving API key: %v", err)
		writeError(w, http.StatusInternalServerError, "saving API key failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "API key updated"})
}

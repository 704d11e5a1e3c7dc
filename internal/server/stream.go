package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pipeline"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
)

// VideoHandler streams a run's annotated video as MJPEG, paced to the
// configured frame rate.
type VideoHandler struct {
	store *store.Store
	fps   float64
}

// NewVideoHandler creates a new VideoHandler with the given store and
// playback frame rate.
func NewVideoHandler(s *store.Store, fps float64) *VideoHandler {
	if fps <= 0 {
		fps = 30
	}
	return &VideoHandler{store: s, fps: fps}
}

// ServeHTTP streams MJPEG frames of the annotated video to the client.
func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected path: /api/runs/{id}/video
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	id = strings.TrimSuffix(id, "/video")

	artifact, err := h.store.Artifacts().GetByRunAndStage(id, pipeline.StageOverlay)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Annotated video not available", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get artifact", http.StatusInternalServerError)
		return
	}

	capture, err := gocv.VideoCaptureFile(artifact.Path)
	if err != nil {
		http.Error(w, "Failed to open annotated video", http.StatusInternalServerError)
		return
	}
	defer capture.Close()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	frame := gocv.NewMat()
	defer frame.Close()

	interval := time.Duration(float64(time.Second) / h.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		if ok := capture.Read(&frame); !ok || frame.Empty() {
			return // end of video
		}

		buf, err := gocv.IMEncode(".jpg", frame)
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

// Package pipeline orchestrates the analysis stages for one video: acquire,
// normalize, estimate pose, detect the bat, derive metrics, segment phases,
// estimate contact, render the overlay, and score the shot. Each stage
// persists one artifact and records it in the store; unchanged stages are
// skipped on later runs via fingerprint caching.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/analysis"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/config"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/overlay"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/video"
)

// Stage names, in execution order.
const (
	StageDownload   = "download"
	StageNormalize  = "normalize"
	StagePose       = "pose"
	StageBat        = "bat"
	StageMetrics    = "metrics"
	StagePhases     = "phases"
	StageContact    = "contact"
	StageOverlay    = "overlay"
	StageEvaluation = "evaluation"
)

// Stages lists every pipeline stage in execution order.
var Stages = []string{
	StageDownload, StageNormalize, StagePose, StageBat, StageMetrics,
	StagePhases, StageContact, StageOverlay, StageEvaluation,
}

// Event statuses reported to observers.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Event is one stage lifecycle notification.
type Event struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Observer receives stage events as the pipeline progresses.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

// Downloader fetches a remote video to a local path.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Normalizer re-encodes a video to the target geometry and frame rate.
type Normalizer interface {
	Normalize(ctx context.Context, in, out string) error
}

// Renderer writes the annotated video for a set of analysis artifacts.
type Renderer interface {
	Render(ctx context.Context, in overlay.Input) error
}

// Config holds the collaborators and settings for a Runner.
type Config struct {
	Store      *store.Store
	Settings   config.Config
	Pose       pose.Source
	Bat        bat.Detector
	Downloader Downloader
	Normalizer Normalizer
	Renderer   Renderer

	// Force bypasses the stage cache and re-runs every stage.
	Force bool
}

// Runner executes the analysis pipeline and records runs in the store.
// Executions are serialized; concurrent Run/Start calls queue.
type Runner struct {
	cfg Config
	log zerolog.Logger

	runMu sync.Mutex

	obsMu     sync.RWMutex
	observers []Observer
}

// New creates a Runner with the given configuration.
func New(cfg Config) *Runner {
	return &Runner{
		cfg: cfg,
		log: logging.NewLogger("pipeline"),
	}
}

// Subscribe registers an observer for stage events.
func (r *Runner) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

func (r *Runner) emit(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.Notify(e)
	}
}

// Run executes the full pipeline on input (a URL or a local file path)
// synchronously and returns the completed run record.
func (r *Runner) Run(ctx context.Context, input string) (*store.Run, error) {
	run := &store.Run{ID: uuid.New().String(), VideoURL: input}
	if err := r.cfg.Store.Runs().Create(run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	if err := r.execute(ctx, run, input); err != nil {
		return run, err
	}
	return run, nil
}

// Start records a pending run and executes the pipeline in the background.
// It returns immediately; progress is reported through observers and the
// run record in the store.
func (r *Runner) Start(input string) (*store.Run, error) {
	run := &store.Run{ID: uuid.New().String(), VideoURL: input}
	if err := r.cfg.Store.Runs().Create(run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	go func() {
		if err := r.execute(context.Background(), run, input); err != nil {
			r.log.Error().Err(err).Str("run_id", run.ID).Msg("pipeline run failed")
		}
	}()
	return run, nil
}

// execute drives every stage for one run. Download through metrics failures
// are fatal; phases, contact, overlay and evaluation failures degrade and
// later stages run with whatever survived.
func (r *Runner) execute(ctx context.Context, run *store.Run, input string) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	outDir := filepath.Join(r.cfg.Settings.OutputDir, run.ID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return r.fail(run, "setup", fmt.Errorf("create output directory: %w", err))
	}

	if err := r.cfg.Store.Runs().SetStatus(run.ID, store.RunStatusRunning, ""); err != nil {
		return err
	}
	run.Status = store.RunStatusRunning
	key := videoKey(input)

	r.log.Info().Str("run_id", run.ID).Str("input", input).Msg("pipeline run started")

	// download
	rawPath := input
	if video.IsRemote(input) {
		out := filepath.Join(outDir, "video_raw.mp4")
		path, err := r.runStage(ctx, run, key, StageDownload, out, nil,
			map[string]string{"url": input}, func() error {
				return r.cfg.Downloader.Download(ctx, input, out)
			})
		if err != nil {
			return r.fail(run, StageDownload, err)
		}
		rawPath = path
	} else if _, err := os.Stat(rawPath); err != nil {
		return r.fail(run, StageDownload, fmt.Errorf("input video not found: %w", err))
	}
	run.VideoPath = rawPath
	if err := r.cfg.Store.Runs().Update(run); err != nil {
		return err
	}

	// normalize
	normOut := filepath.Join(outDir, "video_norm.mp4")
	normPath, err := r.runStage(ctx, run, key, StageNormalize, normOut, []string{rawPath},
		map[string]any{"fps": r.cfg.Settings.FPS, "resolution": r.cfg.Settings.Resolution},
		func() error {
			return r.cfg.Normalizer.Normalize(ctx, rawPath, normOut)
		})
	if err != nil {
		return r.fail(run, StageNormalize, err)
	}

	// pose
	poseOut := filepath.Join(outDir, "pose.csv")
	posePath, err := r.runStage(ctx, run, key, StagePose, poseOut, []string{normPath}, nil,
		func() error {
			frames, err := r.cfg.Pose.EstimateVideo(ctx, normPath)
			if err != nil {
				return err
			}
			return pose.WriteCSV(poseOut, frames)
		})
	if err != nil {
		return r.fail(run, StagePose, err)
	}
	frames, err := pose.ReadCSV(posePath)
	if err != nil {
		return r.fail(run, StagePose, err)
	}

	// bat
	batOut := filepath.Join(outDir, "bat.csv")
	batPath, err := r.runStage(ctx, run, key, StageBat, batOut, []string{normPath},
		r.cfg.Settings.Bat, func() error {
			detections, err := r.cfg.Bat.DetectVideo(ctx, normPath)
			if err != nil {
				return err
			}
			return bat.WriteCSV(batOut, detections)
		})
	if err != nil {
		return r.fail(run, StageBat, err)
	}
	detections, err := bat.ReadCSV(batPath)
	if err != nil {
		return r.fail(run, StageBat, err)
	}

	// metrics
	metricsOut := filepath.Join(outDir, "metrics.csv")
	metricsPath, err := r.runStage(ctx, run, key, StageMetrics, metricsOut,
		[]string{posePath, batPath}, nil, func() error {
			return analysis.WriteMetricsCSV(metricsOut, analysis.ExtractMetrics(frames, detections))
		})
	if err != nil {
		return r.fail(run, StageMetrics, err)
	}
	records, err := analysis.ReadMetricsCSV(metricsPath)
	if err != nil {
		return r.fail(run, StageMetrics, err)
	}

	// phases
	var segments []analysis.Segment
	phasesOut := filepath.Join(outDir, "phases.csv")
	phasesPath, err := r.runStage(ctx, run, key, StagePhases, phasesOut,
		[]string{posePath}, nil, func() error {
			segs, err := analysis.SegmentPhases(frames)
			if err != nil {
				return err
			}
			return analysis.WritePhasesCSV(phasesOut, segs)
		})
	if err != nil {
		r.degrade(run.ID, StagePhases, err)
	} else if segments, err = analysis.ReadPhasesCSV(phasesPath); err != nil {
		r.degrade(run.ID, StagePhases, err)
		segments = nil
	}

	// contact
	var contact *analysis.Estimate
	contactOut := filepath.Join(outDir, "contact.json")
	contactPath, err := r.runStage(ctx, run, key, StageContact, contactOut,
		[]string{posePath, batPath, phasesPath}, nil, func() error {
			est, err := analysis.EstimateContact(frames, detections, segments)
			if err != nil {
				return err
			}
			return analysis.WriteContactJSON(contactOut, est)
		})
	if err != nil {
		r.degrade(run.ID, StageContact, err)
	} else if est, readErr := analysis.ReadContactJSON(contactPath); readErr != nil {
		r.degrade(run.ID, StageContact, readErr)
	} else {
		contact = &est
	}

	// overlay
	overlayOut := filepath.Join(outDir, "annotated.mp4")
	if _, err := r.runStage(ctx, run, key, StageOverlay, overlayOut,
		[]string{normPath, posePath, batPath, metricsPath, phasesPath, contactPath},
		r.cfg.Settings.Evaluation, func() error {
			return r.cfg.Renderer.Render(ctx, overlay.Input{
				VideoPath: normPath,
				OutPath:   overlayOut,
				Frames:    frames,
				Bats:      detections,
				Metrics:   records,
				Segments:  segments,
				Contact:   contact,
			})
		}); err != nil {
		r.degrade(run.ID, StageOverlay, err)
	}

	// evaluation
	evalOut := filepath.Join(outDir, "evaluation.json")
	thresholds := analysis.Thresholds{
		ElbowAngle:       r.cfg.Settings.Evaluation.ElbowAngleThreshold,
		SpineLean:        r.cfg.Settings.Evaluation.SpineLeanThreshold,
		HeadKneeDistance: r.cfg.Settings.Evaluation.HeadKneeDistanceThreshold,
	}
	if _, err := r.runStage(ctx, run, key, StageEvaluation, evalOut,
		[]string{metricsPath, phasesPath}, r.cfg.Settings.Evaluation, func() error {
			return analysis.WriteEvaluationJSON(evalOut, analysis.Evaluate(records, segments, thresholds))
		}); err != nil {
		r.degrade(run.ID, StageEvaluation, err)
	}

	if err := r.cfg.Store.Runs().SetStatus(run.ID, store.RunStatusCompleted, ""); err != nil {
		return err
	}
	run.Status = store.RunStatusCompleted

	r.log.Info().Str("run_id", run.ID).Msg("pipeline run completed")
	return nil
}

// runStage executes one stage with fingerprint caching. It returns the path
// of the stage's output artifact, which is the cached path when the stage
// was skipped.
func (r *Runner) runStage(ctx context.Context, run *store.Run, key, stage, out string, inputs []string, cfgPart any, fn func() error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fp, err := fingerprint(stage, inputs, cfgPart)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", stage, err)
	}

	if !r.cfg.Force {
		if cached, err := r.cfg.Store.Cache().Get(key, stage); err == nil && cached.Fingerprint == fp {
			if _, statErr := os.Stat(cached.Path); statErr == nil {
				r.emit(Event{RunID: run.ID, Stage: stage, Status: StatusSkipped, Timestamp: time.Now()})
				r.log.Info().Str("run_id", run.ID).Str("stage", stage).Msg("stage unchanged, reusing cached output")
				if err := r.recordArtifact(run.ID, stage, cached.Path); err != nil {
					return "", err
				}
				return cached.Path, nil
			}
		}
	}

	r.emit(Event{RunID: run.ID, Stage: stage, Status: StatusStarted, Timestamp: time.Now()})
	r.log.Info().Str("run_id", run.ID).Str("stage", stage).Msg("stage started")

	start := time.Now()
	if err := fn(); err != nil {
		r.emit(Event{RunID: run.ID, Stage: stage, Status: StatusFailed, Error: err.Error(), Timestamp: time.Now()})
		return "", err
	}

	r.emit(Event{RunID: run.ID, Stage: stage, Status: StatusCompleted, Timestamp: time.Now()})
	r.log.Info().
		Str("run_id", run.ID).
		Str("stage", stage).
		Dur("elapsed", time.Since(start)).
		Msg("stage completed")

	if err := r.recordArtifact(run.ID, stage, out); err != nil {
		return "", err
	}
	if err := r.cfg.Store.Cache().Put(&store.Fingerprint{
		VideoKey:    key,
		Stage:       stage,
		Fingerprint: fp,
		Path:        out,
	}); err != nil {
		return "", fmt.Errorf("cache %s fingerprint: %w", stage, err)
	}
	return out, nil
}

// recordArtifact hashes the stage output and upserts its artifact row.
func (r *Runner) recordArtifact(runID, stage, path string) error {
	sum, err := fileSHA256(path)
	if err != nil {
		return fmt.Errorf("hash artifact %s: %w", path, err)
	}
	return r.cfg.Store.Artifacts().Upsert(&store.Artifact{
		ID:     uuid.New().String(),
		RunID:  runID,
		Stage:  stage,
		Path:   path,
		SHA256: sum,
	})
}

// fail marks the run failed with the stage error and returns it.
func (r *Runner) fail(run *store.Run, stage string, err error) error {
	wrapped := fmt.Errorf("%s stage: %w", stage, err)
	if serr := r.cfg.Store.Runs().SetStatus(run.ID, store.RunStatusFailed, wrapped.Error()); serr != nil {
		r.log.Error().Err(serr).Str("run_id", run.ID).Msg("failed to record run failure")
	}
	run.Status = store.RunStatusFailed
	run.Error = wrapped.Error()
	return wrapped
}

// degrade logs a non-fatal stage failure; later stages continue without
// its output.
func (r *Runner) degrade(runID, stage string, err error) {
	r.log.Warn().Err(err).Str("run_id", runID).Str("stage", stage).Msg("stage degraded, continuing")
}

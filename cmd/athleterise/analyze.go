package main

import (
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/analysis"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/overlay"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pipeline"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/video"
)

var flagForce bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [video]",
	Short: "Run the analysis pipeline on a video URL or local file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := settings.VideoURL
		if len(args) > 0 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("no video given: pass one as an argument or set video_url in the settings file")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		log := logging.NewLogger("cli")

		// MediaPipe when the sidecar is available, mock otherwise.
		var poseSource pose.Source
		if mp, err := pose.NewMediaPipeSource(pose.DefaultConfig()); err == nil {
			poseSource = mp
		} else {
			log.Warn().Err(err).Msg("pose sidecar not available, using mock source")
			poseSource = pose.NewMockSource()
		}
		defer poseSource.Close()

		batDetector, err := bat.NewYOLODetector(settings.BatWeightsPath(), settings.Bat.Confidence)
		if err != nil {
			return err
		}
		defer batDetector.Close()

		thresholds := analysis.Thresholds{
			ElbowAngle:       settings.Evaluation.ElbowAngleThreshold,
			SpineLean:        settings.Evaluation.SpineLeanThreshold,
			HeadKneeDistance: settings.Evaluation.HeadKneeDistanceThreshold,
		}

		runner := pipeline.New(pipeline.Config{
			Store:      st,
			Settings:   settings,
			Pose:       poseSource,
			Bat:        batDetector,
			Downloader: video.NewDownloader(0),
			Normalizer: video.NewNormalizer(settings.Width(), settings.Height(), settings.FPS),
			Renderer:   overlay.NewRenderer(thresholds),
			Force:      flagForce,
		})

		bar := pb.StartNew(len(pipeline.Stages))
		runner.Subscribe(pipeline.ObserverFunc(func(e pipeline.Event) {
			switch e.Status {
			case pipeline.StatusCompleted, pipeline.StatusSkipped, pipeline.StatusFailed:
				bar.Increment()
			}
		}))

		run, err := runner.Run(cmd.Context(), input)
		bar.Finish()
		if err != nil {
			return err
		}

		fmt.Printf("\nRun %s completed.\n\n", run.ID)
		return printEvaluation(st, run.ID)
	},
}

// scoreOrder fixes the printed category order.
var scoreOrder = []string{
	analysis.CategoryFootwork,
	analysis.CategoryHeadPosition,
	analysis.CategorySwingControl,
	analysis.CategoryBalance,
	analysis.CategoryFollowThrough,
}

// printEvaluation prints the score card recorded for a run.
func printEvaluation(st *store.Store, runID string) error {
	artifact, err := st.Artifacts().GetByRunAndStage(runID, pipeline.StageEvaluation)
	if err != nil {
		fmt.Println("No evaluation available for this run.")
		return nil
	}

	eval, err := analysis.ReadEvaluationJSON(artifact.Path)
	if err != nil {
		return fmt.Errorf("read evaluation: %w", err)
	}

	fmt.Printf("%-16s %6s  %s\n", "Category", "Score", "Feedback")
	for _, category := range scoreOrder {
		fmt.Printf("%-16s %6.1f  %s\n", category, eval.Scores[category], eval.Feedback[category])
	}
	return nil
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagForce, "force", false, "re-run every stage, bypassing the cache")
	rootCmd.AddCommand(analyzeCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/analysis"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/overlay"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pipeline"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/server"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/video"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and progress WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		log := logging.NewLogger("serve")

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
		})

		srv := server.New(server.Config{
			Store:    st,
			Runner:   runner,
			Settings: settings,
		})

		fmt.Printf("Listening on %s\n", flagAddr)
		return srv.ListenAndServe(flagAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

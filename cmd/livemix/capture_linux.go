//go:build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gen2brain/alsa"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/audioforge/livemix"
	"github.com/audioforge/livemix/internal/monitor"
)

const (
	s16Scale     = 32768.0
	periodFrames = 1024

	monitorInterval = 2 * time.Second
)

var (
	captureConfig   string
	captureGainDB   float64
	captureDuration int
	captureMonitor  bool
)

var captureCmd = &cobra.Command{
	Use:   "capture <output.wav>",
	Short: "Capture live input through the engine (ALSA)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureConfig, "config", "c", "",
		"YAML config file (default: built-in defaults)")
	captureCmd.Flags().Float64VarP(&captureGainDB, "gain", "g", 0,
		"output gain in dB")
	captureCmd.Flags().IntVarP(&captureDuration, "duration", "d", 10,
		"capture duration in seconds")
	captureCmd.Flags().BoolVarP(&captureMonitor, "monitor", "m", false,
		"log transport and CPU diagnostics while capturing")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadOrDefaultConfig(captureConfig)
	if err != nil {
		return err
	}

	session, err := livemix.NewSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if cmd.Flags().Changed("gain") {
		session.Dispatch(livemix.SetParam("gain_db", captureGainDB))
	}

	if captureMonitor {
		collector := monitor.NewCollector(session, monitorInterval)
		collector.Start()
		defer collector.Stop()
	}

	alsaConfig := alsa.Config{
		Channels:    1,
		Rate:        uint32(cfg.SampleRate),
		PeriodSize:  periodFrames,
		PeriodCount: uint32(cfg.Device.PeriodCount),
		Format:      alsa.SNDRV_PCM_FORMAT_S16_LE,
	}

	pcm, err := alsa.PcmOpen(uint(cfg.Device.Card), uint(cfg.Device.Device),
		alsa.PCM_IN, &alsaConfig)
	if err != nil {
		return fmt.Errorf("open capture device hw:%d,%d: %w",
			cfg.Device.Card, cfg.Device.Device, err)
	}
	defer pcm.Close()

	if err := pcm.Prepare(); err != nil {
		return fmt.Errorf("prepare capture device: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	totalFrames := captureDuration * int(cfg.SampleRate)
	raw := make([]int16, periodFrames)
	block := make([]float32, periodFrames)
	scratch := make([]float32, cfg.BlockSize)
	processed := make([]float32, 0, totalFrames)

	logrus.WithFields(logrus.Fields{
		"device":   fmt.Sprintf("hw:%d,%d", cfg.Device.Card, cfg.Device.Device),
		"rate":     alsaConfig.Rate,
		"duration": captureDuration,
	}).Info("capture started")
	fmt.Println("Capturing... press Ctrl+C to stop early.")

	captured := 0
	running := true
	for running && captured < totalFrames {
		select {
		case <-sigChan:
			fmt.Println("\nCapture interrupted.")
			running = false
			continue
		default:
		}

		frames, err := pcm.Read(raw)
		if err != nil {
			return fmt.Errorf("read capture device: %w", err)
		}
		if frames == 0 {
			continue
		}

		for i := 0; i < frames; i++ {
			block[i] = float32(float64(raw[i]) / s16Scale)
		}

		session.PushInput(block[:frames])
		for session.InputBacklog() > 0 {
			session.ProcessBlock()
			for {
				n := session.PullOutput(scratch)
				if n == 0 {
					break
				}
				processed = append(processed, scratch[:n]...)
			}
		}
		captured += frames
	}

	if err := encodeWAV(args[0], processed, int(cfg.SampleRate)); err != nil {
		return err
	}

	snap := session.Snapshot()
	fmt.Printf("Captured %d samples to %s (dropped: %d)\n",
		len(processed), args[0], snap.InputDropped)
	return nil
}

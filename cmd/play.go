package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mielpeeters/breaker/audio"
	"github.com/mielpeeters/breaker/monitor"
	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/pipeline"
	"github.com/mielpeeters/breaker/score"
	"github.com/mielpeeters/breaker/watch"
)

var (
	samplesDir  string
	sampleRate  int
	randomSeed  int64
	showMonitor bool
)

func init() {
	playCmd.Flags().StringVar(&samplesDir, "samples", "samples", "directory of WAV samples")
	playCmd.Flags().IntVar(&sampleRate, "sample-rate", parameter.DefaultSampleRate, "output sample rate")
	playCmd.Flags().Int64Var(&randomSeed, "seed", 0, "seed for probabilistic tokens (0 = clock)")
	playCmd.Flags().BoolVar(&showMonitor, "monitor", false, "show the live terminal monitor")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <score>",
	Short: "play a score and live-reload it on edits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(args[0])
	},
}

func play(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := score.Parse(string(source))
	if err != nil {
		return err
	}

	cfg := &pipeline.Config{
		SamplesDir: samplesDir,
		SampleRate: sampleRate,
		Seed:       randomSeed,
	}

	p, queue, err := pipeline.Build(tree, cfg)
	if err != nil {
		return err
	}

	out, err := audio.Start(queue, sampleRate)
	if err != nil {
		return err
	}
	defer out.Stop()

	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		if err := p.Run(); err != nil {
			log.Printf("producer stopped: %v", err)
		}
	}()

	watcher, err := watch.New(path, p, cfg)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if showMonitor {
		if err := monitor.Run(p); err != nil {
			return err
		}
	} else {
		log.Printf("playing %s, edit the file to live-reload (ctrl-c to quit)", path)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case <-producerDone:
		}
	}

	out.Stop()
	<-producerDone
	return nil
}

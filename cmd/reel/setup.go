package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mmcdole/reel/internal/api"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/tui/styles"
	"github.com/spf13/cobra"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                        \r"

const probeTimeout = 15 * time.Second

func setupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the API URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runSetupFlow(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		},
	}
}

// runSetupFlow asks for the API URL until one answers like the video API,
// then saves it
func runSetupFlow(in io.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to reel!")
	fmt.Fprintln(out)

	reader := bufio.NewReader(in)

	var result *api.ProbeResult
	for {
		apiURL, err := promptLine(reader, out, "Enter the API URL (e.g., http://localhost:8000/api): ")
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if apiURL == "" {
			fmt.Fprintln(out, "API URL cannot be empty. Please try again.")
			continue
		}

		fmt.Fprintln(out)
		result, err = probeWithSpinner(out, apiURL)
		if err != nil {
			fmt.Fprintf(out, "\n✗ Could not reach the API: %v\n", err)
			fmt.Fprintln(out, "Please check the URL and try again.")
			fmt.Fprintln(out)
			continue
		}
		break
	}

	if err := config.SaveAPIURL(cfg, result.URL); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Configuration saved to %s\n", cfg.File())
	fmt.Fprintln(out)
	return nil
}

// probeWithSpinner checks apiURL while animating a spinner on out
func probeWithSpinner(out io.Writer, apiURL string) (*api.ProbeResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	type probeOutcome struct {
		result *api.ProbeResult
		err    error
	}
	resultCh := make(chan probeOutcome, 1)

	go func() {
		res, err := api.Probe(ctx, apiURL)
		resultCh <- probeOutcome{res, err}
	}()

	frame := 0
	fmt.Fprintf(out, "\r%s Checking API...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Fprint(out, clearSpinnerLine)
			if res.err != nil {
				return nil, res.err
			}
			fmt.Fprintf(out, "✓ Connected: %d categories, %s\n",
				res.result.Categories, res.result.Latency.Round(time.Millisecond))
			return res.result, nil

		case <-ticker.C:
			frame++
			fmt.Fprintf(out, "\r%s Checking API...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Fprint(out, clearSpinnerLine)
			return nil, fmt.Errorf("probe timed out")
		}
	}
}

package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ecosort/internal/service/flow"
)

var (
	classifySave  string
	captureWarmup time.Duration
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILE",
	Short: "Classify an image file",
	Long: `Upload an image to the backend and print the predicted category,
confidence and disposal instructions.

Examples:
  ecosort classify bottle.jpg
  ecosort classify bottle.jpg --save result.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a camera frame and classify it",
	Args:  cobra.NoArgs,
	RunE:  runCapture,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a demo classification on a sample image",
	Long: `Load a random sample image, play the simulated classification and
store the sample in the backend history.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(classifyCmd, captureCmd, demoCmd)

	for _, c := range []*cobra.Command{classifyCmd, captureCmd, demoCmd} {
		c.Flags().StringVar(&classifySave, "save", "", "write the result document to this path")
	}
	captureCmd.Flags().DurationVar(&captureWarmup, "warmup", time.Second, "time to let the camera adjust before capturing")
}

func runClassify(cmd *cobra.Command, args []string) error {
	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	a, closeApp, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp()
	f := a.Flow()

	// An unknown extension leaves the type empty and the content is sniffed.
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if err := f.Upload(mimeType, info.Size(), file); err != nil {
		return err
	}
	return submitAndPrint(cmd, f)
}

func runCapture(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp()
	f := a.Flow()

	if err := f.StartCamera(); err != nil {
		return err
	}
	time.Sleep(captureWarmup)
	if err := f.CaptureCamera(); err != nil {
		return err
	}
	return submitAndPrint(cmd, f)
}

func submitAndPrint(cmd *cobra.Command, f *flow.Flow) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	result, err := f.Submit(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderResult(out, *result)
	return saveResult(f)
}

func runDemo(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp()
	f := a.Flow()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🎲 Loading a demo image...")
	if err := f.Demo(ctx); err != nil {
		return err
	}
	// Demo steps and the background store run on timers.
	f.Wait()

	snap := f.Store().Snapshot()
	if snap.Result == nil {
		return fmt.Errorf("demo did not produce a result")
	}
	renderResult(out, *snap.Result)
	return saveResult(f)
}

func saveResult(f *flow.Flow) error {
	if classifySave == "" {
		return nil
	}
	_, body, err := f.Download()
	if err != nil {
		return err
	}
	if err := os.WriteFile(classifySave, body, 0644); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Result saved to %s\n", classifySave)
	return nil
}

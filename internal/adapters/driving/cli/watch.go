package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/veriscan-labs/veriscan-cli/internal/logger"
)

var watchAssignment string

// settleDelay is how long a file must stay unchanged before it is
// submitted, so partially written uploads are not picked up.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and submit dropped files",
	Long: `Watches a directory and runs every newly created file through the
submission pipeline, printing one verdict per file. Useful as a drop
box for collecting an assignment's submissions.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchAssignment, "assignment", "a", "", "Assignment identifier (required)")
	_ = watchCmd.MarkFlagRequired("assignment")
	rootCmd.AddCommand(watchCmd)
}

// settler coalesces bursts of events per path, invoking fn exactly once
// after a path has stayed quiet for the delay. Each touch replaces the
// pending timer; a fired callback checks it is still the current one,
// so a touch racing the fire never produces a second invocation for
// the same burst.
type settler struct {
	delay time.Duration
	fn    func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newSettler(delay time.Duration, fn func(string)) *settler {
	return &settler{delay: delay, fn: fn, timers: make(map[string]*time.Timer)}
}

// Touch records activity on path and restarts its quiet period.
func (s *settler) Touch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[path]; ok {
		old.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		current := s.timers[path] == timer
		if current {
			delete(s.timers, path)
		}
		s.mu.Unlock()
		if current {
			s.fn(path)
		}
	})
	s.timers[path] = timer
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := args[0]
	if err := watcher.Add(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for assignment %s (ctrl-c to stop)\n", dir, watchAssignment)

	pending := newSettler(settleDelay, func(path string) {
		verdict, submitErr := submissionService.Submit(ctx, path, watchAssignment, filepath.Base(path))
		if submitErr != nil {
			cmd.PrintErrf("error: %s: %v\n", path, submitErr)
			return
		}
		printVerdict(cmd, filepath.Base(path), verdict)
	})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			info, statErr := os.Stat(event.Name)
			if statErr != nil || info.IsDir() {
				continue
			}
			logger.Debug("fs event: %s %s", event.Op, event.Name)
			pending.Touch(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", watchErr)
		}
	}
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"scale-sync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDays  int
	syncStart string
	syncEnd   string
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-off sync",
	Long: `Fetches Withings measurements for the given window and writes the ones
Garmin Connect does not already have. Without flags the window is the
last 7 days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer logg.Sync()

		cl, err := buildClients(cfg, logg)
		if err != nil {
			return err
		}

		var w sync.Window
		if syncStart != "" || syncEnd != "" {
			w, err = parseWindow(syncStart, syncEnd)
			if err != nil {
				return err
			}
		} else if syncDays > 0 {
			end := time.Now().UTC()
			w = sync.Window{Start: end.AddDate(0, 0, -syncDays), End: end}
		}

		svc := sync.NewService(cl.withings, cl.garmin, sync.NewMatcher(), nil, logg)
		result, err := svc.Sync(context.Background(), "cli", w)
		if err != nil {
			return err
		}

		logg.Info("Sync finished",
			zap.Int("synced", result.Synced),
			zap.Int("skipped", result.Skipped),
			zap.String("message", result.Message))
		return nil
	},
}

// parseWindow turns the --start/--end date flags into an absolute
// window. Both flags are required together; dates are day-granular.
func parseWindow(start, end string) (sync.Window, error) {
	if start == "" || end == "" {
		return sync.Window{}, fmt.Errorf("--start and --end must be given together")
	}

	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return sync.Window{}, fmt.Errorf("parsing --start: %w", err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return sync.Window{}, fmt.Errorf("parsing --end: %w", err)
	}
	// Make the end date inclusive.
	e = e.AddDate(0, 0, 1)

	if !s.Before(e) {
		return sync.Window{}, fmt.Errorf("--start must be before --end")
	}
	return sync.Window{Start: s.UTC(), End: e.UTC()}, nil
}

func init() {
	syncCmd.Flags().IntVar(&syncDays, "days", 0, "days to look back (default 7)")
	syncCmd.Flags().StringVar(&syncStart, "start", "", "window start date (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncEnd, "end", "", "window end date (YYYY-MM-DD)")
	RootCmd.AddCommand(syncCmd)
}

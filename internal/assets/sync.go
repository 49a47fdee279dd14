package assets

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sync runs CopyImages on a cron schedule until ctx is cancelled. An
// immediate copy happens before the schedule starts so a fresh checkout is
// synced right away.
func Sync(ctx context.Context, srcDir, dstDir, schedule string) error {
	if _, err := CopyImages(srcDir, dstDir, false); err != nil {
		return err
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		stats, err := CopyImages(srcDir, dstDir, false)
		if err != nil {
			log.Error().Err(err).Msg("sync run failed")
			return
		}
		if stats.Copied > 0 {
			log.Info().Msgf("synced %d images", stats.Copied)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info().Msgf("⏰ syncing %s -> %s on schedule %q", srcDir, dstDir, schedule)

	<-ctx.Done()

	stop := c.Stop()
	<-stop.Done()
	return nil
}

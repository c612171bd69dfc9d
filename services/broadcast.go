package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

const (
	SubjectNewRide      = "New Ride Live!"
	SubjectAnnouncement = "New Announcement!"
)

// Recipients lists the addresses a broadcast goes to.
type Recipients interface {
	Emails(ctx context.Context) ([]string, error)
}

// Broadcaster mails riders when a ride or an announcement goes live. Failures
// are logged here; callers must not fail the triggering write on them.
type Broadcaster struct {
	mailer *Mailer
	riders Recipients
}

func NewBroadcaster(mailer *Mailer, riders Recipients) *Broadcaster {
	return &Broadcaster{mailer: mailer, riders: riders}
}

func (b *Broadcaster) NewRide(ctx context.Context, ride *models.Ride, userID string) error {
	logger := log.With().Str("rideID", ride.ID).Str("title", ride.Title).Logger()
	return b.broadcast(ctx, logger, models.EmailTypeNewRide, SubjectNewRide, userID)
}

func (b *Broadcaster) Announcement(ctx context.Context, a *models.Announcement, userID string) error {
	logger := log.With().Str("announcementID", a.ID).Logger()
	return b.broadcast(ctx, logger, models.EmailTypeAnnouncement, SubjectAnnouncement, userID)
}

func (b *Broadcaster) broadcast(ctx context.Context, logger zerolog.Logger, template, subject, userID string) error {
	tmpl, err := b.mailer.vendor.Template(ctx, template)
	if err != nil {
		logger.Error().Err(err).Str("template", template).Msg("broadcast skipped: template unavailable")
		return err
	}
	if tmpl.HTML() == "" {
		logger.Warn().Str("template", template).Msg("broadcast skipped: template is empty")
		return errs.NewConfigInvalidError("template "+template, "has no body")
	}

	emails, err := b.riders.Emails(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("broadcast skipped: could not load recipients")
		return err
	}
	if len(emails) == 0 {
		logger.Info().Str("template", template).Msg("broadcast skipped: no recipients")
		return nil
	}

	if _, err := b.mailer.Send(ctx, template, subject, tmpl.HTML(), emails, userID); err != nil {
		logger.Error().Err(err).Str("template", template).Msg("broadcast failed")
		return fmt.Errorf("broadcast %s: %w", template, err)
	}
	logger.Info().Int("recipients", len(emails)).Msg("broadcast sent")
	return nil
}

package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fixturecal/internal/catalog"
	"fixturecal/internal/logging"
	"fixturecal/internal/services"
)

// Service finds the followed team's fixtures on the reminder day and sends
// an availability request per fixture.
type Service struct {
	store      *catalog.Store
	sender     Sender
	logger     *slog.Logger
	teamName   string
	location   *time.Location
	daysBefore int
}

// Summary reports a reminder pass.
type Summary struct {
	Fixtures  int
	Sent      int
	Opponents []string
}

// NewService creates a reminder service for teamName. daysBefore shifts the
// reminder day forward from the current date; zero reminds on matchday.
func NewService(store *catalog.Store, sender Sender, logger *slog.Logger, teamName string, location *time.Location, daysBefore int) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		store:      store,
		sender:     sender,
		logger:     logging.NewComponentLogger(logger, "reminder"),
		teamName:   teamName,
		location:   location,
		daysBefore: daysBefore,
	}
}

// RemindDue sends one message per fixture the team plays on the reminder
// day derived from now. A team missing from the catalog is not an error;
// it simply means there is nothing to remind about yet.
func (s *Service) RemindDue(ctx context.Context, now time.Time) (Summary, error) {
	var summary Summary

	day := now.In(s.location).AddDate(0, 0, s.daysBefore)
	team, err := s.store.TeamByName(ctx, s.teamName)
	if errors.Is(err, catalog.ErrTeamNotFound) {
		s.logger.Warn("team not in catalog yet",
			logging.String(logging.FieldTeam, s.teamName))
		return summary, nil
	}
	if err != nil {
		return summary, err
	}

	fixtures, err := s.store.FixturesOn(ctx, team.ID, day, s.location)
	if err != nil {
		return summary, err
	}
	summary.Fixtures = len(fixtures)

	for _, fixture := range fixtures {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		opponent, ok := fixture.Opponent(team.Name)
		if !ok {
			continue
		}
		msg := NewMatchMessage(fixture.Kickoff, opponent, s.location)
		if err := s.sender.Send(msg); err != nil {
			return summary, services.Wrap(services.ErrUpstream, "reminder", "send", "deliver reminder email", err)
		}
		summary.Sent++
		summary.Opponents = append(summary.Opponents, opponent)
		s.logger.Info("reminder sent",
			logging.String("opponent", opponent),
			logging.Time("kickoff", fixture.Kickoff))
	}
	return summary, nil
}

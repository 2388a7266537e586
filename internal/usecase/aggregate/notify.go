package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/infra/notifier"
)

const notifyTimeout = 15 * time.Second

// notifyRun reports a run that saved something or had failing providers.
func (s *Service) notifyRun(ctx context.Context, r *RunResult) {
	if r.Saved == 0 && r.Report.SourcesFailed == 0 {
		return
	}
	level := notifier.LevelInfo
	switch {
	case r.Report.SourcesSuccessful == 0:
		level = notifier.LevelError
	case r.Report.SourcesFailed > 0:
		level = notifier.LevelWarning
	}
	msg := notifier.Message{
		Title: "News aggregation completed",
		Summary: fmt.Sprintf("%d of %d sources succeeded",
			r.Report.SourcesSuccessful, r.Report.SourcesTotal),
		Level: level,
		Fields: []notifier.Field{
			{Name: "Fetched", Value: strconv.Itoa(r.Fetched)},
			{Name: "Unique", Value: strconv.Itoa(r.Unique)},
			{Name: "Saved", Value: strconv.Itoa(r.Saved)},
			{Name: "Skipped", Value: strconv.Itoa(r.Skipped)},
			{Name: "Duration", Value: r.Duration.Round(time.Millisecond).String()},
		},
	}
	names := make([]string, 0, len(r.Report.Failures))
	for name := range r.Report.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		msg.Fields = append(msg.Fields, notifier.Field{Name: "Failed: " + name, Value: respond.SanitizeString(r.Report.Failures[name])})
	}
	s.dispatch(ctx, msg)
}

func (s *Service) notifyFailure(ctx context.Context, err error) {
	s.dispatch(ctx, notifier.Message{
		Title:   "News aggregation failed",
		Summary: respond.SanitizeError(err),
		Level:   notifier.LevelError,
	})
}

// dispatch sends msg to every notifier in the background.
func (s *Service) dispatch(ctx context.Context, msg notifier.Message) {
	for _, n := range s.notifiers {
		s.notifyWG.Add(1)
		go func() {
			defer s.notifyWG.Done()
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			defer cancel()
			if err := n.Notify(nctx, msg); err != nil {
				s.logger.Warn("notification failed",
					slog.String("channel", n.Name()),
					slog.Any("error", err))
			}
		}()
	}
}

// WaitNotifications blocks until queued notifications have been sent.
func (s *Service) WaitNotifications() {
	s.notifyWG.Wait()
}

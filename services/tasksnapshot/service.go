// Package tasksnapshot remembers which tasks a user has already been
// shown, so callers can surface only assignments that appeared since
// the last poll.
package tasksnapshot

import (
	"context"
	"database/sql"

	"manaba-go/lib/timezone"
	"manaba-go/services/tasksnapshot/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/tasksnapshot")

// Task kinds, matching the three assignment flavors a course exposes.
const (
	KindQuery  = "query"
	KindSurvey = "survey"
	KindReport = "report"
)

// Entry identifies one task of a course.
type Entry struct {
	CourseID int
	Kind     string
	TaskID   int
	Title    string
}

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// Record marks every entry as seen by the user. Entries recorded before
// keep their original first-seen time.
func (s Service) Record(ctx context.Context, user string, entries []Entry) error {
	ctx, span := tracer.Start(ctx, "Record")
	defer span.End()

	span.SetAttributes(attribute.String("user", user))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	now := timezone.Now().Unix()
	for _, entry := range entries {
		err := txqry.CreateSeenTask(ctx, db.SeenTask{
			User:      user,
			CourseID:  int64(entry.CourseID),
			Kind:      entry.Kind,
			TaskID:    int64(entry.TaskID),
			Title:     entry.Title,
			FirstSeen: now,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Diff returns the entries the user has never been shown, in input
// order. It does not record them; call Record once they have actually
// been surfaced.
func (s Service) Diff(ctx context.Context, user string, entries []Entry) ([]Entry, error) {
	ctx, span := tracer.Start(ctx, "Diff")
	defer span.End()

	span.SetAttributes(attribute.String("user", user))

	var unseen []Entry
	for _, entry := range entries {
		seen, err := s.qry.HasSeenTask(ctx, db.HasSeenTaskParams{
			User:     user,
			CourseID: int64(entry.CourseID),
			Kind:     entry.Kind,
			TaskID:   int64(entry.TaskID),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if !seen {
			unseen = append(unseen, entry)
		}
	}

	span.SetAttributes(attribute.Int("unseen", len(unseen)))
	return unseen, nil
}

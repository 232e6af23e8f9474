package commands

import (
	"database/sql"
	"os"
	"strconv"
	"time"

	"manaba-go/services/tasksnapshot"
	"manaba-go/services/tasksnapshot/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	tasksOnlyNew *bool
	tasksDb      *string
)

func init() {
	tasksOnlyNew = tasksCmd.Flags().Bool("only-new", false, "Only print tasks not seen on a previous run.")
	tasksDb = tasksCmd.Flags().String("db", "tasks.db", "The database remembering previously seen tasks.")
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <course-id> [--only-new] [--db <path/to/tasks.db>]",
	Short: "Prints the quizzes, surveys and reports of a course.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		courseID, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("course id must be numeric", err)
		}

		client, cfg := createClient()
		ctx := cmd.Context()

		queries, err := client.Queries(ctx, courseID)
		if err != nil {
			fatal("failed to fetch quizzes", err)
		}
		surveys, err := client.Surveys(ctx, courseID)
		if err != nil {
			fatal("failed to fetch surveys", err)
		}
		reports, err := client.Reports(ctx, courseID)
		if err != nil {
			fatal("failed to fetch reports", err)
		}

		type row struct {
			entry tasksnapshot.Entry
			lamp  bool
			end   *time.Time
		}
		var rows []row
		for _, q := range queries {
			rows = append(rows, row{
				entry: tasksnapshot.Entry{CourseID: courseID, Kind: tasksnapshot.KindQuery, TaskID: q.ID, Title: q.Title},
				lamp:  q.StatusLamp,
				end:   q.EndTime,
			})
		}
		for _, s := range surveys {
			rows = append(rows, row{
				entry: tasksnapshot.Entry{CourseID: courseID, Kind: tasksnapshot.KindSurvey, TaskID: s.ID, Title: s.Title},
				lamp:  s.StatusLamp,
				end:   s.EndTime,
			})
		}
		for _, r := range reports {
			rows = append(rows, row{
				entry: tasksnapshot.Entry{CourseID: courseID, Kind: tasksnapshot.KindReport, TaskID: r.ID, Title: r.Title},
				lamp:  r.StatusLamp,
				end:   r.EndTime,
			})
		}

		if *tasksOnlyNew {
			database, err := sql.Open("sqlite", *tasksDb)
			if err != nil {
				fatal("failed to open task database", err)
			}
			defer database.Close()
			if _, err := database.Exec(db.Schema); err != nil {
				fatal("failed to apply task schema", err)
			}

			service := tasksnapshot.NewService(database)

			entries := make([]tasksnapshot.Entry, len(rows))
			for i, r := range rows {
				entries[i] = r.entry
			}
			unseen, err := service.Diff(ctx, cfg.Username, entries)
			if err != nil {
				fatal("failed to diff tasks", err)
			}

			unseenSet := map[tasksnapshot.Entry]bool{}
			for _, e := range unseen {
				unseenSet[e] = true
			}
			var kept []row
			for _, r := range rows {
				if unseenSet[r.entry] {
					kept = append(kept, r)
				}
			}
			rows = kept

			if err := service.Record(ctx, cfg.Username, unseen); err != nil {
				fatal("failed to record tasks", err)
			}
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Kind", "ID", "Title", "Lamp", "Deadline"})

		for _, r := range rows {
			deadline := ""
			if r.end != nil {
				deadline = r.end.Format("2006-01-02 15:04")
			}
			t.AppendRow(table.Row{r.entry.Kind, r.entry.TaskID, r.entry.Title, r.lamp, deadline})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

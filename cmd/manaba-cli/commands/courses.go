package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coursesCmd)
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Prints the courses the configured user participates in.",
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := createClient()

		courses, err := client.Courses(cmd.Context())
		if err != nil {
			fatal("failed to fetch courses", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name", "Year", "Lecture", "Teacher"})

		for _, c := range courses {
			year := ""
			if c.Year != nil {
				year = strconv.Itoa(*c.Year)
			}
			t.AppendRow(table.Row{c.ID, c.Name, year, c.LectureAt, c.Teacher})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

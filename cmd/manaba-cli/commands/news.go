package commands

import (
	"os"
	"strconv"

	"manaba-go/lib/scrapers/manaba"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newsCmd)
}

var newsCmd = &cobra.Command{
	Use:   "news <course-id>",
	Short: "Prints the announcements of a course.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		courseID, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("course id must be numeric", err)
		}

		client, _ := createClient()

		news, err := client.NewsList(cmd.Context(), courseID, manaba.PageOptions{})
		if err != nil {
			fatal("failed to fetch news", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Title", "Author", "Posted"})

		for _, n := range news {
			posted := ""
			if n.PostedAt != nil {
				posted = n.PostedAt.Format("2006-01-02 15:04")
			}
			t.AppendRow(table.Row{n.ID, n.Title, n.Author, posted})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"manaba-go/lib/configutil"
	"manaba-go/lib/scrapers/manaba"
	"manaba-go/lib/scrapers/manaba/core"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manaba-cli",
	Short: "manaba-cli lists courses, tasks and news from a manaba account.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func fatal(message string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}

func createClient() (manaba.Client, Config) {
	cfg, err := configutil.ReadConfig[Config]("manaba.json5")
	if err != nil {
		fatal("failed to read manaba.json5", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	coreClient, err := core.NewClient(ctx, core.ClientOptions{
		BaseUrl: cfg.BaseUrl,
	})
	if err != nil {
		fatal("failed to initialize manaba client", err)
	}
	err = coreClient.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		fatal("failed to log in to manaba", err)
	}

	return manaba.NewClient(coreClient), cfg
}

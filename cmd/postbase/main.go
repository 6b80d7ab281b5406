package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Salehmangrio/postbase/internal/config"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/service"
)

var cfgFile string
var cfg config.C

func loadConfig() error {
	if cfgFile == "" {
		cfgFile = os.Getenv("POSTBASE_CONFIG")
	}

	if cfgFile == "" {
		return errors.New("no configuration file found; must be specified with --config or POSTBASE_CONFIG environment variable")
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	return errors.Wrapf(err, "failed to load configuration from '%s'", cfgFile)
}

// dependencies builds the client side dependency manager. The session secret survives between invocations in the
// session file.
func dependencies() (*service.DependencyManager, error) {
	store, err := newFileSessionStore(os.Getenv("POSTBASE_SESSION_FILE"))
	if err != nil {
		return nil, err
	}

	return service.NewDependencyManager("cli", cfg).WithSessionStore(store), nil
}

// withDependencies runs f with a dependency manager and a context tagged with a fresh correlation id.
func withDependencies(cmd *cobra.Command, f func(ctx context.Context, dm *service.DependencyManager) error) error {
	dm, err := dependencies()
	if err != nil {
		return err
	}
	defer dm.Close()

	return f(pbctx.EnsureCorrelationID(cmd.Context()), dm)
}

func banner() {
	banner := `
                  __  __                   
    ____  ____  _____/ /_/ /_  ____ _________ 
   / __ \/ __ \/ ___/ __/ __ \/ __ '/ ___/ _ \
  / /_/ / /_/ (__  ) /_/ /_/ / /_/ (__  )  __/
 / .___/\____/____/\__/_.___/\__,_/____/\___/ 
/_/                                           
`
	color.Green(banner)
}

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:          "postbase",
		Short:        "Accounts, documents and files against a postbase backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file; may also be specified in POSTBASE_CONFIG")

	rootCmd.AddCommand(cmdAccount())
	rootCmd.AddCommand(cmdPost())
	rootCmd.AddCommand(cmdFile())
	rootCmd.AddCommand(cmdServe())
	rootCmd.AddCommand(cmdConfig())

	return rootCmd
}

func main() {
	// Optionally load environment variables from a .env file.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

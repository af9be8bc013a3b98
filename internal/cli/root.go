package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-soroban/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-soroban/internal/app"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// initApp builds the application for a command; replaced in tests
var initApp = func(cmd *cobra.Command) (*app.App, error) {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}
	return app.InitApp(config.SetupViper(projectRoot, cmd))
}

// skipsApp reports whether a command runs without project configuration
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-soroban",
		Short: "Soroban contract deployment and address book",
		Long: `treb-soroban installs, deploys and initializes Soroban contracts and keeps
a per-network address book of the results in <registry_dir>/<network>.contracts.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			appInstance, err := initApp(cmd)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("network", "n", "", "Network to use (standalone, testnet, mainnet)")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Print results as JSON")
	flags.Duration("timeout", 10*time.Minute, "Overall command timeout")
	flags.Int("max-attempts", 0, "Attempts per lifecycle step before giving up")
	flags.String("registry-dir", "", "Directory holding <network>.contracts.json files")
	flags.String("wasm-dir", "", "Directory holding compiled contract artifacts")
	flags.String("stellar-bin", "", "Path to the stellar CLI")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewInstallCmd(),
		NewDeployCmd(),
		NewInvokeCmd(),
		NewStrategiesCmd(),
		NewPlanCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewRegistryCmd(),
		NewFundCmd(),
		NewNetworksCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// output writes result as JSON when requested, otherwise calls human
func output(cmd *cobra.Command, a *app.App, result interface{}, human func()) error {
	if a.Config.JSON {
		return render.JSON(cmd.OutOrStdout(), result)
	}
	human()
	return nil
}

// withSuggestion appends close registry names to a lookup failure
func withSuggestion(cmd *cobra.Command, a *app.App, err error) error {
	var notFound domain.NotFoundError
	if !errors.As(err, &notFound) || notFound.Name == "" {
		return err
	}

	names, loadErr := a.ShowRegistry.Names(cmd.Context())
	if loadErr != nil {
		return err
	}
	suggestions := interactive.Suggest(notFound.Name, names, 3)
	if len(suggestions) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
}

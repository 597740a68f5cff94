// Package cli provides the Cobra-based techstorectl command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tair/techstore/internal/product/access"
	"github.com/tair/techstore/internal/product/client"
	"github.com/tair/techstore/internal/product/repository"
	"github.com/tair/techstore/pkg/auth"
	"github.com/tair/techstore/pkg/logger"
)

// Store backends
const (
	StoreRemote = "remote"
	StoreMemory = repository.StoreMemory
	StoreFile   = repository.StoreFile
)

// App holds the state shared by the commands of one invocation. Tests may
// preset Access or Remote to skip backend construction.
type App struct {
	Access access.Access
	Remote *client.REST

	v *viper.Viper
}

// NewRootCommand builds the command tree
func NewRootCommand(app *App) *cobra.Command {
	if app == nil {
		app = &App{}
	}
	app.v = viper.New()

	root := &cobra.Command{
		Use:           "techstorectl",
		Short:         "Browse and manage the TechStore catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("api-url", "http://localhost:1105", "catalog server base URL")
	flags.String("store", StoreRemote, "backend: remote|memory|file")
	flags.String("store-file", "data/products.json", "file store path")
	flags.String("session-file", defaultSessionFile(), "where the login session is kept")
	flags.String("log-level", "warn", "log level")
	flags.StringSlice("local-roles", []string{auth.RoleClient, auth.RoleAdmin}, "roles granted to the operator of a local store")

	for _, name := range []string{"config", "api-url", "store", "store-file", "session-file", "log-level", "local-roles"} {
		_ = app.v.BindPFlag(name, flags.Lookup(name))
	}
	app.v.SetEnvPrefix("TECHSTORE")
	app.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	app.v.AutomaticEnv()

	root.AddCommand(
		newBrowseCommand(app),
		newCategoriesCommand(app),
		newGetCommand(app),
		newCreateCommand(app),
		newUpdateCommand(app),
		newDeleteCommand(app),
		newLoginCommand(app),
		newLogoutCommand(app),
		newProfileCommand(app),
	)
	return root
}

// Execute runs techstorectl with os.Args
func Execute() error {
	return NewRootCommand(nil).Execute()
}

func (a *App) setup(cmd *cobra.Command) error {
	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.InitWithWriter(cmd.ErrOrStderr(), "techstorectl", true)
	logger.SetLevel(a.v.GetString("log-level"))

	if a.Access != nil {
		return nil
	}

	switch kind := strings.ToLower(a.v.GetString("store")); kind {
	case StoreRemote:
		if a.Remote == nil {
			session, err := client.OpenSession(a.v.GetString("session-file"))
			if err != nil {
				return err
			}
			a.Remote = client.NewREST(a.v.GetString("api-url"), session)
		}
		a.Access = a.Remote
	case StoreMemory, StoreFile:
		store, err := repository.NewStore(kind, a.v.GetString("store-file"))
		if err != nil {
			return err
		}
		if _, err := repository.SeedIfEmpty(cmd.Context(), store); err != nil {
			return err
		}
		operator := &auth.Principal{Roles: a.v.GetStringSlice("local-roles")}
		a.Access = access.NewLocal(store, auth.StaticGate{Principal: operator}, nil)
	default:
		return fmt.Errorf("unknown store type: %s", kind)
	}
	return nil
}

func (a *App) remote() (*client.REST, error) {
	if a.Remote == nil {
		return nil, errors.New("this command needs --store=remote")
	}
	return a.Remote, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "techstore", "session.json")
}

func printf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

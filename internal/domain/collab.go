package domain

import "context"

// Collaborator services the manager calls but does not implement:
// mod-loader installers, the game launch command builder, and the
// account login flow. All are optional and injected by the caller.

// Identity is the result of a completed login flow.
type Identity struct {
	Username string
	UUID     string
}

// LoaderInstaller installs a mod loader for a game version into a target
// directory and returns the resulting launchable version identifier.
type LoaderInstaller interface {
	Install(ctx context.Context, gameVersion, targetDir string) (string, error)
}

// LaunchOptions are passed through to the launch command builder.
type LaunchOptions struct {
	Username     string
	AccessToken  string
	RAMMiB       int
	ExtraJVMArgs []string
	Server       string
}

// LaunchBuilder produces the argv for launching a game version from a
// directory with the given options.
type LaunchBuilder interface {
	Command(version, dir string, opts LaunchOptions) ([]string, error)
}

// Authenticator runs a login flow and returns the user identity together
// with an access token the manager may persist for later launches.
type Authenticator interface {
	Login(ctx context.Context) (*Identity, string, error)
}

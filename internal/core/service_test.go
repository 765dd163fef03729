package core_test

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"modrith/internal/core"
	"modrith/internal/domain"
	"modrith/internal/storage/paths"
	"modrith/internal/storage/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, cfg core.ServiceConfig) *core.Service {
	t.Helper()
	if cfg.DataDir == "" {
		cfg.DataDir = t.TempDir()
	}
	svc, err := core.NewService(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreateAddMod_Scenario(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})

	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)

	require.NoError(t, svc.AddMod("Survival", domain.Mod{
		ID:      "sodium",
		Name:    "Sodium",
		Version: "0.5",
		Enabled: true,
	}))

	p, err := svc.GetProfile("Survival")
	require.NoError(t, err)
	assert.Equal(t, []string{"sodium"}, p.LoadOrder)
	require.Contains(t, p.Mods, "sodium")
	assert.Equal(t, "0.5", p.Mods["sodium"].Version)
}

func TestCreateProfile_Validation(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})

	_, err := svc.CreateProfile("", "1.20.1")
	assert.Error(t, err)

	_, err = svc.CreateProfile("nested/name", "1.20.1")
	assert.Error(t, err)

	_, err = svc.CreateProfile("..", "1.20.1")
	assert.Error(t, err)

	_, err = svc.CreateProfile("ok", "")
	assert.Error(t, err)
}

func TestAddMod_EmptyID(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})
	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)

	err = svc.AddMod("Survival", domain.Mod{ID: ""})
	assert.Error(t, err)
}

func TestStartup_SkipsCorruptProfile(t *testing.T) {
	dataDir := t.TempDir()
	layout := paths.New(dataDir)
	require.NoError(t, layout.Ensure())

	good := domain.NewProfile("good", "1.20.1")
	require.NoError(t, profiles.Save(layout, good))

	badDir := layout.ProfileDir("bad")
	require.NoError(t, os.MkdirAll(badDir, 0755))
	require.NoError(t, os.WriteFile(layout.ProfilePath("bad"), []byte("{broken"), 0644))

	svc := newTestService(t, core.ServiceConfig{DataDir: dataDir})

	assert.Equal(t, []string{"good"}, svc.ListProfiles())
	_, err := svc.GetProfile("bad")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestBackupRestoreReload(t *testing.T) {
	dataDir := t.TempDir()
	svc := newTestService(t, core.ServiceConfig{DataDir: dataDir})

	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)
	require.NoError(t, svc.AddMod("Survival", domain.Mod{ID: "sodium", Version: "0.5", Enabled: true}))

	original, err := svc.GetProfile("Survival")
	require.NoError(t, err)

	archivePath, err := svc.Backup("Survival")
	require.NoError(t, err)

	// Destroy the on-disk profile, restore, and reload explicitly.
	layout := paths.New(dataDir)
	require.NoError(t, os.RemoveAll(layout.ProfileDir("Survival")))

	name, err := svc.Restore(archivePath)
	require.NoError(t, err)
	assert.Equal(t, "Survival", name)

	// The stale in-memory copy is dropped until an explicit reload.
	_, err = svc.GetProfile("Survival")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	reloaded, err := svc.ReloadProfile("Survival")
	require.NoError(t, err)
	assert.Equal(t, original, reloaded)

	// Both operations landed in the history log.
	events, err := svc.History(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "restore", events[0].Operation)
	assert.Equal(t, "backup", events[1].Operation)
}

func TestSearch_PassesThroughResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sodium", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"hits":[{"project_id":"AANobbMI","slug":"sodium","title":"Sodium","latest_version":"0.5.8"}]}`))
	}))
	defer server.Close()

	svc := newTestService(t, core.ServiceConfig{
		APIBaseURL:  server.URL,
		SearchLimit: 5,
	})

	results, err := svc.Search(context.Background(), "sodium")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sodium", results[0].Name)
}

func TestSearch_RemoteError503(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := newTestService(t, core.ServiceConfig{APIBaseURL: server.URL})

	_, err := svc.Search(context.Background(), "sodium")
	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
}

func TestSearchAsync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":[]}`))
	}))
	defer server.Close()

	svc := newTestService(t, core.ServiceConfig{APIBaseURL: server.URL})

	select {
	case outcome := <-svc.SearchAsync(context.Background(), "sodium"):
		require.NoError(t, outcome.Err)
		assert.Empty(t, outcome.Results)
	case <-time.After(5 * time.Second):
		t.Fatal("search outcome never delivered")
	}
}

func TestModpackExportImport(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})

	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)
	require.NoError(t, svc.AddMod("Survival", domain.Mod{ID: "sodium", Name: "Sodium", Version: "0.5", Enabled: true}))
	require.NoError(t, svc.AddResourcePack("Survival", "faithful-32x"))

	original, err := svc.GetProfile("Survival")
	require.NoError(t, err)

	exportDir := t.TempDir()
	archivePath, err := svc.ExportModpack("Survival", exportDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(exportDir, "Survival-modpack.zip"), archivePath)

	// Importing under the same name collides.
	_, err = svc.ImportModpack(archivePath)
	assert.ErrorIs(t, err, domain.ErrProfileExists)

	// A second service (fresh data dir) imports it cleanly.
	other := newTestService(t, core.ServiceConfig{})
	imported, err := other.ImportModpack(archivePath)
	require.NoError(t, err)
	assert.Equal(t, original, imported)

	roundTrip, err := other.GetProfile("Survival")
	require.NoError(t, err)
	assert.Equal(t, original, roundTrip)
}

func TestImportModpack_TraversalName(t *testing.T) {
	dataDir := t.TempDir()
	svc := newTestService(t, core.ServiceConfig{DataDir: dataDir})

	// A hostile archive whose bundled profile names a directory outside
	// the data dir.
	archivePath := filepath.Join(t.TempDir(), "evil-modpack.zip")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	entry, err := zw.Create("profile.json")
	require.NoError(t, err)
	_, err = entry.Write([]byte(`{"name":"../../escape","game_id":"1.20.1"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = svc.ImportModpack(archivePath)
	assert.ErrorIs(t, err, domain.ErrInvalidArchive)

	// Nothing was written above the profiles directory.
	_, err = os.Stat(filepath.Join(dataDir, "escape"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(filepath.Dir(dataDir), "escape"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, svc.ListProfiles())
}

func TestImportModpack_InvalidArchive(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})

	bogus := filepath.Join(t.TempDir(), "bogus.zip")
	require.NoError(t, os.WriteFile(bogus, []byte("not a zip"), 0644))

	_, err := svc.ImportModpack(bogus)
	assert.ErrorIs(t, err, domain.ErrInvalidArchive)
}

type fakeAuthenticator struct {
	identity domain.Identity
	token    string
	err      error
}

func (f *fakeAuthenticator) Login(ctx context.Context) (*domain.Identity, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return &f.identity, f.token, nil
}

func TestLogin_PersistsToken(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})
	svc.SetAuthenticator(&fakeAuthenticator{
		identity: domain.Identity{Username: "steve", UUID: "uuid-1"},
		token:    "access-token",
	})

	identity, err := svc.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "steve", identity.Username)

	require.NoError(t, svc.Logout())
}

func TestLogin_NotConfigured(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})

	_, err := svc.Login(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestLogin_TokenFlowsIntoLaunch(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})
	svc.SetAuthenticator(&fakeAuthenticator{
		identity: domain.Identity{Username: "steve", UUID: "uuid-1"},
		token:    "access-token",
	})
	launcher := &fakeLauncher{}
	svc.SetLaunchBuilder(launcher)

	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)

	_, err = svc.Login(context.Background())
	require.NoError(t, err)

	loggedIn, err := svc.LoggedIn()
	require.NoError(t, err)
	assert.True(t, loggedIn)

	_, err = svc.LaunchCommand("Survival", domain.LaunchOptions{Username: "steve"})
	require.NoError(t, err)
	assert.Equal(t, "access-token", launcher.lastOpts.AccessToken)

	// After logout the token no longer flows in.
	require.NoError(t, svc.Logout())
	loggedIn, err = svc.LoggedIn()
	require.NoError(t, err)
	assert.False(t, loggedIn)

	_, err = svc.LaunchCommand("Survival", domain.LaunchOptions{Username: "steve"})
	require.NoError(t, err)
	assert.Empty(t, launcher.lastOpts.AccessToken)
}

func TestSetGameID(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})
	svc.SetLoaderInstaller(&fakeInstaller{version: "fabric-loader-0.15"})

	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)

	_, err = svc.InstallLoader(context.Background(), "Survival")
	require.NoError(t, err)

	require.NoError(t, svc.SetGameID("Survival", "1.21"))

	p, err := svc.GetProfile("Survival")
	require.NoError(t, err)
	assert.Equal(t, "1.21", p.GameID)
	// The loader was installed for the old version.
	assert.Empty(t, p.Config["loader_version"])

	assert.Error(t, svc.SetGameID("Survival", ""))
	assert.ErrorIs(t, svc.SetGameID("ghost", "1.21"), domain.ErrProfileNotFound)
}

type fakeInstaller struct{ version string }

func (f *fakeInstaller) Install(ctx context.Context, gameVersion, targetDir string) (string, error) {
	return f.version + "-" + gameVersion, nil
}

type fakeLauncher struct {
	lastOpts domain.LaunchOptions
}

func (f *fakeLauncher) Command(version, dir string, opts domain.LaunchOptions) ([]string, error) {
	f.lastOpts = opts
	return []string{"java", "-Xmx2048M", "--version", version, "--gameDir", dir}, nil
}

func TestInstallLoaderAndLaunch(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})
	svc.SetLoaderInstaller(&fakeInstaller{version: "fabric-loader-0.15"})
	svc.SetLaunchBuilder(&fakeLauncher{})

	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)

	version, err := svc.InstallLoader(context.Background(), "Survival")
	require.NoError(t, err)
	assert.Equal(t, "fabric-loader-0.15-1.20.1", version)

	// The installed loader version is recorded and used for launching.
	p, err := svc.GetProfile("Survival")
	require.NoError(t, err)
	assert.Equal(t, version, p.Config["loader_version"])

	argv, err := svc.LaunchCommand("Survival", domain.LaunchOptions{Username: "steve"})
	require.NoError(t, err)
	assert.Contains(t, argv, version)
}

func TestLaunchCommand_NotConfigured(t *testing.T) {
	svc := newTestService(t, core.ServiceConfig{})
	_, err := svc.CreateProfile("Survival", "1.20.1")
	require.NoError(t, err)

	_, err = svc.LaunchCommand("Survival", domain.LaunchOptions{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"modrith/internal/backup"
	"modrith/internal/domain"
	"modrith/internal/source/modrinth"
	"modrith/internal/storage/config"
	"modrith/internal/storage/db"
	"modrith/internal/storage/paths"
	"modrith/internal/storage/profiles"
	"modrith/internal/store"
)

// ServiceConfig holds configuration for the manager façade
type ServiceConfig struct {
	DataDir         string        // Root data directory
	APIBaseURL      string        // Mod index endpoint
	UserAgent       string        // Sent on every index request
	SearchLimit     int           // Result count limit per search
	SearchTimeout   time.Duration // Applied when the caller's context has no deadline
	DownloadWorkers int           // Concurrent mod downloads
	BackupExcludes  []string      // Glob patterns skipped when archiving
}

// Service is the manager façade: it composes the profile store, the
// persistence layer, the search client, and the backup service behind one
// entry point for a UI or CLI. The logger is injected; its lifecycle is
// owned by the caller.
type Service struct {
	logger     *zap.Logger
	layout     paths.Layout
	store      *store.Store
	search     *modrinth.Client
	backups    *backup.Service
	db         *db.DB
	downloader *Downloader

	searchLimit   int
	searchTimeout time.Duration

	installer domain.LoaderInstaller
	launcher  domain.LaunchBuilder
	auth      domain.Authenticator
}

// NewService builds the façade, creates the data directory tree, and
// eagerly loads every profile found on disk. A profile that fails to load
// is logged and skipped so one corrupt document cannot block the rest.
func NewService(cfg ServiceConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = config.DefaultAPIBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = config.DefaultSearchLimit
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = config.DefaultSearchTimeout
	}
	if cfg.DownloadWorkers <= 0 {
		cfg.DownloadWorkers = config.DefaultDownloadWorkers
	}

	layout := paths.New(cfg.DataDir)
	if err := layout.Ensure(); err != nil {
		return nil, fmt.Errorf("preparing data directory: %w", err)
	}

	backups, err := backup.New(layout, cfg.BackupExcludes)
	if err != nil {
		return nil, fmt.Errorf("configuring backups: %w", err)
	}

	database, err := db.New(layout.StateDB())
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	s := &Service{
		logger:        logger,
		layout:        layout,
		store:         store.New(layout),
		search:        modrinth.NewClient(&http.Client{}, cfg.APIBaseURL, cfg.UserAgent),
		backups:       backups,
		db:            database,
		downloader:    NewDownloader(layout, cfg.DownloadWorkers),
		searchLimit:   cfg.SearchLimit,
		searchTimeout: cfg.SearchTimeout,
	}

	s.loadProfiles()
	return s, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// loadProfiles scans the profiles directory and registers everything that
// loads cleanly. Corrupt documents are reported, never repaired or fatal.
func (s *Service) loadProfiles() {
	names, err := profiles.List(s.layout)
	if err != nil {
		s.logger.Error("scanning profiles directory", zap.Error(err))
		return
	}

	loaded := 0
	for _, name := range names {
		p, err := profiles.Load(s.layout, name)
		if err != nil {
			if errors.Is(err, domain.ErrCorruptProfile) {
				s.logger.Warn("skipping corrupt profile",
					zap.String("profile", name), zap.Error(err))
			} else {
				s.logger.Warn("skipping unreadable profile",
					zap.String("profile", name), zap.Error(err))
			}
			continue
		}
		s.store.Put(p)
		loaded++
	}

	s.logger.Info("profiles loaded", zap.Int("count", loaded), zap.Int("found", len(names)))
}

// validateProfileName rejects names that are empty or unsafe as a
// directory name.
func validateProfileName(name string) error {
	if name == "" {
		return errors.New("profile name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("profile name %q must not contain path separators", name)
	}
	return nil
}

// CreateProfile creates a named profile and persists it immediately.
func (s *Service) CreateProfile(name, gameID string) (*domain.Profile, error) {
	if err := validateProfileName(name); err != nil {
		return nil, err
	}
	if gameID == "" {
		return nil, errors.New("game id must not be empty")
	}

	p, err := s.store.Create(name, gameID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile created", zap.String("profile", name), zap.String("game", gameID))
	return p, nil
}

// GetProfile returns a copy of the named profile.
func (s *Service) GetProfile(name string) (*domain.Profile, error) {
	return s.store.Get(name)
}

// ListProfiles returns all profile names, sorted.
func (s *Service) ListProfiles() []string {
	return s.store.List()
}

// DeleteProfile removes the profile from disk and memory.
func (s *Service) DeleteProfile(name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	s.logger.Info("profile deleted", zap.String("profile", name))
	return nil
}

// ReloadProfile re-reads a profile document from disk and registers it,
// replacing any in-memory copy. This is how a restored backup becomes live.
func (s *Service) ReloadProfile(name string) (*domain.Profile, error) {
	p, err := profiles.Load(s.layout, name)
	if err != nil {
		return nil, err
	}
	s.store.Put(p)
	return p, nil
}

// AddMod adds a mod to a profile; its id is appended to the load order.
func (s *Service) AddMod(profileName string, mod domain.Mod) error {
	if err := validateProfileName(profileName); err != nil {
		return err
	}
	if mod.ID == "" {
		return errors.New("mod id must not be empty")
	}
	return s.store.AddMod(profileName, mod)
}

// RemoveMod removes a mod from the profile's mod set and load order.
func (s *Service) RemoveMod(profileName, modID string) error {
	if modID == "" {
		return errors.New("mod id must not be empty")
	}
	return s.store.RemoveMod(profileName, modID)
}

// Reorder replaces a profile's load order with a permutation of its mod ids.
func (s *Service) Reorder(profileName string, newOrder []string) error {
	return s.store.Reorder(profileName, newOrder)
}

// EnableMod marks a mod active in the profile.
func (s *Service) EnableMod(profileName, modID string) error {
	return s.store.SetModEnabled(profileName, modID, true)
}

// DisableMod marks a mod inactive without removing it.
func (s *Service) DisableMod(profileName, modID string) error {
	return s.store.SetModEnabled(profileName, modID, false)
}

// SetGameID switches a profile to a different game version. Installed
// loader state is tied to the old version, so the recorded loader_version
// is cleared.
func (s *Service) SetGameID(profileName, gameID string) error {
	if gameID == "" {
		return errors.New("game id must not be empty")
	}
	if err := s.store.SetGameID(profileName, gameID); err != nil {
		return err
	}
	if err := s.store.SetConfigValue(profileName, "loader_version", ""); err != nil {
		return err
	}
	s.logger.Info("game version switched",
		zap.String("profile", profileName), zap.String("game", gameID))
	return nil
}

// SetConfigValue sets one key in a profile's free-form configuration.
func (s *Service) SetConfigValue(profileName, key, value string) error {
	if key == "" {
		return errors.New("config key must not be empty")
	}
	return s.store.SetConfigValue(profileName, key, value)
}

// AddResourcePack appends a resource pack reference to a profile.
func (s *Service) AddResourcePack(profileName, pack string) error {
	if pack == "" {
		return errors.New("resource pack must not be empty")
	}
	return s.store.AddResourcePack(profileName, pack)
}

// AddDataPack appends a data pack reference to a profile.
func (s *Service) AddDataPack(profileName, pack string) error {
	if pack == "" {
		return errors.New("data pack must not be empty")
	}
	return s.store.AddDataPack(profileName, pack)
}

// Search runs one query against the mod index. When the caller's context
// carries no deadline the configured search timeout is applied.
func (s *Service) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}
	return s.search.Search(ctx, query, s.searchLimit)
}

// GetModInfo fetches detail for one mod from the index.
func (s *Service) GetModInfo(ctx context.Context, id string) (*domain.SearchResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}
	return s.search.GetProject(ctx, id)
}

// Backup archives the profile directory and records the event.
func (s *Service) Backup(profileName string) (string, error) {
	if err := validateProfileName(profileName); err != nil {
		return "", err
	}

	archivePath, err := s.backups.Backup(profileName)
	if err != nil {
		return "", err
	}

	if err := s.db.RecordEvent("backup", profileName, archivePath); err != nil {
		s.logger.Warn("recording backup event", zap.Error(err))
	}
	s.logger.Info("profile backed up",
		zap.String("profile", profileName), zap.String("archive", archivePath))
	return archivePath, nil
}

// Restore unpacks a backup archive into the profiles directory and returns
// the profile name. Any stale in-memory copy is dropped; call ReloadProfile
// to make the restored profile live.
func (s *Service) Restore(archivePath string) (string, error) {
	name, err := backup.Restore(s.layout, archivePath)
	if err != nil {
		return "", err
	}
	s.store.Forget(name)

	if err := s.db.RecordEvent("restore", name, archivePath); err != nil {
		s.logger.Warn("recording restore event", zap.Error(err))
	}
	s.logger.Info("profile restored",
		zap.String("profile", name), zap.String("archive", archivePath))
	return name, nil
}

// ListBackups returns the profile names of all backup archives.
func (s *Service) ListBackups() ([]string, error) {
	return s.backups.List()
}

// History returns the most recent recorded operations, newest first.
func (s *Service) History(limit int) ([]db.Event, error) {
	return s.db.RecentEvents(limit)
}

// DownloadMod fetches one mod file of a profile into the downloads
// directory, verifying the recorded checksum when present.
func (s *Service) DownloadMod(ctx context.Context, profileName, modID string) (string, error) {
	p, err := s.store.Get(profileName)
	if err != nil {
		return "", err
	}
	mod, ok := p.Mods[modID]
	if !ok {
		return "", fmt.Errorf("downloading mod %q from %q: %w", modID, profileName, domain.ErrModNotFound)
	}

	path, err := s.downloader.Fetch(ctx, mod)
	if err != nil {
		return "", err
	}

	if err := s.db.RecordEvent("download", profileName, modID); err != nil {
		s.logger.Warn("recording download event", zap.Error(err))
	}
	return path, nil
}

// DownloadProfile fetches every enabled mod of a profile concurrently.
func (s *Service) DownloadProfile(ctx context.Context, profileName string) ([]string, error) {
	p, err := s.store.Get(profileName)
	if err != nil {
		return nil, err
	}

	downloaded, err := s.downloader.FetchProfile(ctx, p)
	if err != nil {
		return downloaded, err
	}

	if err := s.db.RecordEvent("download", profileName, fmt.Sprintf("%d files", len(downloaded))); err != nil {
		s.logger.Warn("recording download event", zap.Error(err))
	}
	return downloaded, nil
}

// SetLoaderInstaller injects the mod-loader installer collaborator.
func (s *Service) SetLoaderInstaller(installer domain.LoaderInstaller) {
	s.installer = installer
}

// SetLaunchBuilder injects the launch command builder collaborator.
func (s *Service) SetLaunchBuilder(launcher domain.LaunchBuilder) {
	s.launcher = launcher
}

// SetAuthenticator injects the login flow collaborator.
func (s *Service) SetAuthenticator(auth domain.Authenticator) {
	s.auth = auth
}

// InstallLoader installs the mod loader for a profile's game version into
// the profile directory and records the resulting version id in the
// profile configuration.
func (s *Service) InstallLoader(ctx context.Context, profileName string) (string, error) {
	if s.installer == nil {
		return "", fmt.Errorf("installing loader: %w", domain.ErrNotConfigured)
	}

	p, err := s.store.Get(profileName)
	if err != nil {
		return "", err
	}

	version, err := s.installer.Install(ctx, p.GameID, s.layout.ProfileDir(profileName))
	if err != nil {
		return "", fmt.Errorf("installing loader for %q: %w", profileName, err)
	}

	if err := s.store.SetConfigValue(profileName, "loader_version", version); err != nil {
		return "", err
	}
	s.logger.Info("loader installed",
		zap.String("profile", profileName), zap.String("version", version))
	return version, nil
}

// LaunchCommand builds the argv for launching a profile.
func (s *Service) LaunchCommand(profileName string, opts domain.LaunchOptions) ([]string, error) {
	if s.launcher == nil {
		return nil, fmt.Errorf("building launch command: %w", domain.ErrNotConfigured)
	}

	p, err := s.store.Get(profileName)
	if err != nil {
		return nil, err
	}

	version := p.GameID
	if v, ok := p.Config["loader_version"]; ok && v != "" {
		version = v
	}

	// A token persisted by Login is picked up unless the caller brought
	// their own.
	if opts.AccessToken == "" {
		if stored, err := s.db.GetToken(accountService); err == nil && stored != nil {
			opts.AccessToken = stored.Token
		}
	}

	return s.launcher.Command(version, s.layout.ProfileDir(profileName), opts)
}

// accountService is the token slot for the game account login.
const accountService = "account"

// Login runs the account login flow and persists the returned token.
func (s *Service) Login(ctx context.Context) (*domain.Identity, error) {
	if s.auth == nil {
		return nil, fmt.Errorf("logging in: %w", domain.ErrNotConfigured)
	}

	identity, token, err := s.auth.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if err := s.db.SaveToken(accountService, token); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", zap.String("username", identity.Username))
	return identity, nil
}

// Logout removes the persisted account token.
func (s *Service) Logout() error {
	return s.db.DeleteToken(accountService)
}

// LoggedIn reports whether an account token is persisted.
func (s *Service) LoggedIn() (bool, error) {
	stored, err := s.db.GetToken(accountService)
	if err != nil {
		return false, err
	}
	return stored != nil, nil
}

// Layout exposes the data directory layout to the CLI.
func (s *Service) Layout() paths.Layout {
	return s.layout
}

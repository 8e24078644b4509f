package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/creditscope/creditscope/internal/utils"
	"github.com/creditscope/creditscope/pkg/catalog"
	"github.com/creditscope/creditscope/pkg/credits"
	"github.com/creditscope/creditscope/pkg/module"
	"github.com/creditscope/creditscope/pkg/planning"
	"github.com/creditscope/creditscope/pkg/program"
	"github.com/creditscope/creditscope/pkg/semester"
	"github.com/creditscope/creditscope/pkg/settings"
	"github.com/creditscope/creditscope/pkg/storage"
	"github.com/spf13/viper"
)

// app bundles what every command needs: the store, the settings manager
// and the catalog.
type app struct {
	backend storage.Backend
	manager *settings.Manager
	catalog *catalog.Catalog
	lock    *utils.DBLock
}

// openApp opens the configured backend and loads settings and the local
// cache. With write set, the database lock is held until close.
func openApp(ctx context.Context, write bool) (*app, error) {
	dbPath, err := utils.GetAbsDBPath(viper.GetString("storage.path"))
	if err != nil {
		return nil, err
	}

	a := &app{}
	if write {
		if err := utils.EnsureDBDir(dbPath); err != nil {
			return nil, err
		}
		if a.lock, err = utils.NewDBLock(dbPath); err != nil {
			return nil, err
		}
		if err := a.lock.Lock(); err != nil {
			return nil, err
		}
	}

	if a.backend, err = openBackend(ctx, dbPath); err != nil {
		a.close()
		return nil, err
	}
	if a.catalog, err = loadCatalog(); err != nil {
		a.close()
		return nil, err
	}

	a.manager = settings.NewManager(a.backend)
	pruned, err := a.manager.Load(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	if pruned > 0 {
		utils.Log.Infof("Removed %d plan(s) for semesters that already started", pruned)
	}
	if err := a.manager.LoadLocal(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func openBackend(ctx context.Context, dbPath string) (storage.Backend, error) {
	switch backend := strings.ToLower(viper.GetString("storage.backend")); backend {
	case "", "sqlite":
		if err := utils.EnsureDBDir(dbPath); err != nil {
			return nil, err
		}
		utils.Log.Debugf("Using sqlite database %s", dbPath)
		return storage.Open(dbPath)
	case "redis":
		cfg := storage.DefaultRedisConfig()
		cfg.Addr = viper.GetString("redis.addr")
		cfg.Password = viper.GetString("redis.password")
		cfg.DB = viper.GetInt("redis.db")
		cfg.Prefix = viper.GetString("redis.prefix")
		utils.Log.Debugf("Using redis at %s", cfg.Addr)
		return storage.OpenRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage.backend %q (expected sqlite or redis)", backend)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	if path := viper.GetString("catalog.path"); path != "" {
		utils.Log.Debugf("Loading catalog from %s", path)
		return catalog.Load(path)
	}
	return catalog.Default()
}

func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			utils.Log.Warnf("Closing storage: %v", err)
		}
	}
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil {
			utils.Log.Warnf("Releasing lock: %v", err)
		}
	}
}

// view is a snapshot of everything the read-only commands display.
type view struct {
	settings settings.Settings
	local    settings.LocalData
	modules  []module.Module
	program  program.Program
	major    *program.Major
	viewing  semester.Semester
	current  semester.Semester
	resolver credits.Resolver
}

func (a *app) view() view {
	s := a.manager.Settings()
	local := a.manager.Local()
	now := time.Now()
	return view{
		settings: s,
		local:    local,
		modules:  settings.UserModules(local.Modules, s),
		program:  s.EffectiveProgram(local),
		major:    s.EffectiveMajor(local),
		viewing:  s.ViewingSemester(now),
		current:  semester.FromDate(now),
		resolver: credits.NewResolver(a.catalog, s),
	}
}

func (v view) typeOf(m module.Module) module.Type {
	return v.resolver.Resolve(v.viewing, m, v.program, v.major)
}

func durations() planning.Durations {
	return planning.Durations{
		FullTime: viper.GetInt("planning.fulltime_semesters"),
		PartTime: viper.GetInt("planning.parttime_semesters"),
	}
}

func majorName(m *program.Major) string {
	if m == nil {
		return "-"
	}
	return m.Name()
}

func optionalCredits(v *float64) string {
	if v == nil {
		return "-"
	}
	return utils.FormatCredits(*v)
}

func optionalGrade(g *string) string {
	if g == nil || *g == "" {
		return "-"
	}
	return *g
}

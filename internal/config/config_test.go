package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/scheduler"
	"herald/internal/storage"
)

func sections(m map[string]map[string]interface{}) SectionFunc {
	return func(name string) map[string]interface{} { return m[name] }
}

func TestFromSectionsDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")

	cfg, err := FromSections(sections(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, storage.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, DefaultStorageDir, cfg.Storage.Dir)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, scheduler.DefaultSyncSpec, cfg.Scheduler.SyncSpec)
	assert.Equal(t, scheduler.DefaultSendTimeout, cfg.Scheduler.SendTimeout)
	assert.False(t, cfg.Scheduler.SubstituteVars)
	assert.Empty(t, cfg.Groups)
}

func TestFromSectionsParameterStoreShape(t *testing.T) {
	t.Setenv("SERVER_PORT", "")

	cfg, err := FromSections(sections(map[string]map[string]interface{}{
		"server":  {"Port": 8080},
		"storage": {"Driver": "mysql", "Table": "herald"},
		"repository": {
			"User":     "herald",
			"Password": "secret",
			"Endpoint": "db.internal",
			"Port":     3306,
			"Database": "herald",
		},
		"slack":     {"BotToken": "xoxb-test", "DryRun": "true"},
		"scheduler": {"SendTimeout": 10, "SubstituteVars": true, "Timezone": "Asia/Seoul"},
		"groups":    {"100": "C100,C101"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Storage.MySQL.Endpoint)
	assert.Equal(t, "herald", cfg.Storage.Table)
	assert.True(t, cfg.Slack.DryRun)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.SendTimeout)
	assert.Equal(t, map[int64][]string{100: {"C100", "C101"}}, cfg.Groups)

	opts, err := cfg.SchedulerOptions()
	require.NoError(t, err)
	assert.True(t, opts.SubstituteVars)
	assert.Equal(t, "Asia/Seoul", opts.Location.String())
}

func TestFromSectionsRejectsInvalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "")

	cases := map[string]map[string]map[string]interface{}{
		"unknown driver":     {"storage": {"Driver": "bogus"}},
		"file without dir":   {"storage": {"Driver": "file", "Dir": ""}},
		"mysql without host": {"storage": {"Driver": "mysql"}},
		"bad port":           {"server": {"Port": "http"}},
		"bad timeout":        {"scheduler": {"SendTimeout": "soon"}},
		"bad group":          {"groups": {"abc": "C1"}},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromSections(sections(m))
			assert.Error(t, err)
		})
	}
}

func TestServerPortEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "4000")

	cfg, err := FromSections(sections(map[string]map[string]interface{}{"server": {"Port": 8080}}))
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "")

	path := filepath.Join(t.TempDir(), "herald.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 3100
storage:
  driver: memory
slack:
  dryrun: true
scheduler:
  syncspec: "@every 30s"
  sendtimeout: 5s
groups:
  "100":
    - C100
    - C101
  "200": C200
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3100, cfg.Server.Port)
	assert.Equal(t, storage.DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Slack.DryRun)
	assert.Equal(t, "@every 30s", cfg.Scheduler.SyncSpec)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.SendTimeout)
	assert.Equal(t, map[int64][]string{100: {"C100", "C101"}, 200: {"C200"}}, cfg.Groups)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestServerPortEnvMustBeNumeric(t *testing.T) {
	t.Setenv("SERVER_PORT", "http")

	_, err := FromSections(sections(nil))
	assert.Error(t, err)
}

func TestFromSectionsDurationForms(t *testing.T) {
	t.Setenv("SERVER_PORT", "")

	for raw, want := range map[interface{}]time.Duration{
		"45s": 45 * time.Second,
		"1m":  time.Minute,
		"15":  15 * time.Second,
		2.5:   2500 * time.Millisecond,
		3:     3 * time.Second,
	} {
		cfg, err := FromSections(sections(map[string]map[string]interface{}{
			"scheduler": {"sendTimeout": raw},
		}))
		require.NoError(t, err)
		assert.Equal(t, want, cfg.Scheduler.SendTimeout, "raw=%v", raw)
	}
}

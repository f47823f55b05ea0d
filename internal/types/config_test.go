package types

import (
	"os"
	"path/filepath"
)

const sampleConfigYAML = `
port: 9090
source:
  backend: ytmusic
  seed:
    playlist_id: RDCLAK5uy_test
  ytmusic:
    base_url: http://127.0.0.1:1080
    hl: en
    gl: US
cache:
  backend: memory
  ttl_seconds: 30
session:
  idle_seconds: 60
`

func (s *UnitTestSuite) writeConfig(content string) string {
	path := filepath.Join(s.T().TempDir(), "discoveryd.yml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *UnitTestSuite) TestLoadServiceConfig() {
	cfg, err := LoadServiceConfig(s.writeConfig(sampleConfigYAML))
	s.Require().NoError(err)
	s.Equal(9090, cfg.Port)
	s.Equal(SourceYTMusic, cfg.Source.Backend)
	s.Equal("RDCLAK5uy_test", cfg.Source.Seed.PlaylistID)
	s.Equal("http://127.0.0.1:1080", cfg.Source.YTMusic.BaseURL)
	s.Equal(30, cfg.Cache.TTLSeconds)
	s.Equal(60, cfg.Session.IdleSeconds)

	// Defaults kick in for everything the file leaves out.
	s.Equal(DefaultUpstreamTimeoutSec, cfg.Source.YTMusic.TimeoutSeconds)
	s.Equal(DefaultCatalogPageSize, cfg.Source.Catalog.PageSize)
}

func (s *UnitTestSuite) TestLoadServiceConfigDefaults() {
	cfg, err := LoadServiceConfig(s.writeConfig("{}"))
	s.Require().NoError(err)
	s.Equal(DefaultPort, cfg.Port)
	s.Equal(SourceYTMusic, cfg.Source.Backend)
	s.Equal(CacheMemory, cfg.Cache.Backend)
	s.Equal(DefaultSessionIdleSeconds, cfg.Session.IdleSeconds)
}

func (s *UnitTestSuite) TestLoadServiceConfigRejectsBadInput() {
	_, err := LoadServiceConfig(filepath.Join(s.T().TempDir(), "missing.yml"))
	s.ErrorIs(err, ErrInvalidConfig)

	_, err = LoadServiceConfig(s.writeConfig("port: [nope"))
	s.ErrorIs(err, ErrInvalidConfig)

	_, err = LoadServiceConfig(s.writeConfig("source:\n  backend: gopher\n"))
	s.ErrorIs(err, ErrInvalidConfig)

	// Catalog backend without a table name is unusable.
	_, err = LoadServiceConfig(s.writeConfig("source:\n  backend: catalog\n"))
	s.ErrorIs(err, ErrInvalidConfig)
}

func (s *UnitTestSuite) TestValidate() {
	cfg := ServiceConfig{
		Port:    8080,
		Source:  SourceConfig{Backend: SourceCatalog, Catalog: CatalogConfig{Table: "discovery_catalog"}},
		Cache:   CacheConfig{Backend: CacheRedis, TTLSeconds: 120},
		Session: SessionConfig{IdleSeconds: 300},
	}
	s.NoError(cfg.Validate())

	bad := cfg
	bad.Port = -1
	s.Error(bad.Validate())

	bad = cfg
	bad.Cache.Backend = "disk"
	s.Error(bad.Validate())

	bad = cfg
	bad.Cache.TTLSeconds = -5
	s.Error(bad.Validate())
}

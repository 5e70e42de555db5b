package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefault() {
	cfg := Default()
	s.Equal(85, cfg.FuzzyThreshold)
	s.Equal(5, cfg.SearchWorkers)
	s.Equal(1000, cfg.RateLimit)
	s.Equal(300*time.Second, cfg.RateWindow)
	s.Equal("info", cfg.LogLevel)
}

func (s *ConfigSuite) TestFromEnv() {
	s.T().Setenv("GEONAMES_USER", "envuser")
	s.T().Setenv("RORCHECK_LOG_LEVEL", "debug")

	cfg := FromEnv()
	s.Equal("envuser", cfg.GeonamesUser)
	s.Equal("debug", cfg.LogLevel)
}

func (s *ConfigSuite) TestLoadFile() {
	s.Run("overrides apply on top of defaults", func() {
		path := filepath.Join(s.T().TempDir(), "overrides.yaml")
		require.NoError(s.T(), os.WriteFile(path, []byte(
			"fuzzy_threshold: 90\nsearch_workers: 2\nrate_window: 60s\n",
		), 0o644))

		cfg := Default()
		s.Require().NoError(cfg.LoadFile(path))
		s.Equal(90, cfg.FuzzyThreshold)
		s.Equal(2, cfg.SearchWorkers)
		s.Equal(time.Minute, cfg.RateWindow)
		s.Equal(1000, cfg.RateLimit, "untouched knobs keep their defaults")
	})

	s.Run("missing file errors", func() {
		cfg := Default()
		s.Error(cfg.LoadFile(filepath.Join(s.T().TempDir(), "absent.yaml")))
	})

	s.Run("unparsable rate_window errors", func() {
		path := filepath.Join(s.T().TempDir(), "overrides.yaml")
		require.NoError(s.T(), os.WriteFile(path, []byte("rate_window: fast\n"), 0o644))
		s.Error(Default().LoadFile(path))
	})

	s.Run("malformed yaml errors", func() {
		path := filepath.Join(s.T().TempDir(), "bad.yaml")
		require.NoError(s.T(), os.WriteFile(path, []byte("fuzzy_threshold: [oops"), 0o644))
		s.Error(Default().LoadFile(path))
	})
}

package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// feedsFile is the YAML shape of a feed list:
//
//	feeds:
//	  - https://example.com/rss
type feedsFile struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeedsFile reads a YAML feed list from disk.
func LoadFeedsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feeds file %s: %w", path, err)
	}
	defer f.Close()

	var cfg feedsFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file %s: %w", path, err)
	}
	if len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s lists no feeds", path)
	}
	return cfg.Feeds, nil
}

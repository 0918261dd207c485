package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable holding an explicit config path.
const ConfigEnv = "SITELINKS_CONFIG"

// AppName is the directory name used under the XDG config home.
const AppName = "sitelinks"

// DefaultConfigPaths returns the config files consulted when --config is
// not given: $SITELINKS_CONFIG if set, otherwise config.yaml in the XDG
// config directory.
func DefaultConfigPaths() []string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return []string{path}
	}
	return []string{filepath.Join(xdg.ConfigHome, AppName, "config.yaml")}
}

// YAMLConfig is a kong.ConfigurationLoader for YAML files.
//
// Keys match flag names, with dashes or underscores. Command flags may also
// be nested under the command name:
//
//	user_agent: my-crawler/1.0
//	timeout: 30s
//	serve:
//	  addr: 0.0.0.0:4001
//	  db: /var/lib/sitelinks/history.db
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			return v, nil
		}
		return nil, nil
	}
	return resolver, nil
}

func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	v, ok := values[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}

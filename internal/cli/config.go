package cli

import (
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/xxxsen/s3drop/internal/config"
)

var defaultKeyList = []string{
	"./config.json",
	"~/.s3drop/config.json",
	"/etc/s3drop.json",
}

var loadedCfg *config.Config

// LoadConfig resolves configuration with the usual precedence: the explicit
// path first, then the default search list. Tilde prefixes are expanded
// against the current user's home directory.
func LoadConfig(explicit string) (*config.Config, error) {
	paths := make([]string, 0, len(defaultKeyList)+1)
	if explicit != "" {
		paths = append(paths, explicit)
	}
	for _, p := range defaultKeyList {
		expanded, err := homedir.Expand(p)
		if err != nil {
			continue
		}
		paths = append(paths, expanded)
	}
	return config.LoadFirst(paths...)
}

func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if loadedCfg != nil {
		return loadedCfg, nil
	}
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		explicit = ""
	}
	cfg, err := LoadConfig(explicit)
	if err != nil {
		return nil, err
	}
	loadedCfg = cfg
	return cfg, nil
}

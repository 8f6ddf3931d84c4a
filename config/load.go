package config

import "github.com/fox-one/pkg/config"

// Load load config file
func Load(cfgFile string, cfg *Config) error {
	config.AutomaticLoadEnv("ANCHOR")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaultApp(cfg)
	return nil
}

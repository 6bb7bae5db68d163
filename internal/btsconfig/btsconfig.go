// Package btsconfig loads the BTS's YAML configuration document and
// exposes the CLI flags that override it. Configuration loading is
// deliberately an external collaborator: it chooses gopkg.in/yaml.v3 +
// github.com/spf13/pflag (both already used elsewhere in this tree).
//
// Grounded on appserver.go's pflag usage pattern (StringP/
// BoolP with a short flag, a custom Usage func) and config.go's
// "read once at startup, no persisted state" contract.
package btsconfig

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Trx is one transceiver's static configuration.
type Trx struct {
	Arfcn       int    `yaml:"arfcn"`
	MaxPowerDbm int    `yaml:"max_power_dbm"`
	Band        string `yaml:"band"`
}

// Bts is one BTS's static configuration.
type Bts struct {
	Name string `yaml:"name"`
	Trx  []Trx  `yaml:"trx"`
}

// Config is the root of the YAML configuration document.
type Config struct {
	OmlBindAddr  string `yaml:"oml_bind_addr"`
	OmlPort      int    `yaml:"oml_port"`
	RslPort      int    `yaml:"rsl_port"`
	PcuSocket    string `yaml:"pcu_socket"`
	VtyPort      int    `yaml:"vty_port"`
	GsmtapSink   string `yaml:"gsmtap_sink"`
	LogLevel     string `yaml:"log_level"`
	MeasLogDir   string `yaml:"meas_log_dir"`
	Bts          []Bts  `yaml:"bts"`
}

// Defaults returns a Config pre-populated with the port/path defaults a
// freshly installed btsd should use.
func Defaults() Config {
	return Config{
		OmlBindAddr: "0.0.0.0",
		OmlPort:     3002,
		RslPort:     3003,
		PcuSocket:   "/tmp/pcu_bts",
		VtyPort:     4241,
		LogLevel:    "info",
	}
}

// Load reads and parses a YAML configuration file, starting from
// Defaults so unset fields keep their default value.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("btsconfig: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("btsconfig: parsing %q: %w", path, err)
	}
	return cfg, nil
}

// Flags is the set of CLI overrides accepted by cmd/btsd.
type Flags struct {
	ConfigPath string
	BindAddr   string
	LogLevel   string
	Help       bool
}

// ParseFlags registers and parses the common CLI flags, following
// appserver.go's style (short+long flag pairs, a custom Usage).
func ParseFlags(args []string) Flags {
	fs := pflag.NewFlagSet("btsd", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "/etc/osmo-bts/osmo-bts.yaml", "Path to the YAML configuration file.")
	bindAddr := fs.StringP("bind", "b", "", "Override the OML bind address.")
	logLevel := fs.StringP("log-level", "l", "", "Override the configured log level.")
	help := fs.BoolP("help", "h", false, "Display help text.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fs.PrintDefaults()
	}

	_ = fs.Parse(args)
	if *help {
		fs.Usage()
	}

	return Flags{ConfigPath: *configPath, BindAddr: *bindAddr, LogLevel: *logLevel, Help: *help}
}

// Apply overlays non-empty flag overrides onto cfg.
func Apply(cfg Config, f Flags) Config {
	if f.BindAddr != "" {
		cfg.OmlBindAddr = f.BindAddr
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	return cfg
}

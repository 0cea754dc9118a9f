package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

const (
	FileName = "config.toml"

	BackendGoLevelDB = "goleveldb"
	BackendMemDB     = "memdb"
)

var (
	globalConfig configData
	home         = DefaultHome()
	mu           sync.RWMutex
)

type configData struct {
	Ledger ledgerConfig `toml:"ledger"`
	Oracle oracleConfig `toml:"oracle"`
	Worker workerConfig `toml:"worker"`
	API    apiConfig    `toml:"api"`
	Log    logConfig    `toml:"log"`
}

type ledgerConfig struct {
	Dir     string `toml:"dir"`
	Backend string `toml:"backend"`
}

type oracleConfig struct {
	ProgramID         string `toml:"program_id"`
	ConsumerProgramID string `toml:"consumer_program_id"`
	Account           string `toml:"account"`
	Layout            string `toml:"layout"`
}

type workerConfig struct {
	Workers      int    `toml:"workers"`
	QueueSize    int    `toml:"queue_size"`
	PollInterval string `toml:"poll_interval"`
	HTTPTimeout  string `toml:"http_timeout"`
}

type apiConfig struct {
	Enable      bool     `toml:"enable"`
	Listen      string   `toml:"listen"`
	CORSOrigins []string `toml:"cors_origins"`
}

type logConfig struct {
	Level string `toml:"level"`
	File  bool   `toml:"file"`
}

// DefaultHome is ~/.oracled.
func DefaultHome() string {
	osHome, err := os.UserHomeDir()
	if err != nil {
		return ".oracled"
	}
	return filepath.Join(osHome, ".oracled")
}

func SetHome(dir string) {
	mu.Lock()
	defer mu.Unlock()
	home = dir
}

func Home() string {
	mu.RLock()
	defer mu.RUnlock()
	return home
}

func Path() string {
	return filepath.Join(Home(), FileName)
}

func defaultConfig(layout oracletypes.Layout) configData {
	return configData{
		Ledger: ledgerConfig{
			Dir:     "data",
			Backend: BackendGoLevelDB,
		},
		Oracle: oracleConfig{
			ProgramID:         ttptypes.DeriveAddress("ttp-oracle/program/oracle").String(),
			ConsumerProgramID: ttptypes.DeriveAddress("ttp-oracle/program/consumer").String(),
			Account:           ttptypes.DeriveAddress("ttp-oracle/account/oracle").String(),
			Layout:            layout.String(),
		},
		Worker: workerConfig{
			Workers:      4,
			QueueSize:    1 << 10,
			PollInterval: "2s",
			HTTPTimeout:  "30s",
		},
		API: apiConfig{
			Enable:      true,
			Listen:      "127.0.0.1:8645",
			CORSOrigins: []string{"*"},
		},
		Log: logConfig{
			Level: "info",
			File:  false,
		},
	}
}

// Init writes a default config for layout unless one already exists.
func Init(layout oracletypes.Layout) (bool, error) {
	path := Path()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := createDefaultConfig(path, layout); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads <home>/config.toml, creating a default one if missing.
func Load() error {
	path := Path()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path, oracletypes.LayoutSentinel); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded configData
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}

	if err := validateConfig(loaded); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	mu.Lock()
	globalConfig = loaded
	mu.Unlock()

	log.Infof("Loaded config from %s", path)
	return nil
}

func createDefaultConfig(path string, layout oracletypes.Layout) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfg := defaultConfig(layout)
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal TOML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	mu.Lock()
	globalConfig = cfg
	mu.Unlock()
	return nil
}

// Validate checks the loaded config.
func Validate() error {
	mu.RLock()
	defer mu.RUnlock()
	return validateConfig(globalConfig)
}

func validateConfig(c configData) error {
	if c.Ledger.Dir == "" {
		return fmt.Errorf("ledger dir is required")
	}

	switch c.Ledger.Backend {
	case BackendGoLevelDB, BackendMemDB:
	default:
		return fmt.Errorf("unsupported ledger backend %q", c.Ledger.Backend)
	}

	for name, addr := range map[string]string{
		"oracle program id":   c.Oracle.ProgramID,
		"consumer program id": c.Oracle.ConsumerProgramID,
		"oracle account":      c.Oracle.Account,
	} {
		if _, err := ttptypes.ParseAddress(addr); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if _, err := oracletypes.ParseLayout(c.Oracle.Layout); err != nil {
		return err
	}

	if c.Worker.Workers <= 0 {
		return fmt.Errorf("worker count must be positive")
	}

	if c.Worker.QueueSize <= 0 {
		return fmt.Errorf("worker queue size must be positive")
	}

	for name, v := range map[string]string{
		"poll interval": c.Worker.PollInterval,
		"http timeout":  c.Worker.HTTPTimeout,
	} {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if c.API.Enable && c.API.Listen == "" {
		return fmt.Errorf("api listen address is required")
	}

	return nil
}

func Print() {
	log.Infof("%-15s: %s", "Home", Home())
	log.Infof("%-15s: %s (%s)", "Ledger", LedgerDir(), LedgerBackend())
	log.Infof("%-15s: %s", "Oracle Program", OracleProgram())
	log.Infof("%-15s: %s", "Consumer", ConsumerProgram())
	log.Infof("%-15s: %s (%s)", "Oracle Account", OracleAccount(), Layout())
	log.Infof("%-15s: %d", "Workers", Workers())
	log.Infof("%-15s: %s", "Poll Interval", PollInterval())
	log.Infof("%-15s: %s", "HTTP Timeout", HTTPTimeout())
	log.Infof("%-15s: %t %s", "API", APIEnabled(), APIListen())
	log.Infof("%-15s: %s", "Log Level", LogLevel())
}

// String renders the effective config as TOML.
func String() string {
	mu.RLock()
	defer mu.RUnlock()
	data, err := toml.Marshal(globalConfig)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// LedgerDir is the ledger database directory; relative paths are resolved against home.
func LedgerDir() string {
	mu.RLock()
	dir := globalConfig.Ledger.Dir
	mu.RUnlock()

	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(Home(), dir)
}

func LedgerBackend() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig.Ledger.Backend
}

func mustAddress(s string) ttptypes.Address {
	addr, err := ttptypes.ParseAddress(s)
	if err != nil {
		log.Fatalf("Invalid address in config: %v", err)
	}
	return addr
}

func OracleProgram() ttptypes.Address {
	mu.RLock()
	defer mu.RUnlock()
	return mustAddress(globalConfig.Oracle.ProgramID)
}

func ConsumerProgram() ttptypes.Address {
	mu.RLock()
	defer mu.RUnlock()
	return mustAddress(globalConfig.Oracle.ConsumerProgramID)
}

func OracleAccount() ttptypes.Address {
	mu.RLock()
	defer mu.RUnlock()
	return mustAddress(globalConfig.Oracle.Account)
}

func Layout() oracletypes.Layout {
	mu.RLock()
	defer mu.RUnlock()
	l, _ := oracletypes.ParseLayout(globalConfig.Oracle.Layout)
	return l
}

func Workers() int {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig.Worker.Workers
}

func ChannelSize() int {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig.Worker.QueueSize
}

func PollInterval() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return cast.ToDuration(globalConfig.Worker.PollInterval)
}

func HTTPTimeout() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return cast.ToDuration(globalConfig.Worker.HTTPTimeout)
}

func APIEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig.API.Enable
}

func APIListen() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig.API.Listen
}

func CORSOrigins() []string {
	mu.RLock()
	defer mu.RUnlock()
	return append([]string(nil), globalConfig.API.CORSOrigins...)
}

func LogLevel() string {
	mu.RLock()
	defer mu.RUnlock()
	return strings.ToLower(globalConfig.Log.Level)
}

func LogToFile() bool {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig.Log.File
}

// SetLogLevel overrides the configured level, e.g. from a command line flag.
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig.Log.Level = level
}

// SetForTesting installs an in-memory config rooted at dir.
func SetForTesting(dir string, layout oracletypes.Layout, pollInterval time.Duration, apiListen string) {
	cfg := defaultConfig(layout)
	cfg.Ledger.Backend = BackendMemDB
	cfg.Worker.Workers = 2
	cfg.Worker.PollInterval = pollInterval.String()
	cfg.Worker.HTTPTimeout = "5s"
	cfg.API.Enable = apiListen != ""
	cfg.API.Listen = apiListen
	cfg.Log.Level = "debug"

	mu.Lock()
	defer mu.Unlock()
	home = dir
	globalConfig = cfg
}

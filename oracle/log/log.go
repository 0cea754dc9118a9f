package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	tmlog "github.com/tendermint/tendermint/libs/log"
)

var customLog = newLogger(os.Stdout)

type logger struct {
	mu     sync.RWMutex
	root   tmlog.Logger
	logger tmlog.Logger
	level  string
	dir    string
	file   *os.File
}

func newLogger(w io.Writer) *logger {
	root := tmlog.NewTMLogger(tmlog.NewSyncWriter(w))
	return &logger{root: root, logger: root, level: "info"}
}

func (l *logger) current() tmlog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func (l *logger) setOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = tmlog.NewTMLogger(tmlog.NewSyncWriter(w))
	l.logger = l.filtered(l.level)
}

func (l *logger) filtered(level string) tmlog.Logger {
	opt, err := tmlog.AllowLevel(level)
	if err != nil {
		return l.root
	}
	return tmlog.NewFilter(l.root, opt)
}

// InitLogger writes logs to stdout.
func InitLogger() {
	customLog.setOutput(os.Stdout)
}

// ResetLogger redirects logs into <oracleHome>/logs/<prog>.<pid>.log.
func ResetLogger(oracleHome string) {
	dir := filepath.Join(oracleHome, "logs")
	if oracleHome == "" {
		osHome, err := os.UserHomeDir()
		if err != nil {
			Fatalf("Failed to get user home directory: %v", err)
		}
		dir = filepath.Join(osHome, ".oracled", "logs")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		Fatalf("Failed to create log directory %s: %v", dir, err)
	}

	name := fmt.Sprintf("%s.%d.log", filepath.Base(os.Args[0]), os.Getpid())
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		Fatalf("Failed to create log file: %v", err)
	}

	Infof("From now on, all logs will be written to %s", path)

	customLog.setOutput(file)
	customLog.mu.Lock()
	if customLog.file != nil {
		_ = customLog.file.Close()
	}
	customLog.dir = dir
	customLog.file = file
	customLog.mu.Unlock()
}

// SetLevel filters out entries below level ("debug", "info", "error", "none").
func SetLevel(level string) error {
	if _, err := tmlog.AllowLevel(level); err != nil {
		return err
	}
	customLog.mu.Lock()
	defer customLog.mu.Unlock()
	customLog.level = level
	customLog.logger = customLog.filtered(level)
	return nil
}

// Logger returns the structured logger handed to programs and the ledger.
func Logger() tmlog.Logger {
	return customLog.current()
}

func Debug(v ...any) {
	customLog.current().Debug(fmt.Sprint(v...))
}

func Debugf(format string, v ...any) {
	customLog.current().Debug(fmt.Sprintf(format, v...))
}

func Info(v ...any) {
	customLog.current().Info(fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	customLog.current().Info(fmt.Sprintf(format, v...))
}

func Error(v ...any) {
	customLog.current().Error(fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	customLog.current().Error(fmt.Sprintf(format, v...))
}

func Fatal(v ...any) {
	customLog.current().Error(fmt.Sprint(v...))
	os.Exit(1)
}

func Fatalf(format string, v ...any) {
	customLog.current().Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Package main contains Mage build targets for scholar-client developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"
)

const (
	binDir     = "bin"
	binName    = "scholar-client"
	cmdPkg     = "./cmd/scholar-client"
	configFile = "scholar-client.yaml"
	secretsDir = ".secrets"
)

// localConfig mirrors the keys the CLI reads through viper.
type localConfig struct {
	API struct {
		URL           string `yaml:"url"`
		Timeout       string `yaml:"timeout"`
		ScrapeTimeout string `yaml:"scrape_timeout"`
		MaxRetries    int    `yaml:"max_retries"`
	} `yaml:"api"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Init writes a starter scholar-client.yaml and creates .secrets/.
// An existing config file is left untouched.
func Init() error {
	if err := os.MkdirAll(secretsDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", secretsDir, err)
	}
	fmt.Println("  ", secretsDir)

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("   %s exists, skipped\n", configFile)
		return nil
	}

	var cfg localConfig
	cfg.API.URL = "http://localhost:5000/api"
	cfg.API.Timeout = "60s"
	cfg.API.ScrapeTimeout = "10m"
	cfg.API.MaxRetries = 3
	cfg.Log.Level = "warning"

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Println("  ", configFile)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests. The cache package needs cgo for SQLite.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "./...")
}

// Stats prints non-blank Go lines, split into production and test code.
func Stats() error {
	var prod, test int
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n, sc.Err()
}

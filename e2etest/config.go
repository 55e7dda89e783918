package e2etest

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/status-im/cards-loader/config"
)

// createTestConfig writes a test configuration pointing at the mock server
// and returns the path to the file
func createTestConfig(mockURL, port string) (string, error) {
	tempDir, err := os.MkdirTemp("", "cards-loader-test")
	if err != nil {
		return "", err
	}

	configContent := fmt.Sprintf(`
loader:
  base_path: "%s"
  warm_up: true
  reload_interval: 0s   # reloads are triggered by the tests

http_client:
  max_retries: 2
  base_backoff: 10ms    # short backoff for tests
  connection_timeout: 2s
  request_timeout: 5s

server:
  port: "%s"
`, mockURL, port)

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return configPath, nil
}

// loadTestConfig creates and loads test configuration
func loadTestConfig(mockURL, port string) (*config.Config, string, error) {
	configPath, err := createTestConfig(mockURL, port)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}

	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}

// freePort asks the kernel for an unused TCP port
func freePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return strconv.Itoa(listener.Addr().(*net.TCPAddr).Port), nil
}

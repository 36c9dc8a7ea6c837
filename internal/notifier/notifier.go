package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

var ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")

// Payload is the body the tray helper's webhook accepts.
type Payload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Notifier delivers desktop notifications through the tray helper.
type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: constants.DefaultHTTPTimeout}}
}

func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}
	lock, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.send(ctx, lock, Payload{Text: text, DurationMs: constants.NotificationDurationMs})
}

// BadgeMessage is the text shown when a badge is earned.
func BadgeMessage(b models.Badge) string {
	if b.Description != "" {
		return fmt.Sprintf("Badge earned: %s (%s)", b.Name, b.Description)
	}
	return "Badge earned: " + b.Name
}

// TrayConfigDir honours a lockfile_dir override in the tray's settings.json.
func TrayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &store) == nil && store.Settings.LockfileDir != "" {
		return store.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

type lockfile struct {
	port   int
	pid    int
	secret string
}

// readLockfile parses "port|pid|secret" and checks that pid is a live tray
// process.
func readLockfile(path string) (lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	var lock lockfile
	lock.port, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if lock.port < 1 || lock.port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", lock.port)
	}
	lock.pid, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}
	lock.secret = strings.TrimSpace(parts[2])
	if lock.secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(lock.pid)
	if err != nil || process == nil {
		return lockfile{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return lockfile{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return lock, nil
}

func (n *Notifier) send(ctx context.Context, lock lockfile, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", lock.port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Trackfit-Secret", lock.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackfit/internal/backup"
	"github.com/julianstephens/trackfit/internal/config"
	"github.com/julianstephens/trackfit/internal/engine"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/period"
	"github.com/julianstephens/trackfit/internal/storage"
)

var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Faint  = lipgloss.NewStyle().Faint(true)
	filled = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Context is handed to every command's Run method.
type Context struct {
	Config     config.Config
	ConfigPath string
	Store      storage.Provider
	// Options are applied when the engine is opened.
	Options []engine.Option

	Out io.Writer
	In  io.Reader

	engine *engine.Engine
}

// Engine loads the store and opens the engine on first use. Commands that
// never call it (init, keyring) work against an uninitialized store.
func (c *Context) Engine() (*engine.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	e := engine.New(c.Store, c.Options...)
	if err := e.Open(); err != nil {
		return nil, fmt.Errorf("failed to open tracking data: %w", err)
	}
	c.engine = e
	return e, nil
}

// Close shuts the engine down, or just the store when no engine was opened.
func (c *Context) Close() error {
	if c.engine != nil {
		err := c.engine.Close()
		c.engine = nil
		return err
	}
	return c.Store.Close()
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store, backup.DefaultDir(c.Store, c.Config.Dir()))
}

// PerformAutomaticBackup creates a backup before destructive commands and
// only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups().CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Confirm asks a yes/no question on In; anything but y/yes is a no.
func (c *Context) Confirm(question string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// WarnPersist tells the user when the last change only lives in memory.
func (c *Context) WarnPersist(e *engine.Engine) {
	if err := e.PersistError(); err != nil {
		c.Printf("⚠ Warning: changes could not be saved: %v\n", err)
	}
}

func (c *Context) PrintAchieved(achieved []models.Badge) {
	for _, b := range achieved {
		c.Printf("🏅 Badge earned: %s\n", Bold.Render(b.Name))
	}
}

// ParseWhen parses a YYYY-MM-DD or "YYYY-MM-DD HH:MM" flag in the profile's
// zone. Empty means now.
func ParseWhen(e *engine.Engine, s string) (time.Time, error) {
	if s == "" {
		return e.Now(), nil
	}
	return period.ParseDateTime(s, e.Calendar().Location)
}

// ParseRef parses a --date reference day. Empty means now; a day resolves to
// its noon so it stays inside the day across DST changes.
func ParseRef(e *engine.Engine, s string) (time.Time, error) {
	if s == "" {
		return e.Now(), nil
	}
	d, err := period.ParseDate(s, e.Calendar().Location)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}

// ProgressBar renders ratio (clamped to [0,1]) as a fixed-width bar.
func ProgressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	n := int(ratio * float64(width))
	return filled.Render(strings.Repeat("█", n)) + Faint.Render(strings.Repeat("░", width-n))
}

// FormatRange prints a range as inclusive calendar days.
func FormatRange(r period.Range) string {
	end := r.End
	if !r.Inclusive {
		end = end.Add(-time.Nanosecond)
	}
	return fmt.Sprintf("%s to %s", r.Start.Format("2006-01-02"), end.Format("2006-01-02"))
}

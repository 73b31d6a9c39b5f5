package cachectl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/errs"
	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/MrSnakeDoc/gompa/internal/offline"
	"github.com/MrSnakeDoc/gompa/internal/printer"
	"github.com/MrSnakeDoc/gompa/internal/utils"
)

const barWidth = 20

type Controller struct {
	Manager *offline.Manager
	// Out receives machine-readable output (--json).
	Out io.Writer
	Now func() time.Time
}

func New(m *offline.Manager, out io.Writer) *Controller {
	if out == nil {
		out = os.Stdout
	}
	return &Controller{Manager: m, Out: out, Now: time.Now}
}

// Populate refreshes the snapshot, printing one progress line per category.
func (c *Controller) Populate(ctx context.Context) error {
	if !c.Manager.Online() {
		logger.Warn("Network unreachable, populating from the bundled reference data")
	}

	logger.Info("Populating offline cache...")
	ds, err := c.Manager.Populate(ctx, func(p offline.Progress) {
		logger.Info("%s %s", utils.ProgressBar(p.Percent, barWidth), p.Category)
	})
	switch {
	case errors.Is(err, offline.ErrPopulateInProgress):
		return c.report(errs.PopulateInProgress)
	case err != nil:
		return err
	}

	total := 0
	for _, n := range ds.Counts() {
		total += n
	}
	logger.Success("Offline snapshot saved: %d records in %d categories", total, len(offline.Categories))
	return nil
}

// Status prints reachability, snapshot freshness and per-category counts.
func (c *Controller) Status() error {
	p := printer.NewColorPrinter()
	m := c.Manager

	updated := "never"
	if t, ok := m.LastUpdated(); ok {
		updated = t.Local().Format(time.DateTime)
	}

	freshness := p.Success("fresh")
	if m.Stale(c.Now()) {
		freshness = p.Warning("stale")
	}

	snapshot := p.Error("✗ missing")
	if m.HasSnapshot() {
		snapshot = p.Success("✓ present")
	}

	table := logger.CreateTable([]string{"Network", "Snapshot", "Last updated", "Freshness", "Downloads"})
	if err := table.Append([]string{p.Online(m.Online()), snapshot, updated, freshness, fmt.Sprint(len(m.Downloads()))}); err != nil {
		return fmt.Errorf("an error occurred while appending to the table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}

	ds, ok := m.Snapshot()
	if !ok {
		logger.Warn("%s", errs.Msg(errs.NoSnapshot))
		return nil
	}

	counts := ds.Counts()
	table = logger.CreateTable([]string{"Category", "Records"})
	for _, cat := range offline.Categories {
		if err := table.Append([]string{string(cat), fmt.Sprint(counts[cat])}); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

// Show prints the cached records of one category, as a table or as JSON.
func (c *Controller) Show(name string, asJSON bool) error {
	cat, err := offline.ParseCategory(name)
	if err != nil {
		return c.report(errs.UnknownCategory, name, strings.Join(offline.CategoryNames(), ", "))
	}

	records := c.Manager.Category(cat)

	if asJSON {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		if !c.Manager.HasSnapshot() {
			logger.Warn("%s", errs.Msg(errs.NoSnapshot))
		} else {
			logger.Info("No cached %s", cat)
		}
		return nil
	}

	table := logger.CreateTable([]string{"ID", "Name", "Fields"})
	rows := utils.Map(records, func(r offline.Record) []string {
		return []string{r.ID(), displayName(r), fmt.Sprint(len(r))}
	})
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

// Download fetches one labelled resource into the offline store.
func (c *Controller) Download(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return c.report(errs.MissingLabel)
	}

	logger.Info("Downloading %s for offline use...", label)
	if err := c.Manager.Download(ctx, label); err != nil {
		return err
	}

	for _, e := range c.Manager.Downloads() {
		if e.Label == label {
			logger.Success("Saved %s (%s)", label, utils.HumanSize(e.Size))
			return nil
		}
	}
	logger.Success("Saved %s", label)
	return nil
}

// Downloads lists resources saved with Download.
func (c *Controller) Downloads() error {
	entries := c.Manager.Downloads()
	if len(entries) == 0 {
		logger.Info("No downloaded resources")
		return nil
	}

	table := logger.CreateTable([]string{"Label", "Size", "Stored", "SHA-256"})
	for _, e := range entries {
		stored := time.UnixMilli(e.StoredAt).Local().Format(time.DateTime)
		sum := e.SHA256
		if len(sum) > 12 {
			sum = sum[:12]
		}
		if err := table.Append([]string{e.Label, utils.HumanSize(e.Size), stored, sum}); err != nil {
			return fmt.Errorf("an error occurred while appending to the table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("an error occurred while rendering the table: %w", err)
	}
	return nil
}

func (c *Controller) report(code errs.Code, a ...any) error {
	logger.LogError("%s", errs.Msg(code, a...))
	return errs.ErrLogged
}

func displayName(r offline.Record) string {
	for _, k := range []string{"name", "title"} {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return "—"
}

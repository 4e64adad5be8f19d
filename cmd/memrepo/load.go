package main

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/ingestion"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// itemRecord is the YAML shape of an item in a load file.
//
//	- name: greeting
//	  contents: hello there
//	  metadata:
//	    lang: en
type itemRecord struct {
	ID       uint64            `yaml:"id"`
	Name     string            `yaml:"name"`
	Contents string            `yaml:"contents"`
	Metadata map[string]string `yaml:"metadata"`
}

func readItems(path string) ([]*core.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	var records []itemRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}

	items := make([]*core.Item, len(records))
	for i, r := range records {
		items[i] = &core.Item{
			Id:       core.ID(r.ID),
			Name:     r.Name,
			Contents: r.Contents,
			Metadata: r.Metadata,
		}
	}
	return items, nil
}

func loadCommand(c *cli.Context) error {
	ctx, cancel := commandContext(c)
	defer cancel()

	items, err := readItems(c.String("file"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	loader, err := db.NewLoader()
	if err != nil {
		return err
	}
	defer loader.Release()

	loaded, err := loader.Load(ctx, items...)
	if err != nil {
		return err
	}
	slog.Info("items loaded", "count", len(loaded))

	all, err := db.Store().All(ctx)
	if err != nil {
		return err
	}
	return printItems(c.App.Writer, all...)
}

func seedCommand(c *cli.Context) error {
	ctx, cancel := commandContext(c)
	defer cancel()

	count := c.Int("count")
	if count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", count)
	}
	batchSize := c.Int("batch-size")
	if batchSize < 1 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	var progress *ingestion.Progress
	if interval := c.Int("report-interval"); interval > 0 {
		progress = ingestion.NewProgress(c.App.ErrWriter, count, interval)
		opts = append(opts, ingestion.WithProgress(progress))
	}

	loader, err := db.NewLoader(opts...)
	if err != nil {
		return err
	}
	defer loader.Release()

	loaded, err := loadBatched(ctx, loader, generateItems(count), batchSize)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	all, err := db.Store().All(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "seeded %d items, store holds %d\n", loaded, len(all))
	return nil
}

// generateItems yields count sample items cycling through sentences.
func generateItems(count int) iter.Seq[*core.Item] {
	return func(yield func(*core.Item) bool) {
		for i := range count {
			item := &core.Item{
				Name:     fmt.Sprintf("item-%04d", i),
				Contents: sentences[i%len(sentences)],
				Metadata: map[string]string{"source": "seed"},
			}
			if !yield(item) {
				return
			}
		}
	}
}

// loadBatched reads from a source iterator and loads items in batches.
func loadBatched(ctx context.Context, loader *ingestion.Loader, source iter.Seq[*core.Item], batchSize int) (int, error) {
	batch := make([]*core.Item, 0, batchSize)
	total := 0

	for item := range source {
		batch = append(batch, item)
		if len(batch) == batchSize {
			loaded, err := loader.Load(ctx, batch...)
			total += len(loaded)
			if err != nil {
				return total, err
			}
			slog.Debug("batch loaded", "size", len(loaded), "total", total)
			batch = batch[:0]
		}
	}

	// Process any remaining items
	if len(batch) > 0 {
		loaded, err := loader.Load(ctx, batch...)
		total += len(loaded)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

var sentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"A gentle breeze rustled the leaves of the old oak tree.",
	"She found a hidden key in the dusty attic.",
	"The city skyline glowed under the starry night sky.",
	"Rain drummed on the rooftop, creating a soothing rhythm.",
	"A bright comet streaked across the horizon at midnight.",
	"The ancient library held stories that never faded.",
	"A mysterious map led them to a forgotten treasure.",
	"The old clock chimed thirteen times in an abandoned town.",
	"The desert dunes shifted silently under a pale moon.",
	"The lighthouse beam cut through fog, guiding sailors safely.",
	"A gentle snowfall blanketed the city in quiet white.",
}

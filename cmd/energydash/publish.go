package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/publisher"
	"github.com/jgoulah/energydash/pkg/models"
)

var (
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish stored predictions to MQTT and Home Assistant",
	Long: `Reads stored bill predictions from the database and publishes them to the
configured MQTT broker and/or the Home Assistant HTTP API.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))
	ctx := cmd.Context()

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	// Create publisher
	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix(), cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var records []models.PredictionRecord
	if publishAll {
		records, err = db.ListPredictions(ctx, 0)
	} else {
		records, err = db.ListUnpublishedPredictions(ctx)
	}
	if err != nil {
		return fmt.Errorf("listing predictions: %w", err)
	}

	if len(records) == 0 {
		if publishAll {
			fmt.Println("No predictions found")
		} else {
			fmt.Println("No unpublished predictions found")
		}
		return nil
	}

	// Apply limit if specified
	if publishLimit > 0 && len(records) > publishLimit {
		records = records[:publishLimit]
		fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
	}

	if cfg.MQTT.Enabled {
		fmt.Printf("Publishing to MQTT topic %s\n", pub.Topic())
	}
	if cfg.HomeAssistant.Enabled {
		fmt.Printf("Publishing to Home Assistant entity %s\n", cfg.HomeAssistant.EntityID)
	}

	published := 0
	for i, record := range records {
		fmt.Printf("[%d/%d] Publishing prediction #%d for %s (₹%.2f)... ", i+1, len(records), record.ID, monthLabel(record), record.PredictedBill)
		if err := pub.Publish(record); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			logger.Warn("publish failed", zap.Int("id", record.ID), zap.Error(err))
			continue
		}

		// Mark record as published in database
		if err := db.MarkPublished(ctx, record.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d predictions\n", published, len(records))
	return nil
}

func monthLabel(r models.PredictionRecord) string {
	if m := r.Month(); m != "" {
		return m
	}
	return "next month"
}

package main

import (
	"fmt"
	"log"

	"github.com/tillerhq/tiller/dataset"
	"github.com/tillerhq/tiller/engine"
	"github.com/tillerhq/tiller/schema"
	"github.com/tillerhq/tiller/translator"
)

// buildEngine assembles the full pipeline from the loaded config: dataset,
// alias table, Gemini generator, engine. Commands that never generate
// (schema) use buildTable/buildAliases directly.
func buildEngine() (*engine.Engine, error) {
	table, err := buildTable()
	if err != nil {
		return nil, err
	}
	aliases, err := buildAliases()
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set GEMINI_API_KEY or api_key in tiller.yaml")
	}
	gen := translator.NewGemini(translator.Config{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
	})

	return engine.New(table,
		engine.WithGenerator(gen),
		engine.WithMaxRetries(cfg.MaxRetries),
		engine.WithTimeout(cfg.ExecTimeout),
		engine.WithSampleRows(cfg.SampleRows),
		engine.WithAliases(aliases),
	)
}

func buildTable() (*dataset.Table, error) {
	table, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	log.Printf("📊 Tiller: loaded %d listings (%d columns) from %s",
		table.Len(), len(table.Columns()), cfg.DatasetPath)
	return table, nil
}

func buildAliases() (schema.Config, error) {
	aliases := schema.DefaultConfig()
	if cfg.AliasesPath == "" {
		return aliases, nil
	}
	overlaid, err := schema.LoadOverlay(cfg.AliasesPath, aliases)
	if err != nil {
		return schema.Config{}, fmt.Errorf("alias overlay: %w", err)
	}
	log.Printf("📋 Tiller: alias overlay applied from %s", cfg.AliasesPath)
	return overlaid, nil
}

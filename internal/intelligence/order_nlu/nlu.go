// Package order_nlu is the rule-based language layer of the ordering bot.
// It normalizes English and Arabic customer text, resolves menu mentions
// against the catalog, extracts ordered intents, resolves pronouns to the
// last item and spots control commands. Everything here is pure and safe
// for concurrent use once built.
package order_nlu

import (
	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
)

// Config tunes the NLU layer.
type Config struct {
	Thresholds
	MaxPhraseTokens int
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{Thresholds: DefaultThresholds(), MaxPhraseTokens: 4}
}

// ConfigFrom maps the nlu section of the service configuration.
func ConfigFrom(cfg config.NLUConfig) Config {
	return Config{
		Thresholds: Thresholds{
			ShortMaxEdits:  cfg.ShortMaxEdits,
			MediumMaxEdits: cfg.MediumMaxEdits,
			LongMaxEdits:   cfg.LongMaxEdits,
			ScoreCeiling:   cfg.ScoreCeiling,
		},
		MaxPhraseTokens: cfg.MaxPhraseTokens,
	}
}

// NLU bundles the components built over one catalog.
type NLU struct {
	Normalizer *Normalizer
	Matcher    *Matcher
	Extractor  *Extractor
	Anaphora   *AnaphoraResolver
	Detector   *Detector
}

// New builds every component over cat. Zero fields in cfg take defaults.
func New(cat *catalog.Catalog, cfg Config) *NLU {
	def := DefaultConfig()
	if cfg.ShortMaxEdits == 0 {
		cfg.ShortMaxEdits = def.ShortMaxEdits
	}
	if cfg.MediumMaxEdits == 0 {
		cfg.MediumMaxEdits = def.MediumMaxEdits
	}
	if cfg.LongMaxEdits == 0 {
		cfg.LongMaxEdits = def.LongMaxEdits
	}
	if cfg.ScoreCeiling == 0 {
		cfg.ScoreCeiling = def.ScoreCeiling
	}
	if cfg.MaxPhraseTokens == 0 {
		cfg.MaxPhraseTokens = def.MaxPhraseTokens
	}

	norm := NewNormalizer(catalogWords(cat)...)
	m := NewMatcher(cat, norm, cfg.Thresholds)
	return &NLU{
		Normalizer: norm,
		Matcher:    m,
		Extractor:  NewExtractor(cat, norm, m, cfg.MaxPhraseTokens),
		Anaphora:   NewAnaphoraResolver(norm),
		Detector:   NewDetector(norm),
	}
}

func catalogWords(cat *catalog.Catalog) []string {
	var words []string
	for _, c := range cat.Categories {
		words = append(words, c.ID, c.TitleEN, c.TitleAR)
		words = append(words, c.Aliases...)
	}
	for _, it := range cat.Items {
		words = append(words, it.NameEN, it.NameAR)
		words = append(words, it.Aliases...)
	}
	return words
}

// Splits parses "1 spicy and 2 regular" style answers. It returns nil unless
// at least two pairs are present.
func (x *Extractor) Splits(text string) []order.PreferenceSplit {
	return x.Parse(text).Splits
}

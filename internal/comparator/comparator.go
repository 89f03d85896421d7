package comparator

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/config"
)

// ContentComparator detects and classifies changes between two versions of a
// page's text. Comparison is stateless: the same pair of documents always
// yields the same result.
type ContentComparator struct {
	config     Config
	normalizer *DocumentNormalizer
	filter     *VolatilityFilter
	differ     *LineDiffer
	matcher    *PairMatcher
	scorer     *ChangeScorer
	summarizer *SummaryBuilder
	logger     zerolog.Logger
}

// ContentComparatorBuilder provides a fluent interface for creating ContentComparator
type ContentComparatorBuilder struct {
	cfg     Config
	fileCfg *config.ComparatorConfig
	logger  zerolog.Logger
}

// NewContentComparatorBuilder creates a new builder with default configuration
func NewContentComparatorBuilder() *ContentComparatorBuilder {
	return &ContentComparatorBuilder{
		cfg:    DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger
func (b *ContentComparatorBuilder) WithLogger(logger zerolog.Logger) *ContentComparatorBuilder {
	b.logger = logger.With().Str("component", "ContentComparator").Logger()
	return b
}

// WithConfig sets the comparison configuration directly
func (b *ContentComparatorBuilder) WithConfig(cfg Config) *ContentComparatorBuilder {
	b.cfg = cfg
	return b
}

// WithComparatorConfig applies the comparator section of the application
// configuration, overriding any config set so far.
func (b *ContentComparatorBuilder) WithComparatorConfig(fileCfg *config.ComparatorConfig) *ContentComparatorBuilder {
	b.fileCfg = fileCfg
	return b
}

// Build validates the configuration and creates the ContentComparator.
// Invalid configuration is reported as an error wrapping
// common.ErrInvalidConfiguration.
func (b *ContentComparatorBuilder) Build() (*ContentComparator, error) {
	cfg := b.cfg
	if b.fileCfg != nil {
		cfg = configFromFile(b.fileCfg)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	filter, err := NewVolatilityFilter(cfg.VolatilityPatterns, cfg.DisableDefaultPatterns)
	if err != nil {
		return nil, err
	}

	return &ContentComparator{
		config:     cfg,
		normalizer: NewDocumentNormalizer(cfg.CaseSensitive),
		filter:     filter,
		differ:     NewLineDiffer(),
		matcher:    NewPairMatcher(cfg.SimilarityThreshold),
		scorer:     NewChangeScorer(cfg.ModerateThreshold, cfg.ImportantThreshold, cfg.CriticalThreshold),
		summarizer: NewSummaryBuilder(cfg.MaxSummaryLines),
		logger:     b.logger,
	}, nil
}

// NewContentComparator creates a ContentComparator from the application
// configuration section.
func NewContentComparator(logger zerolog.Logger, fileCfg *config.ComparatorConfig) (*ContentComparator, error) {
	return NewContentComparatorBuilder().
		WithLogger(logger).
		WithComparatorConfig(fileCfg).
		Build()
}

// configFromFile maps the application configuration section onto the
// package-level Config.
func configFromFile(fileCfg *config.ComparatorConfig) Config {
	return Config{
		CaseSensitive:          fileCfg.CaseSensitive,
		VolatilityPatterns:     fileCfg.VolatilityPatterns,
		DisableDefaultPatterns: fileCfg.DisableDefaultPatterns,
		SimilarityThreshold:    fileCfg.SimilarityThreshold,
		ModerateThreshold:      fileCfg.SeverityThresholds.Moderate,
		ImportantThreshold:     fileCfg.SeverityThresholds.Important,
		CriticalThreshold:      fileCfg.SeverityThresholds.Critical,
		MaxSummaryLines:        fileCfg.MaxSummaryLines,
		MaxDocumentLines:       fileCfg.MaxDocumentLines,
	}
}

func validateConfig(cfg Config) error {
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		return common.NewConfigurationError("comparator", "similarity_threshold", "must be between 0 and 1")
	}
	if cfg.ModerateThreshold <= 0 {
		return common.NewConfigurationError("comparator", "severity_thresholds", "moderate threshold must be positive")
	}
	if cfg.ModerateThreshold >= cfg.ImportantThreshold || cfg.ImportantThreshold >= cfg.CriticalThreshold {
		return common.NewConfigurationError("comparator", "severity_thresholds", "thresholds must be strictly ascending (moderate < important < critical)")
	}
	if cfg.CriticalThreshold > 100 {
		return common.NewConfigurationError("comparator", "severity_thresholds", "critical threshold cannot exceed 100")
	}
	if cfg.MaxSummaryLines < 1 {
		return common.NewConfigurationError("comparator", "max_summary_lines", "must be at least 1")
	}
	if cfg.MaxDocumentLines < 0 {
		return common.NewConfigurationError("comparator", "max_document_lines", "cannot be negative")
	}
	return nil
}

// Compare analyzes the differences between the previous and current version
// of a document and returns a classified, scored result. It returns a
// DocumentTooLargeError when either document exceeds the configured line
// limit; no other inputs fail.
func (cc *ContentComparator) Compare(previousContent, currentContent string) (*ComparisonResult, error) {
	startTime := time.Now()

	oldLines := cc.normalizer.Normalize(previousContent)
	newLines := cc.normalizer.Normalize(currentContent)

	if err := cc.validateSize(len(oldLines), len(newLines)); err != nil {
		return nil, err
	}

	oldHash := HashContent([]byte(previousContent))
	newHash := HashContent([]byte(currentContent))

	builder := NewComparisonResultBuilder().
		WithHashes(oldHash, newHash).
		WithLineCounts(len(oldLines), len(newLines))

	// Identical bytes cannot contain changes; skip the diff entirely.
	if oldHash == newHash {
		return builder.
			WithScore(0, cc.scorer.Classify(0)).
			WithSummary(NoChangesSummary).
			WithProcessingTime(time.Since(startTime)).
			Build(), nil
	}

	oldFiltered := cc.filter.Filter(oldLines)
	newFiltered := cc.filter.Filter(newLines)

	added, removed := cc.differ.Diff(oldFiltered, newFiltered)
	pairs, remainingAdded, remainingRemoved := cc.matcher.Pair(added, removed)

	score := cc.scorer.Score(len(remainingAdded), len(remainingRemoved), len(pairs), len(oldLines))
	severity := cc.scorer.Classify(score)
	changes := cc.collectChanges(remainingAdded, remainingRemoved, pairs)

	result := builder.
		WithScore(score, severity).
		WithCounts(len(remainingAdded), len(remainingRemoved), len(pairs)).
		WithSimilarityRatio(cc.scorer.SimilarityRatio(oldFiltered, newFiltered)).
		WithChanges(changes).
		WithSummary(cc.summarizer.Build(changes)).
		WithProcessingTime(time.Since(startTime)).
		Build()

	cc.logger.Debug().
		Float64("change_score", result.ChangeScore).
		Str("severity", string(result.Severity)).
		Int("added", result.AddedCount).
		Int("removed", result.RemovedCount).
		Int("modified", result.ModifiedCount).
		Msg("Content comparison completed")

	return result, nil
}

func (cc *ContentComparator) validateSize(oldLineCount, newLineCount int) error {
	limit := cc.config.MaxDocumentLines
	if limit <= 0 {
		return nil
	}
	if oldLineCount > limit {
		return NewDocumentTooLargeError("previous", oldLineCount, limit)
	}
	if newLineCount > limit {
		return NewDocumentTooLargeError("current", newLineCount, limit)
	}
	return nil
}

// collectChanges flattens the classified lines into records: additions in
// new-document order, then removals in old-document order, then modifications
// in pairing order.
func (cc *ContentComparator) collectChanges(added, removed []string, pairs []ModifiedPair) []ChangeRecord {
	changes := make([]ChangeRecord, 0, len(added)+len(removed)+len(pairs))
	for _, line := range added {
		changes = append(changes, ChangeRecord{Type: ChangeTypeAdded, NewLine: line})
	}
	for _, line := range removed {
		changes = append(changes, ChangeRecord{Type: ChangeTypeRemoved, OldLine: line})
	}
	for _, pair := range pairs {
		changes = append(changes, ChangeRecord{
			Type:       ChangeTypeModified,
			OldLine:    pair.OldLine,
			NewLine:    pair.NewLine,
			Similarity: pair.Similarity,
		})
	}
	return changes
}

// HashContent returns the SHA-256 hex digest of content.
func HashContent(content []byte) string {
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:])
}

// CompareContent compares two documents with the default configuration.
func CompareContent(previousContent, currentContent string) (*ComparisonResult, error) {
	cc, err := NewContentComparatorBuilder().Build()
	if err != nil {
		return nil, err
	}
	return cc.Compare(previousContent, currentContent)
}

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventMigrator upgrades stored event payloads to their current schema
// version in bulk, for backfills over the outbox table.
type EventMigrator struct {
	serializer *VersionedSerializer
	logger     *zap.Logger
}

// NewEventMigrator builds a migrator over the given serializer.
func NewEventMigrator(serializer *VersionedSerializer, logger *zap.Logger) *EventMigrator {
	return &EventMigrator{
		serializer: serializer,
		logger:     logger.Named("event-migrator"),
	}
}

// MigrationResult summarizes one batch migration run.
type MigrationResult struct {
	EventType      string
	TotalProcessed int
	Upgraded       int
	AlreadyCurrent int
	Failed         int
	FailedPayloads []FailedMigration
	StartedAt      time.Time
	CompletedAt    time.Time
	FromVersion    int
	ToVersion      int
}

// FailedMigration records a payload that could not be upgraded.
type FailedMigration struct {
	Payload []byte
	Error   string
	Version int
}

// Duration is the wall-clock time the batch took.
func (r *MigrationResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// observe folds one payload's version into the FromVersion low-water mark.
func (r *MigrationResult) observe(version int) {
	r.TotalProcessed++
	if r.FromVersion == 0 || version < r.FromVersion {
		r.FromVersion = version
	}
}

// MigratePayloads upgrades a batch of payloads to the current version.
// Stops early and returns ctx.Err() on cancellation, with partial results.
func (m *EventMigrator) MigratePayloads(ctx context.Context, eventType string, payloads [][]byte) (*MigrationResult, error) {
	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	result := &MigrationResult{
		EventType:      eventType,
		ToVersion:      currentVersion,
		StartedAt:      time.Now(),
		FailedPayloads: make([]FailedMigration, 0),
	}

	for _, payload := range payloads {
		if err := ctx.Err(); err != nil {
			result.CompletedAt = time.Now()
			return result, err
		}
		m.migrateOne(result, currentVersion, payload)
	}

	result.CompletedAt = time.Now()
	m.logger.Info("payload batch migrated",
		zap.String("event_type", eventType),
		zap.Int("upgraded", result.Upgraded),
		zap.Int("already_current", result.AlreadyCurrent),
		zap.Int("failed", result.Failed),
		zap.Duration("took", result.Duration()),
	)
	return result, nil
}

func (m *EventMigrator) migrateOne(result *MigrationResult, currentVersion int, payload []byte) {
	version := ExtractVersion(payload)
	result.observe(version)

	if version >= currentVersion {
		result.AlreadyCurrent++
		return
	}

	if _, _, err := m.serializer.UpgradePayloadOnly(result.EventType, payload); err != nil {
		result.Failed++
		result.FailedPayloads = append(result.FailedPayloads, FailedMigration{
			Payload: payload,
			Error:   err.Error(),
			Version: version,
		})
		m.logger.Warn("payload upgrade failed",
			zap.String("event_type", result.EventType),
			zap.Int("version", version),
			zap.Error(err),
		)
		return
	}

	result.Upgraded++
}

// MigratePayload upgrades a single payload, returning the new bytes and
// version.
func (m *EventMigrator) MigratePayload(eventType string, payload []byte) ([]byte, int, error) {
	return m.serializer.UpgradePayloadOnly(eventType, payload)
}

// ValidateUpgradeChain errors if any version step up to the current
// version lacks an upgrader.
func (m *EventMigrator) ValidateUpgradeChain(eventType string) error {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	for v := 1; v < config.CurrentVersion; v++ {
		if _, ok := config.Upgraders[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
	}

	return nil
}

// EventVersionAnalysis describes the version spread inside a payload set.
type EventVersionAnalysis struct {
	EventType      string
	CurrentVersion int
	VersionCounts  map[int]int
	OldestVersion  int
	NewestVersion  int
	TotalEvents    int
	NeedsMigration int
	UpToDate       int
}

func (a *EventVersionAnalysis) record(version int) {
	a.VersionCounts[version]++

	if a.OldestVersion == -1 || version < a.OldestVersion {
		a.OldestVersion = version
	}
	if version > a.NewestVersion {
		a.NewestVersion = version
	}

	if version < a.CurrentVersion {
		a.NeedsMigration++
	} else {
		a.UpToDate++
	}
}

// AnalyzePayloads inspects a batch without modifying it, reporting how
// many payloads are behind the current version.
func (m *EventMigrator) AnalyzePayloads(eventType string, payloads [][]byte) (*EventVersionAnalysis, error) {
	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	analysis := &EventVersionAnalysis{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		VersionCounts:  make(map[int]int),
		OldestVersion:  -1,
		NewestVersion:  -1,
		TotalEvents:    len(payloads),
	}
	for _, payload := range payloads {
		analysis.record(ExtractVersion(payload))
	}

	return analysis, nil
}

// MigrationPlan is the ordered list of upgrade steps from one version to
// the current one.
type MigrationPlan struct {
	EventType        string
	FromVersion      int
	ToVersion        int
	UpgradeSteps     []UpgradeStep
	EstimatedPayload int
}

// UpgradeStep is one hop in a migration plan.
type UpgradeStep struct {
	FromVersion int
	ToVersion   int
	HasUpgrader bool
}

// IsValid reports whether every step in the plan has an upgrader.
func (p *MigrationPlan) IsValid() bool {
	for _, step := range p.UpgradeSteps {
		if !step.HasUpgrader {
			return false
		}
	}
	return true
}

// CreateMigrationPlan lays out the steps needed to bring payloads at
// fromVersion up to the current version. Already-current versions yield
// an empty plan.
func (m *EventMigrator) CreateMigrationPlan(eventType string, fromVersion int) (*MigrationPlan, error) {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	plan := &MigrationPlan{
		EventType:    eventType,
		FromVersion:  fromVersion,
		ToVersion:    config.CurrentVersion,
		UpgradeSteps: []UpgradeStep{},
	}
	for v := fromVersion; v < config.CurrentVersion; v++ {
		_, hasUpgrader := config.Upgraders[v]
		plan.UpgradeSteps = append(plan.UpgradeSteps, UpgradeStep{
			FromVersion: v,
			ToVersion:   v + 1,
			HasUpgrader: hasUpgrader,
		})
	}

	return plan, nil
}

// CommonUpgraders builds upgraders for the recurring schema-change shapes.
// Every builder produces a single-step upgrader from sourceVersion to
// sourceVersion+1.
type CommonUpgraders struct{}

// payloadMutation edits the decoded payload map in place.
type payloadMutation func(data map[string]any) error

func stepUpgrader(sourceVersion int, mutate payloadMutation) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if err := mutate(data); err != nil {
			return nil, err
		}
		return data, nil
	})
}

// AddField introduces a field with a default value.
func (CommonUpgraders) AddField(sourceVersion int, fieldName string, defaultValue any) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		data[fieldName] = defaultValue
		return nil
	})
}

// RemoveField drops a field.
func (CommonUpgraders) RemoveField(sourceVersion int, fieldName string) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		delete(data, fieldName)
		return nil
	})
}

// RenameField moves a value under a new key.
func (CommonUpgraders) RenameField(sourceVersion int, oldName, newName string) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		if val, ok := data[oldName]; ok {
			data[newName] = val
			delete(data, oldName)
		}
		return nil
	})
}

// TransformField rewrites a field value in place.
func (CommonUpgraders) TransformField(sourceVersion int, fieldName string, transform func(any) any) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = transform(val)
		}
		return nil
	})
}

// SplitField fans one field out into several.
func (CommonUpgraders) SplitField(sourceVersion int, sourceName string, splitter func(any) map[string]any) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		val, ok := data[sourceName]
		if !ok {
			return nil
		}
		for k, v := range splitter(val) {
			data[k] = v
		}
		delete(data, sourceName)
		return nil
	})
}

// MergeFields collapses several fields into one.
func (CommonUpgraders) MergeFields(sourceVersion int, fieldNames []string, targetName string, merger func(map[string]any) any) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		values := make(map[string]any)
		for _, name := range fieldNames {
			if val, ok := data[name]; ok {
				values[name] = val
				delete(data, name)
			}
		}
		data[targetName] = merger(values)
		return nil
	})
}

// SetFieldType converts a field to another type via the converter.
func (CommonUpgraders) SetFieldType(sourceVersion int, fieldName string, converter func(any) (any, error)) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		val, ok := data[fieldName]
		if !ok {
			return nil
		}
		newVal, err := converter(val)
		if err != nil {
			return fmt.Errorf("failed to convert field %s: %w", fieldName, err)
		}
		data[fieldName] = newVal
		return nil
	})
}

// WrapInObject nests a value under a single-key object.
func (CommonUpgraders) WrapInObject(sourceVersion int, fieldName, wrapperKey string) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = map[string]any{wrapperKey: val}
		}
		return nil
	})
}

// UnwrapFromObject is the inverse of WrapInObject.
func (CommonUpgraders) UnwrapFromObject(sourceVersion int, fieldName, wrapperKey string) *BaseEventUpgrader {
	return stepUpgrader(sourceVersion, func(data map[string]any) error {
		obj, ok := data[fieldName].(map[string]any)
		if !ok {
			return nil
		}
		if unwrapped, ok := obj[wrapperKey]; ok {
			data[fieldName] = unwrapped
		}
		return nil
	})
}

// CopyPayload deep-copies a JSON payload.
func CopyPayload(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

// MigrationStats tracks migration counters per event type.
type MigrationStats struct {
	mu    sync.RWMutex
	stats map[string]*EventMigrationStats
}

// EventMigrationStats holds the counters for a single event type.
type EventMigrationStats struct {
	EventType           string
	TotalMigrated       int64
	TotalFailed         int64
	LastMigratedAt      time.Time
	AverageDurationMs   float64
	MigrationsByVersion map[string]int64 // "v1->v2" => count
}

func (s *EventMigrationStats) clone() *EventMigrationStats {
	out := *s
	out.MigrationsByVersion = make(map[string]int64, len(s.MigrationsByVersion))
	for k, v := range s.MigrationsByVersion {
		out.MigrationsByVersion[k] = v
	}
	return &out
}

// NewMigrationStats creates an empty tracker.
func NewMigrationStats() *MigrationStats {
	return &MigrationStats{
		stats: make(map[string]*EventMigrationStats),
	}
}

// forType returns the per-type counters, creating them on first use.
// Callers must hold the write lock.
func (s *MigrationStats) forType(eventType string) *EventMigrationStats {
	stats, ok := s.stats[eventType]
	if !ok {
		stats = &EventMigrationStats{
			EventType:           eventType,
			MigrationsByVersion: make(map[string]int64),
		}
		s.stats[eventType] = stats
	}
	return stats
}

// RecordMigration updates the counters and the rolling average duration.
func (s *MigrationStats) RecordMigration(eventType string, fromVersion, toVersion int, durationMs float64, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.forType(eventType)
	if success {
		stats.TotalMigrated++
		stats.LastMigratedAt = time.Now()
		n := float64(stats.TotalMigrated)
		stats.AverageDurationMs = stats.AverageDurationMs*(n-1)/n + durationMs/n
	} else {
		stats.TotalFailed++
	}

	stats.MigrationsByVersion[fmt.Sprintf("v%d->v%d", fromVersion, toVersion)]++
}

// GetStats returns a copy of the stats for an event type.
func (s *MigrationStats) GetStats(eventType string) (*EventMigrationStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.stats[eventType]
	if !ok {
		return nil, false
	}
	return stats.clone(), true
}

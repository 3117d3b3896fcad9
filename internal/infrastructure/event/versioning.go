package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rentfold/backend/internal/domain/shared"
)

// EventUpgrader migrates an event payload across one schema version step
// (v -> v+1). Chains of upgraders bring old stored payloads up to date.
type EventUpgrader interface {
	SourceVersion() int
	TargetVersion() int
	// Upgrade takes the raw JSON payload at SourceVersion and returns it at
	// TargetVersion.
	Upgrade(payload []byte) ([]byte, error)
}

// VersionedEventConfig describes one event type's schema history.
type VersionedEventConfig struct {
	EventType      string
	CurrentVersion int
	Upgraders      map[int]EventUpgrader
	Versions       map[int]shared.DomainEvent
}

// VersionRegistry holds per-event-type schema configs and runs payload
// upgrades.
type VersionRegistry struct {
	mu      sync.RWMutex
	configs map[string]*VersionedEventConfig
}

func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{
		configs: make(map[string]*VersionedEventConfig),
	}
}

// RegisterVersionedEvent registers an event type whose schema has evolved.
// The upgrader chain must cover every step from version 1 up to
// currentVersion, each moving exactly one version forward.
func (r *VersionRegistry) RegisterVersionedEvent(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	upgraderMap := make(map[int]EventUpgrader)
	for _, u := range upgraders {
		if u.TargetVersion() != u.SourceVersion()+1 {
			return fmt.Errorf("upgrader must be sequential: got %d -> %d", u.SourceVersion(), u.TargetVersion())
		}
		upgraderMap[u.SourceVersion()] = u
	}

	for v := 1; v < currentVersion; v++ {
		if _, ok := upgraderMap[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
	}

	if _, ok := versions[currentVersion]; !ok {
		return fmt.Errorf("versions map must include current version %d for event type %s", currentVersion, eventType)
	}

	r.mu.Lock()
	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		Upgraders:      upgraderMap,
		Versions:       versions,
	}
	r.mu.Unlock()
	return nil
}

// RegisterSimpleEvent registers an event type that is still on version 1.
func (r *VersionRegistry) RegisterSimpleEvent(eventType string, prototype shared.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: 1,
		Upgraders:      make(map[int]EventUpgrader),
		Versions:       map[int]shared.DomainEvent{1: prototype},
	}
}

func (r *VersionRegistry) GetConfig(eventType string) (*VersionedEventConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	return config, ok
}

func (r *VersionRegistry) GetCurrentVersion(eventType string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	if !ok {
		return 0, false
	}
	return config.CurrentVersion, true
}

func (r *VersionRegistry) IsRegistered(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.configs[eventType]
	return ok
}

func (r *VersionRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.configs))
	for eventType := range r.configs {
		out = append(out, eventType)
	}
	return out
}

// UpgradePayload runs the upgrader chain from fromVersion to the event
// type's current version, returning the upgraded payload and the version it
// now carries. Payloads already at or past the current version pass through
// untouched.
func (r *VersionRegistry) UpgradePayload(eventType string, payload []byte, fromVersion int) ([]byte, int, error) {
	config, ok := r.GetConfig(eventType)
	if !ok {
		return nil, 0, fmt.Errorf("unknown event type: %s", eventType)
	}

	if fromVersion >= config.CurrentVersion {
		return payload, config.CurrentVersion, nil
	}

	upgraded := payload
	for v := fromVersion; v < config.CurrentVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, 0, fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
		var err error
		upgraded, err = upgrader.Upgrade(upgraded)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
	}

	return upgraded, config.CurrentVersion, nil
}

// ExtractVersion reads schema_version from raw event JSON. Payloads written
// before versioning existed carry no field and count as version 1.
func ExtractVersion(payload []byte) int {
	var envelope struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return 1
	}
	if envelope.SchemaVersion == 0 {
		return 1
	}
	return envelope.SchemaVersion
}

// BaseEventUpgrader implements EventUpgrader with a map-based transform:
// unmarshal, transform, stamp the new schema_version, marshal.
type BaseEventUpgrader struct {
	sourceVersion int
	targetVersion int
	transform     func(data map[string]any) (map[string]any, error)
}

var _ EventUpgrader = (*BaseEventUpgrader)(nil)

func NewBaseEventUpgrader(source, target int, transform func(data map[string]any) (map[string]any, error)) *BaseEventUpgrader {
	return &BaseEventUpgrader{
		sourceVersion: source,
		targetVersion: target,
		transform:     transform,
	}
}

func (u *BaseEventUpgrader) SourceVersion() int {
	return u.sourceVersion
}

func (u *BaseEventUpgrader) TargetVersion() int {
	return u.targetVersion
}

func (u *BaseEventUpgrader) Upgrade(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	transformed, err := u.transform(data)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}
	transformed["schema_version"] = u.targetVersion

	result, err := json.Marshal(transformed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transformed payload: %w", err)
	}
	return result, nil
}

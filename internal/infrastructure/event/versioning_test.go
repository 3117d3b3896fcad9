package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/shared"
)

// Three schema generations of the tenant-invited event. v2 added the email
// field, v3 renamed it to contact_email and added the unit number.

type tenantInvitedV1 struct {
	shared.BaseDomainEvent
	FullName string `json:"full_name"`
}

type tenantInvitedV2 struct {
	shared.BaseDomainEvent
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type tenantInvitedV3 struct {
	shared.BaseDomainEvent
	FullName     string `json:"full_name"`
	ContactEmail string `json:"contact_email"`
	UnitNumber   string `json:"unit_number"`
}

const tenantInvitedType = "leasing.TenantInvited"

func newTenantInvitedV2() *tenantInvitedV2 {
	return &tenantInvitedV2{
		BaseDomainEvent: shared.NewVersionedBaseDomainEvent(tenantInvitedType, "Tenant", uuid.New(), uuid.New(), 2),
		FullName:        "Dana Whitfield",
		Email:           "dana@example.com",
	}
}

func newTenantInvitedV3() *tenantInvitedV3 {
	return &tenantInvitedV3{
		BaseDomainEvent: shared.NewVersionedBaseDomainEvent(tenantInvitedType, "Tenant", uuid.New(), uuid.New(), 3),
		FullName:        "Dana Whitfield",
		ContactEmail:    "dana@example.com",
		UnitNumber:      "4B",
	}
}

func tenantInvitedV1ToV2() EventUpgrader {
	return NewBaseEventUpgrader(1, 2, func(data map[string]any) (map[string]any, error) {
		data["email"] = "unknown@example.com"
		return data, nil
	})
}

func tenantInvitedV2ToV3() EventUpgrader {
	return NewBaseEventUpgrader(2, 3, func(data map[string]any) (map[string]any, error) {
		if email, ok := data["email"]; ok {
			data["contact_email"] = email
			delete(data, "email")
		}
		data["unit_number"] = ""
		return data, nil
	})
}

func tenantInvitedVersions() map[int]shared.DomainEvent {
	return map[int]shared.DomainEvent{
		1: &tenantInvitedV1{},
		2: &tenantInvitedV2{},
		3: &tenantInvitedV3{},
	}
}

func registerTenantInvited(t *testing.T, s *VersionedSerializer) {
	t.Helper()
	require.NoError(t, s.RegisterVersioned(
		tenantInvitedType,
		3,
		tenantInvitedVersions(),
		tenantInvitedV1ToV2(),
		tenantInvitedV2ToV3(),
	))
}

func TestVersionRegistry_RegisterSimpleEvent(t *testing.T) {
	registry := NewVersionRegistry()

	registry.RegisterSimpleEvent(tenantInvitedType, &tenantInvitedV1{})

	assert.True(t, registry.IsRegistered(tenantInvitedType))

	config, ok := registry.GetConfig(tenantInvitedType)
	require.True(t, ok)
	assert.Equal(t, 1, config.CurrentVersion)
	assert.Empty(t, config.Upgraders)
}

func TestVersionRegistry_RegisterVersionedEvent(t *testing.T) {
	t.Run("complete chain", func(t *testing.T) {
		registry := NewVersionRegistry()

		err := registry.RegisterVersionedEvent(tenantInvitedType, 3, tenantInvitedVersions(),
			tenantInvitedV1ToV2(), tenantInvitedV2ToV3())

		require.NoError(t, err)
		version, ok := registry.GetCurrentVersion(tenantInvitedType)
		require.True(t, ok)
		assert.Equal(t, 3, version)
	})

	t.Run("gap in the chain is rejected", func(t *testing.T) {
		registry := NewVersionRegistry()

		err := registry.RegisterVersionedEvent(tenantInvitedType, 3, tenantInvitedVersions(),
			tenantInvitedV1ToV2())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing upgrader for version 2 -> 3")
	})

	t.Run("version-skipping upgrader is rejected", func(t *testing.T) {
		registry := NewVersionRegistry()
		skipping := NewBaseEventUpgrader(1, 3, func(data map[string]any) (map[string]any, error) {
			return data, nil
		})

		err := registry.RegisterVersionedEvent(tenantInvitedType, 3, tenantInvitedVersions(), skipping)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "upgrader must be sequential")
	})
}

func TestVersionRegistry_UpgradePayload(t *testing.T) {
	registry := NewVersionRegistry()
	require.NoError(t, registry.RegisterVersionedEvent(tenantInvitedType, 3, tenantInvitedVersions(),
		tenantInvitedV1ToV2(), tenantInvitedV2ToV3()))

	v1Payload := []byte(`{"schema_version": 1, "full_name": "Dana Whitfield"}`)

	upgraded, version, err := registry.UpgradePayload(tenantInvitedType, v1Payload, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Contains(t, string(upgraded), "contact_email")
	assert.Contains(t, string(upgraded), "unit_number")
	assert.NotContains(t, string(upgraded), `"email":`)
}

func TestVersionRegistry_UpgradePayload_AlreadyCurrent(t *testing.T) {
	registry := NewVersionRegistry()
	registry.RegisterSimpleEvent(tenantInvitedType, &tenantInvitedV1{})

	payload := []byte(`{"schema_version": 1, "full_name": "Dana Whitfield"}`)

	upgraded, version, err := registry.UpgradePayload(tenantInvitedType, payload, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, payload, upgraded)
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"with version", `{"schema_version": 2, "full_name": "x"}`, 2},
		{"without version", `{"full_name": "x"}`, 1},
		{"version zero", `{"schema_version": 0}`, 1},
		{"invalid json", `not json`, 1},
		{"empty object", `{}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVersion([]byte(tt.payload)))
		})
	}
}

func TestBaseEventUpgrader(t *testing.T) {
	upgrader := NewBaseEventUpgrader(1, 2, func(data map[string]any) (map[string]any, error) {
		data["late_fee_cents"] = 2500
		return data, nil
	})

	assert.Equal(t, 1, upgrader.SourceVersion())
	assert.Equal(t, 2, upgrader.TargetVersion())

	output, err := upgrader.Upgrade([]byte(`{"schema_version": 1, "rent_cents": 185000}`))

	require.NoError(t, err)
	assert.Contains(t, string(output), `"late_fee_cents":2500`)
	assert.Contains(t, string(output), `"schema_version":2`)
}

func TestVersionedSerializer_Register_UnversionedEvent(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())

	serializer.Register(tenantInvitedType, &tenantInvitedV1{})

	assert.True(t, serializer.IsRegistered(tenantInvitedType))
	version, ok := serializer.GetCurrentVersion(tenantInvitedType)
	require.True(t, ok)
	assert.Equal(t, 1, version)
}

func TestVersionedSerializer_Serialize_CarriesSchemaVersion(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())

	data, err := serializer.Serialize(newTenantInvitedV3())

	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema_version":3`)
	assert.Contains(t, string(data), `"full_name":"Dana Whitfield"`)
}

func TestVersionedSerializer_Deserialize(t *testing.T) {
	t.Run("current version passes straight through", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())
		registerTenantInvited(t, serializer)

		original := newTenantInvitedV3()
		data, err := serializer.Serialize(original)
		require.NoError(t, err)

		deserialized, err := serializer.Deserialize(tenantInvitedType, data)
		require.NoError(t, err)

		event, ok := deserialized.(*tenantInvitedV3)
		require.True(t, ok)
		assert.Equal(t, original.FullName, event.FullName)
		assert.Equal(t, original.ContactEmail, event.ContactEmail)
		assert.Equal(t, original.UnitNumber, event.UnitNumber)
	})

	t.Run("v2 payload upgrades to v3", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())
		registerTenantInvited(t, serializer)

		v2Event := newTenantInvitedV2()
		data, err := serializer.Serialize(v2Event)
		require.NoError(t, err)

		deserialized, err := serializer.Deserialize(tenantInvitedType, data)
		require.NoError(t, err)

		event, ok := deserialized.(*tenantInvitedV3)
		require.True(t, ok)
		assert.Equal(t, v2Event.FullName, event.FullName)
		assert.Equal(t, v2Event.Email, event.ContactEmail)
		assert.Empty(t, event.UnitNumber)
	})

	t.Run("v1 payload runs the whole chain", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())
		registerTenantInvited(t, serializer)

		v1Payload := []byte(`{
			"id": "00000000-0000-0000-0000-000000000001",
			"type": "leasing.TenantInvited",
			"timestamp": "2024-01-01T00:00:00Z",
			"aggregate_id": "00000000-0000-0000-0000-000000000002",
			"aggregate_type": "Tenant",
			"business_id": "00000000-0000-0000-0000-000000000003",
			"schema_version": 1,
			"full_name": "Early Signup"
		}`)

		deserialized, err := serializer.Deserialize(tenantInvitedType, v1Payload)
		require.NoError(t, err)

		event, ok := deserialized.(*tenantInvitedV3)
		require.True(t, ok)
		assert.Equal(t, "Early Signup", event.FullName)
		assert.Equal(t, "unknown@example.com", event.ContactEmail)
		assert.Empty(t, event.UnitNumber)
	})

	t.Run("payload without a version field counts as v1", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())
		require.NoError(t, serializer.RegisterVersioned(tenantInvitedType, 2,
			map[int]shared.DomainEvent{1: &tenantInvitedV1{}, 2: &tenantInvitedV2{}},
			tenantInvitedV1ToV2()))

		payload := []byte(`{
			"id": "00000000-0000-0000-0000-000000000001",
			"type": "leasing.TenantInvited",
			"timestamp": "2024-01-01T00:00:00Z",
			"aggregate_id": "00000000-0000-0000-0000-000000000002",
			"aggregate_type": "Tenant",
			"business_id": "00000000-0000-0000-0000-000000000003",
			"full_name": "Pre-Versioning Signup"
		}`)

		deserialized, err := serializer.Deserialize(tenantInvitedType, payload)
		require.NoError(t, err)

		event, ok := deserialized.(*tenantInvitedV2)
		require.True(t, ok)
		assert.Equal(t, "Pre-Versioning Signup", event.FullName)
		assert.Equal(t, "unknown@example.com", event.Email)
	})

	t.Run("unknown type errors", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())

		_, err := serializer.Deserialize("leasing.Unmapped", []byte(`{}`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown event type")
	})
}

func TestVersionedSerializer_DeserializeToVersion(t *testing.T) {
	t.Run("stops at the requested version", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())
		registerTenantInvited(t, serializer)

		v1Payload := []byte(`{"schema_version": 1, "full_name": "Dana Whitfield"}`)

		deserialized, err := serializer.DeserializeToVersion(tenantInvitedType, v1Payload, 2)
		require.NoError(t, err)

		event, ok := deserialized.(*tenantInvitedV2)
		require.True(t, ok)
		assert.Equal(t, "Dana Whitfield", event.FullName)
		assert.Equal(t, "unknown@example.com", event.Email)
	})

	t.Run("downgrade is refused", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())
		registerTenantInvited(t, serializer)

		v3Payload := []byte(`{"schema_version": 3, "full_name": "Dana Whitfield"}`)

		_, err := serializer.DeserializeToVersion(tenantInvitedType, v3Payload, 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot downgrade")
	})

	t.Run("unknown type errors", func(t *testing.T) {
		serializer := NewVersionedSerializer(zap.NewNop())

		_, err := serializer.DeserializeToVersion("leasing.Unmapped", []byte(`{}`), 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown event type")
	})
}

func TestVersionedSerializer_RegisteredTypes(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())
	serializer.Register("leasing.TenantInvited", &tenantInvitedV1{})
	serializer.Register("leasing.LeaseActivated", &leaseActivatedEvent{})

	assert.ElementsMatch(t,
		[]string{"leasing.TenantInvited", "leasing.LeaseActivated"},
		serializer.RegisteredTypes())
}

func TestCommonUpgraders(t *testing.T) {
	upgraders := CommonUpgraders{}

	t.Run("AddField", func(t *testing.T) {
		u := upgraders.AddField(1, "grace_period_days", 5)

		output, err := u.Upgrade([]byte(`{"schema_version": 1, "rent_cents": 185000}`))

		require.NoError(t, err)
		assert.Contains(t, string(output), `"grace_period_days":5`)
	})

	t.Run("RemoveField", func(t *testing.T) {
		u := upgraders.RemoveField(1, "legacy_code")

		output, err := u.Upgrade([]byte(`{"schema_version": 1, "legacy_code": "x", "rent_cents": 185000}`))

		require.NoError(t, err)
		assert.NotContains(t, string(output), "legacy_code")
		assert.Contains(t, string(output), `"rent_cents":185000`)
	})

	t.Run("RenameField", func(t *testing.T) {
		u := upgraders.RenameField(1, "monthly_rent", "rent_cents")

		output, err := u.Upgrade([]byte(`{"schema_version": 1, "monthly_rent": 185000}`))

		require.NoError(t, err)
		assert.NotContains(t, string(output), "monthly_rent")
		assert.Contains(t, string(output), `"rent_cents":185000`)
	})

	t.Run("TransformField", func(t *testing.T) {
		u := upgraders.TransformField(1, "rent", func(v any) any {
			if dollars, ok := v.(float64); ok {
				return dollars * 100
			}
			return v
		})

		output, err := u.Upgrade([]byte(`{"schema_version": 1, "rent": 1850.5}`))

		require.NoError(t, err)
		assert.Contains(t, string(output), `"rent":185050`)
	})

	t.Run("WrapInObject", func(t *testing.T) {
		u := upgraders.WrapInObject(1, "deposit", "amount_cents")

		output, err := u.Upgrade([]byte(`{"schema_version": 1, "deposit": 185000}`))

		require.NoError(t, err)
		assert.Contains(t, string(output), `"deposit":{"amount_cents":185000}`)
	})

	t.Run("UnwrapFromObject", func(t *testing.T) {
		u := upgraders.UnwrapFromObject(1, "deposit", "amount_cents")

		output, err := u.Upgrade([]byte(`{"schema_version": 1, "deposit": {"amount_cents": 185000, "currency": "USD"}}`))

		require.NoError(t, err)
		assert.Contains(t, string(output), `"deposit":185000`)
	})
}

func TestEventMigrator_MigratePayloads(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())
	require.NoError(t, serializer.RegisterVersioned(tenantInvitedType, 2,
		map[int]shared.DomainEvent{1: &tenantInvitedV1{}, 2: &tenantInvitedV2{}},
		tenantInvitedV1ToV2()))

	migrator := NewEventMigrator(serializer, zap.NewNop())

	payloads := [][]byte{
		[]byte(`{"schema_version": 1, "full_name": "Tenant One"}`),
		[]byte(`{"schema_version": 1, "full_name": "Tenant Two"}`),
		[]byte(`{"schema_version": 2, "full_name": "Tenant Three", "email": "t3@example.com"}`),
	}

	result, err := migrator.MigratePayloads(context.Background(), tenantInvitedType, payloads)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Upgraded)
	assert.Equal(t, 1, result.AlreadyCurrent)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 2, result.ToVersion)
}

func TestEventMigrator_MigratePayloads_StopsOnCancellation(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())
	serializer.Register(tenantInvitedType, &tenantInvitedV1{})
	migrator := NewEventMigrator(serializer, zap.NewNop())

	payloads := make([][]byte, 100)
	for i := range payloads {
		payloads[i] = []byte(`{"schema_version": 1, "full_name": "x"}`)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := migrator.MigratePayloads(ctx, tenantInvitedType, payloads)

	require.Error(t, err)
	assert.Less(t, result.TotalProcessed, 100)
}

func TestEventMigrator_AnalyzePayloads(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())
	registerTenantInvited(t, serializer)
	migrator := NewEventMigrator(serializer, zap.NewNop())

	payloads := [][]byte{
		[]byte(`{"schema_version": 1}`),
		[]byte(`{"schema_version": 1}`),
		[]byte(`{"schema_version": 2}`),
		[]byte(`{"schema_version": 3}`),
	}

	analysis, err := migrator.AnalyzePayloads(tenantInvitedType, payloads)

	require.NoError(t, err)
	assert.Equal(t, tenantInvitedType, analysis.EventType)
	assert.Equal(t, 3, analysis.CurrentVersion)
	assert.Equal(t, 4, analysis.TotalEvents)
	assert.Equal(t, 3, analysis.NeedsMigration)
	assert.Equal(t, 1, analysis.UpToDate)
	assert.Equal(t, 1, analysis.OldestVersion)
	assert.Equal(t, 3, analysis.NewestVersion)
	assert.Equal(t, 2, analysis.VersionCounts[1])
	assert.Equal(t, 1, analysis.VersionCounts[2])
	assert.Equal(t, 1, analysis.VersionCounts[3])
}

func TestEventMigrator_ValidateUpgradeChain(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())
	registerTenantInvited(t, serializer)
	migrator := NewEventMigrator(serializer, zap.NewNop())

	assert.NoError(t, migrator.ValidateUpgradeChain(tenantInvitedType))
	assert.Error(t, migrator.ValidateUpgradeChain("leasing.Unmapped"))
}

func TestEventMigrator_CreateMigrationPlan(t *testing.T) {
	serializer := NewVersionedSerializer(zap.NewNop())
	registerTenantInvited(t, serializer)
	migrator := NewEventMigrator(serializer, zap.NewNop())

	plan, err := migrator.CreateMigrationPlan(tenantInvitedType, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.FromVersion)
	assert.Equal(t, 3, plan.ToVersion)
	assert.Len(t, plan.UpgradeSteps, 2)
	assert.True(t, plan.IsValid())

	plan, err = migrator.CreateMigrationPlan(tenantInvitedType, 3)
	require.NoError(t, err)
	assert.Empty(t, plan.UpgradeSteps)
}

func TestMigrationStats(t *testing.T) {
	stats := NewMigrationStats()

	stats.RecordMigration(tenantInvitedType, 1, 2, 10.5, true)
	stats.RecordMigration(tenantInvitedType, 1, 2, 5.5, true)
	stats.RecordMigration(tenantInvitedType, 2, 3, 3.0, true)
	stats.RecordMigration(tenantInvitedType, 1, 2, 0, false)

	eventStats, ok := stats.GetStats(tenantInvitedType)
	require.True(t, ok)
	assert.Equal(t, int64(3), eventStats.TotalMigrated)
	assert.Equal(t, int64(1), eventStats.TotalFailed)
	assert.Greater(t, eventStats.AverageDurationMs, float64(0))
	assert.Equal(t, int64(3), eventStats.MigrationsByVersion["v1->v2"])
	assert.Equal(t, int64(1), eventStats.MigrationsByVersion["v2->v3"])

	_, ok = stats.GetStats("leasing.Unmapped")
	assert.False(t, ok)
}

func TestMigrationResult_Duration(t *testing.T) {
	result := &MigrationResult{
		StartedAt:   time.Now().Add(-5 * time.Second),
		CompletedAt: time.Now(),
	}

	duration := result.Duration()
	assert.GreaterOrEqual(t, duration, 4*time.Second)
	assert.LessOrEqual(t, duration, 6*time.Second)
}

func TestCopyPayload(t *testing.T) {
	original := []byte(`{"rent_cents": 185000, "terms": {"months": 12}}`)

	copied, err := CopyPayload(original)
	require.NoError(t, err)

	assert.Contains(t, string(copied), `"rent_cents":185000`)
	assert.Contains(t, string(copied), `"terms"`)

	original[0] = 'X'
	assert.NotEqual(t, original[0], copied[0])
}

func TestBaseDomainEvent_SchemaVersion(t *testing.T) {
	base := shared.NewBaseDomainEvent("leasing.LeaseActivated", "Lease", uuid.New(), uuid.New())
	assert.Equal(t, 1, base.SchemaVersion())

	base = shared.NewVersionedBaseDomainEvent("leasing.LeaseActivated", "Lease", uuid.New(), uuid.New(), 3)
	assert.Equal(t, 3, base.SchemaVersion())

	// Zero and negative versions fall back to 1.
	base = shared.BaseDomainEvent{Version: 0}
	assert.Equal(t, 1, base.SchemaVersion())

	base = shared.NewVersionedBaseDomainEvent("leasing.LeaseActivated", "Lease", uuid.New(), uuid.New(), -5)
	assert.Equal(t, 1, base.SchemaVersion())

	base = shared.NewVersionedBaseDomainEvent("leasing.LeaseActivated", "Lease", uuid.New(), uuid.New(), 0)
	assert.Equal(t, 1, base.SchemaVersion())
}

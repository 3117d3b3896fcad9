package event

/*
Event schema versioning

Outbox rows and anything a broker replays can outlive the Go structs
that produced them. A LeaseCreated payload written in March must still
deserialize in September after the struct gained a field. The pieces
that make that work:

  - shared.BaseDomainEvent carries a schema_version field, serialized
    with the payload. Payloads without one are read as version 1.
  - EventUpgrader transforms a payload map one version step forward.
    Upgraders chain strictly sequentially: 1->2, 2->3, never 1->3.
  - VersionRegistry holds, per event type, the current version, a
    prototype struct per version, and the upgrader chain.
  - VersionedSerializer wraps the plain EventSerializer and runs the
    upgrader chain during deserialization, so handlers only ever see
    the current shape.

Registering an unversioned event stays a one-liner:

	serializer.Register("RentPaymentSettled", &leasing.RentPaymentSettledEvent{})

Evolving a schema means writing the new struct, one upgrader, and a
versioned registration:

	v1ToV2 := NewBaseEventUpgrader(1, 2, func(data map[string]any) (map[string]any, error) {
		data["late_fee_cents"] = int64(0) // field introduced in v2
		return data, nil
	})

	err := serializer.RegisterVersioned(
		"RentPaymentSettled",
		2,
		map[int]shared.DomainEvent{
			1: &leasing.RentPaymentSettledEventV1{},
			2: &leasing.RentPaymentSettledEvent{},
		},
		v1ToV2,
	)

CommonUpgraders covers the mechanical cases (AddField, RenameField,
RemoveField, TransformField) so most transitions need no custom
function. EventMigrator batch-upgrades payloads already sitting in
storage; AnalyzePayloads reports how many rows are behind before
anything is rewritten.

Rules that keep this sane:

  - A change that adds, removes, renames, or retypes a field bumps the
    version and ships an upgrader in the same release.
  - Upgraders are deterministic and tolerate missing fields.
  - Event type names never change; routing keys on them. A rename is a
    new event type.
  - Deploy the upgrader before any producer emits the new version,
    then run the batch migration for stored rows.

Failure behavior: an unknown event type or a gap in the upgrader chain
is an error and the event is not processed; an upgrade failure leaves
the original payload untouched; an unparseable version field falls
back to version 1.
*/

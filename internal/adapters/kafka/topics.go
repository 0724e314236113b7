package kafka

// Topic names for mindshare events
const (
	// TopicSnapshotEvents carries snapshot-completed events, one per
	// (window, as-of) normalization pass
	TopicSnapshotEvents = "mindshare.snapshot.events"

	// TopicSystemEvents carries worker failures and invariant alerts
	TopicSystemEvents = "mindshare.system.events"
)

package platform

// Urgency maps to the freedesktop notification urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification
	// center should display with the notification if supported.
	IconPath string

	// Urgency controls how intrusively the server presents the
	// notification. Save and capture failures go out critical so they
	// survive do-not-disturb filtering.
	Urgency Urgency

	// ExpireMs overrides the server default expiry. Zero keeps the
	// default; critical notifications typically ignore it.
	ExpireMs int32
}

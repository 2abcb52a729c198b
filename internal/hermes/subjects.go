package hermes

const (
	SubjectSWOTAll = "risk.swot.>"

	StreamName   = "BOBOT_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectSWOTSeeded(unitID string) string     { return "risk.swot." + unitID + ".seeded" }
func SubjectSWOTRebalanced(unitID string) string { return "risk.swot." + unitID + ".rebalanced" }
func SubjectSeedRunCompleted() string            { return "risk.swot.run.completed" }

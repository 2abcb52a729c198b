package hermes

import "testing"

func TestSubjectsFallUnderStream(t *testing.T) {
	subjects := []string{
		SubjectSWOTSeeded("u1"),
		SubjectSWOTRebalanced("u1"),
		SubjectSeedRunCompleted(),
	}
	for _, s := range subjects {
		if len(s) < len("risk.swot.") || s[:len("risk.swot.")] != "risk.swot." {
			t.Errorf("subject %q is not covered by %s", s, SubjectSWOTAll)
		}
	}
	if got := SubjectSWOTSeeded("abc"); got != "risk.swot.abc.seeded" {
		t.Errorf("unexpected seeded subject %q", got)
	}
	if got := SubjectSWOTRebalanced("abc"); got != "risk.swot.abc.rebalanced" {
		t.Errorf("unexpected rebalanced subject %q", got)
	}
}

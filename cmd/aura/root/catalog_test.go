package root

import (
	"bytes"
	"strings"
	"testing"
)

func TestCatalogKeys(t *testing.T) {
	if got := skillKeys(); !strings.HasPrefix(got, "discipline|focus|") || strings.Count(got, "|") != 7 {
		t.Fatalf("skillKeys=%q", got)
	}
	if got := achievementKeys(); !strings.Contains(got, "premier_pas") || !strings.Contains(got, "maitre_skill") {
		t.Fatalf("achievementKeys=%q", got)
	}
}

func TestQuestTemplatesCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newQuestTemplatesCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"Lève-tôt", "Triple Habitude", "Boss: Fatigue", "+500 XP"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("templates output missing %q:\n%s", want, out.String())
		}
	}
}

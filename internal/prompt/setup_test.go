package prompt

import (
	"strings"
	"testing"

	"github.com/taskchain/pmq/internal/backend"
)

func TestURLPlaceholderPerBackend(t *testing.T) {
	if got := urlPlaceholder(backend.IDJira); !strings.Contains(got, "atlassian.net") {
		t.Errorf("jira placeholder = %q, want an atlassian.net URL", got)
	}
	if got := urlPlaceholder(backend.IDTrello); !strings.Contains(got, "trello.com") {
		t.Errorf("trello placeholder = %q, want a trello.com URL", got)
	}
	if got := urlPlaceholder(backend.IDTaskChain); got == "" {
		t.Error("default placeholder should not be empty")
	}
}

func TestTokenHintPerBackend(t *testing.T) {
	if got := tokenHint(backend.IDTrello); !strings.Contains(got, "key:token") {
		t.Errorf("trello hint = %q, want key:token format guidance", got)
	}
	if got := tokenHint(backend.IDAsana); !strings.Contains(got, "Asana") {
		t.Errorf("asana hint = %q, want Asana-specific guidance", got)
	}
	if got := tokenHint(backend.IDTaskChain); !strings.Contains(got, "keychain") {
		t.Errorf("default hint = %q, want keychain storage note", got)
	}
}

func TestBackendDescriptionsCoverAllIDs(t *testing.T) {
	for _, id := range backend.IDs() {
		if _, ok := backendDescriptions[id]; !ok {
			t.Errorf("no setup description for backend %q", id)
		}
	}
}

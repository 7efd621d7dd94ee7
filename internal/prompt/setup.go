package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/taskchain/pmq/internal/backend"
	"github.com/taskchain/pmq/internal/config"
	"github.com/taskchain/pmq/internal/hostutil"
)

// SetupResult holds the answers from the setup wizard.
type SetupResult struct {
	Backend string
	BaseURL string
	Token   string
	Timeout int
}

// backendDescriptions gives the wizard a one-liner per backend.
var backendDescriptions = map[string]string{
	backend.IDTaskChain: "Native backend with critical chain scheduling",
	backend.IDJira:      "Atlassian Jira Cloud or Server",
	backend.IDAsana:     "Asana workspaces",
	backend.IDTrello:    "Trello boards",
	backend.IDCustom:    "Any REST API with a compatible surface",
}

// RunSetup walks the user through connecting a backend. Defaults come from
// the current config so re-running the wizard edits rather than resets.
func RunSetup(current *config.Config) (*SetupResult, error) {
	result := &SetupResult{
		Backend: current.Backend,
		BaseURL: current.BaseURL,
		Timeout: current.Timeout,
	}

	options := make([]SelectOption, 0, len(backend.IDs()))
	for _, id := range backend.IDs() {
		label := backend.Resolve(id).Name
		if desc := backendDescriptions[id]; desc != "" {
			label = fmt.Sprintf("%s (%s)", label, desc)
		}
		options = append(options, SelectOption{Value: id, Label: label})
	}

	chosen, err := Select("Which backend are you connecting to?", "", options)
	if err != nil {
		return nil, err
	}
	result.Backend = chosen

	baseURL, err := InputValidated("Base URL", urlPlaceholder(chosen), func(s string) error {
		if s == "" {
			return errors.New("base URL is required")
		}
		return hostutil.RequireSecureURL(hostutil.Normalize(s))
	})
	if err != nil {
		return nil, err
	}
	result.BaseURL = config.NormalizeBaseURL(hostutil.Normalize(baseURL))

	token, err := promptToken(chosen)
	if err != nil {
		return nil, err
	}
	result.Token = token

	timeoutStr, err := Input("Request timeout (seconds)", "30", strconv.Itoa(result.Timeout))
	if err != nil {
		return nil, err
	}
	if timeout, err := strconv.Atoi(strings.TrimSpace(timeoutStr)); err == nil && timeout > 0 {
		result.Timeout = timeout
	}

	return result, nil
}

// promptToken collects credentials in the shape each backend expects.
// Jira encodes "email:apitoken", so it gets a two-step prompt.
func promptToken(backendID string) (string, error) {
	if backendID == backend.IDJira {
		email, err := InputValidated("Atlassian account email", "you@example.com", func(s string) error {
			if !strings.Contains(s, "@") {
				return errors.New("enter the email of your Atlassian account")
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		apiToken, err := Secret("API token", "Create one at id.atlassian.com/manage-profile/security/api-tokens")
		if err != nil {
			return "", err
		}
		return email + ":" + apiToken, nil
	}

	return Secret("API token", tokenHint(backendID))
}

func urlPlaceholder(backendID string) string {
	switch backendID {
	case backend.IDJira:
		return "https://yourcompany.atlassian.net"
	case backend.IDAsana:
		return "https://app.asana.com/api/1.0"
	case backend.IDTrello:
		return "https://api.trello.com/1"
	default:
		return "https://pm.example.com"
	}
}

func tokenHint(backendID string) string {
	switch backendID {
	case backend.IDTrello:
		return `Paste as key:token; it is sent as OAuth consumer key and token`
	case backend.IDAsana:
		return "A personal access token from the Asana developer console"
	default:
		return "The token is stored in your system keychain when available"
	}
}

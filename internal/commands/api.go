package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/taskchain/pmq/internal/output"
)

// NewAPICmd creates the api command for raw backend requests.
func NewAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Make raw API requests to the backend",
		Long: `Send requests directly to the configured backend.

Paths are relative to the configured base URL. Query parameters are
passed as key=value arguments. Use --jq to filter the response with a
jq expression before output.

Examples:
  pmq api get /api/tasks status=pending per_page=5
  pmq api get /api/tasks --jq '.[].name'
  pmq api post /api/tasks --data '{"name":"New task"}'
  pmq api delete /api/tasks/42`,
	}

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		cmd.AddCommand(newAPIMethodCmd(method))
	}

	return cmd
}

func newAPIMethodCmd(method string) *cobra.Command {
	verb := strings.ToLower(method)
	var data string
	var jqExpr string

	cmd := &cobra.Command{
		Use:   verb + " <path> [key=value...]",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			app, err := requireApp(cmd)
			if err != nil {
				return err
			}

			path, query, err := parseAPIPath(cmdArgs)
			if err != nil {
				return err
			}

			var body any
			if data != "" {
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return output.ErrUsageHint("Invalid JSON in --data",
						"Pass a valid JSON object, e.g. --data '{\"name\":\"value\"}'")
				}
			}

			raw, err := app.Adapter.Raw(cmd.Context(), method, path, query, body)
			if err != nil {
				return err
			}

			result := output.NormalizeData(raw)
			if jqExpr != "" {
				// gojq only accepts plain unmarshaled values as input
				var input any
				if err := json.Unmarshal(raw, &input); err != nil {
					input = string(raw)
				}
				result, err = applyJQ(jqExpr, input)
				if err != nil {
					return err
				}
			}

			return app.OK(result, output.WithSummary(apiSummary(method, path, raw)))
		},
	}

	if method == http.MethodPost || method == http.MethodPut {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	}
	cmd.Flags().StringVar(&jqExpr, "jq", "", "Filter the response with a jq expression")

	return cmd
}

// parseAPIPath splits args into the request path and key=value query params.
func parseAPIPath(cmdArgs []string) (string, url.Values, error) {
	path := cmdArgs[0]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var query url.Values
	for _, arg := range cmdArgs[1:] {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return "", nil, output.ErrUsageHint(
				fmt.Sprintf("Invalid query parameter %q", arg),
				"Query parameters take the form key=value")
		}
		if query == nil {
			query = url.Values{}
		}
		query.Add(k, v)
	}
	return path, query, nil
}

// applyJQ runs a jq expression over the response. A filter producing a
// single value returns it bare; multiple outputs come back as an array.
func applyJQ(expr string, input any) (any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, output.ErrUsageHint(
			fmt.Sprintf("Invalid jq expression: %v", err),
			"See https://jqlang.org/manual/ for syntax")
	}

	var results []any
	iter := q.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if itErr, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(itErr, &halt) && halt.Value() == nil {
				break
			}
			return nil, output.ErrUsage(fmt.Sprintf("jq: %v", itErr))
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func apiSummary(method, path string, raw json.RawMessage) string {
	if n := countItems(raw); n >= 0 {
		return fmt.Sprintf("%s %s (%d items)", method, path, n)
	}
	return fmt.Sprintf("%s %s", method, path)
}

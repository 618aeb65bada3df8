package chat

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/datachat-ai/datachat/internal/analytics"
	"github.com/datachat-ai/datachat/internal/llm"
)

// ToolName enumerates the analytic operations the model may invoke.
// Dispatch is a closed variant over this set; unknown names are rejected.
type ToolName string

const (
	ToolMinMaxMean         ToolName = "get_min_max_mean"
	ToolCategoryAggregates ToolName = "create_category_aggregates"
	ToolCompareColumns     ToolName = "compare_columns"
)

// toolDefinitions declares the analytic tools and their argument schemas.
func toolDefinitions() []llm.Tool {
	csvPath := jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "Path to the CSV file",
	}
	return []llm.Tool{
		{
			Name:        string(ToolMinMaxMean),
			Description: "Get the minimum maximum and average values per column",
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: map[string]jsonschema.Definition{"csv_path": csvPath},
				Required:   []string{"csv_path"},
			},
		},
		{
			Name: string(ToolCategoryAggregates),
			Description: "Computes a set of aggregates for each column. Has both numeric and categorical columns " +
				"and gives insights on frequency of appearance of each column",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"csv_path": csvPath,
					"column_of_interest": {
						Type:        jsonschema.String,
						Description: "Name of the column to focus on",
					},
				},
				Required: []string{"csv_path"},
			},
		},
		{
			Name:        string(ToolCompareColumns),
			Description: "Compares any two columns in a CSV file by performing a cross-tabulation and returning aggregated data.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"csv_path": csvPath,
					"column1": {
						Type:        jsonschema.String,
						Description: "Name of the first column to compare",
					},
					"column2": {
						Type:        jsonschema.String,
						Description: "Name of the second column to compare",
					},
				},
				Required: []string{"csv_path", "column1", "column2"},
			},
		},
	}
}

type minMaxMeanArgs struct {
	CSVPath string `json:"csv_path"`
}

type categoryAggregatesArgs struct {
	CSVPath          string `json:"csv_path"`
	ColumnOfInterest string `json:"column_of_interest"`
}

type compareColumnsArgs struct {
	CSVPath string `json:"csv_path"`
	Column1 string `json:"column1"`
	Column2 string `json:"column2"`
}

// toolOutcome is the result of one dispatched tool call: the rendered
// analytic result plus the follow-up prompt asking the model to explain it.
type toolOutcome struct {
	Result   string
	FollowUp []llm.Message
}

// dispatchTool validates a tool call's arguments, re-resolves the csv_path
// argument to the current dataset's real path (a model-provided path is
// never trusted), and invokes the corresponding analytic function.
func dispatchTool(call llm.ToolCall, resolvePath func() (string, error), query string) (*toolOutcome, error) {
	path, err := resolvePath()
	if err != nil {
		return nil, err
	}

	switch ToolName(call.Name) {
	case ToolMinMaxMean:
		var args minMaxMeanArgs
		if err := json.Unmarshal([]byte(call.ArgumentsJSON), &args); err != nil {
			return nil, fmt.Errorf("invalid %s arguments: %w", call.Name, err)
		}
		result, err := analytics.MinMaxMean(path)
		if err != nil {
			return nil, err
		}
		return &toolOutcome{Result: result, FollowUp: explainSummaryMessages(result, query)}, nil

	case ToolCategoryAggregates:
		var args categoryAggregatesArgs
		if err := json.Unmarshal([]byte(call.ArgumentsJSON), &args); err != nil {
			return nil, fmt.Errorf("invalid %s arguments: %w", call.Name, err)
		}
		agg, err := analytics.CategoryAggregates(path)
		if err != nil {
			return nil, err
		}
		return &toolOutcome{Result: agg.Categorical, FollowUp: explainSummaryMessages(agg.Categorical, query)}, nil

	case ToolCompareColumns:
		var args compareColumnsArgs
		if err := json.Unmarshal([]byte(call.ArgumentsJSON), &args); err != nil {
			return nil, fmt.Errorf("invalid %s arguments: %w", call.Name, err)
		}
		if args.Column1 == "" || args.Column2 == "" {
			return nil, fmt.Errorf("%s requires column1 and column2", call.Name)
		}
		result, err := analytics.CompareColumns(path, args.Column1, args.Column2)
		if err != nil {
			return nil, err
		}
		return &toolOutcome{
			Result:   result,
			FollowUp: explainComparisonMessages(result, args.Column1, args.Column2, query),
		}, nil

	default:
		return nil, fmt.Errorf("unknown function %q", call.Name)
	}
}

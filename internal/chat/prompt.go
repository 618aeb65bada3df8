package chat

import (
	"fmt"
	"strings"

	"github.com/datachat-ai/datachat/internal/llm"
)

// documentMessages builds the prompt for document chat. The system
// instructions deliberately switch between two modes: with retrieved
// context the model must answer solely from it; with no context it must ask
// the user to provide training material instead of apologizing.
func documentMessages(chunks []string, history []llm.Message, query string) []llm.Message {
	context := strings.TrimSpace(strings.Join(chunks, "\n"))

	var messages []llm.Message
	var userContent string
	if context != "" {
		messages = append(messages,
			llm.Message{
				Role:    llm.RoleSystem,
				Content: "You are an AI assistant that provides answers based solely on the provided documents.",
			},
			llm.Message{
				Role:    llm.RoleSystem,
				Content: "Do not answer outside the given documents. If no relevant information is found, say: 'I am sorry. I don't have knowledge over what you ask.'",
			},
		)
		userContent = fmt.Sprintf("User query: %s\n\nRelevant documents:\n%s", query, context)
	} else {
		messages = append(messages, llm.Message{
			Role: llm.RoleSystem,
			Content: "You are an AI assistant. Currently, there is no context provided from any documents. " +
				"Instead of answering with a default apology, instruct the user to train you on the subject. " +
				"For example, say: 'I don't have any context to answer this query. Please provide training materials on this topic and try again.'",
		})
		userContent = fmt.Sprintf("User query: %s\n\nNo relevant documents found.", query)
	}

	messages = append(messages, history...)
	return append(messages, llm.Message{Role: llm.RoleUser, Content: userContent})
}

// datasetMessages builds the prompt for dataset chat with tool support.
func datasetMessages(chunks []string, history []llm.Message, query string) []llm.Message {
	context := strings.Join(chunks, "\n\n")

	messages := []llm.Message{{
		Role: llm.RoleSystem,
		Content: "You are a helpful assistant. When you receive queries that ask about trends - such as which " +
			"category is used most or least often, or questions regarding frequency or averages - first use the " +
			"available functions to retrieve data from the CSV file, then base your answer solely on that data. " +
			"Do not include raw table data in your final answer unless the user explicitly requests it.",
	}}
	messages = append(messages, history...)
	return append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Answer the following query based on the provided text:\n\n%s\n\nQuery: %s\nAnswer:", context, query),
	})
}

// explainSummaryMessages asks the model for a concise explanation of an
// analytic summary table. The raw table is context only and must not be
// echoed unless the user explicitly asked for raw data.
func explainSummaryMessages(summary, query string) []llm.Message {
	return []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: "You are a helpful data analysis assistant. When providing insights based on summary tables, " +
				"offer a concise explanation without including the raw table data unless explicitly requested by the user.",
		},
		{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"Below is a summary table showing key statistics for a dataset (provided for context only):\n%s\n\n"+
					"Based on the above data, please provide a concise explanation of the key insights. "+
					"Do NOT include the raw table data in your response. "+
					"Only include the raw table data if the user explicitly requests it (for example, using phrases like 'raw data' or 'raw table').\n\n"+
					"User Query: %s\nYour explanation:", summary, query),
		},
	}
}

// explainComparisonMessages asks the model to explain a cross-tabulation of
// two columns.
func explainComparisonMessages(comparison, column1, column2, query string) []llm.Message {
	return []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: "You are a helpful data analysis assistant. When comparing two dataset columns, provide a " +
				"concise, insightful explanation of the relationship between the columns. " +
				"Do not include the raw cross-tabulation data in your final response.",
		},
		{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"Below is a cross-tabulation between the '%s' and '%s' columns of a dataset.\n"+
					"Use this data to provide a concise explanation comparing the two columns in terms of frequency, patterns, or relationships.\n"+
					"Do NOT output the raw cross-tabulated data; only provide a summary explanation that accurately answers the query.\n"+
					"User Query: %s\nCross-Tabulation Data:\n%s\nYour explanation:", column1, column2, query, comparison),
		},
	}
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lnkd/linkedin-cli/internal/api"
	"github.com/lnkd/linkedin-cli/internal/config"
)

// HandleError renders err for stderr. JSON output gets the structured
// form so scripts can branch on the code; text output gets a message and
// suggestions.
func HandleError(err error) string {
	if err == nil {
		return ""
	}
	structured := api.StructuredErrorFromError(err)
	if flags.Output == "json" && structured != nil {
		data, jerr := json.Marshal(map[string]any{"error": structured})
		if jerr == nil {
			return string(data) + "\n"
		}
	}

	var msg strings.Builder
	switch {
	case structured != nil:
		fmt.Fprintf(&msg, "Error: %s\n", structured.Message)
		if structured.Suggestion != "" {
			fmt.Fprintf(&msg, "\nSuggestion: %s\n", structured.Suggestion)
		}
		if len(structured.Context) > 0 {
			msg.WriteString("\n")
			keys := make([]string, 0, len(structured.Context))
			for k := range structured.Context {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&msg, "  %s: %v\n", k, structured.Context[k])
			}
		}

	case errors.Is(err, config.ErrNotConfigured):
		fmt.Fprintf(&msg, "Error: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: li auth login\n")
		msg.WriteString("  - Or export LINKEDIN_ACCESS_TOKEN\n")

	case strings.Contains(err.Error(), "connection refused"):
		fmt.Fprintf(&msg, "Error: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL: li auth status\n")
		msg.WriteString("  - Check your network connection\n")

	case strings.Contains(err.Error(), "no such host"):
		fmt.Fprintf(&msg, "Error: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the LINKEDIN_API_BASE_URL spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err)
	}
	return msg.String()
}

package main

import (
	"encoding/json"
	"fmt"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	result, err := deps.Controller.Get(deps.Ctx, c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(deps.Stdout, "Render:  %s\n", result.RenderID)
	fmt.Fprintf(deps.Stdout, "Status:  %s\n", result.Status)
	if result.RetryAfter > 0 {
		fmt.Fprintf(deps.Stdout, "Retry:   %gs\n", result.RetryAfter)
	}
	if result.SelectedCity != "" {
		fmt.Fprintf(deps.Stdout, "City:    %s\n", result.SelectedCity)
	}
	if result.HTML != "" {
		fmt.Fprintf(deps.Stdout, "HTML:    %s\n", formatBytes(len(result.HTML)))
	}
	if result.Error != "" {
		fmt.Fprintf(deps.Stdout, "Error:   %s\n", result.Error)
	}
	return nil
}

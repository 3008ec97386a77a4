package main

import (
	"encoding/json"
	"fmt"
)

// Run executes the balance command.
func (c *BalanceCmd) Run(deps *Dependencies) error {
	balance, err := deps.Controller.Balance(deps.Ctx)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(balance)
	}

	fmt.Fprintf(deps.Stdout, "Balance: %s\n", balance.TotalBalanceFormatted)
	fmt.Fprintf(deps.Stdout, "  paid:  %s\n", balance.Breakdown.Paid.Formatted)
	fmt.Fprintf(deps.Stdout, "  free:  %s\n", balance.Breakdown.Free.Formatted)
	fmt.Fprintf(deps.Stdout, "  bonus: %s\n", balance.Breakdown.Bonus.Formatted)
	return nil
}

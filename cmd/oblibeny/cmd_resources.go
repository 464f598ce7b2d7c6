package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Hyperpolymath/boinc-boinc/internal/resources"
	"github.com/Hyperpolymath/boinc-boinc/internal/sexpr"
)

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Print per-function WCET bounds and the declared program budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			f, name, err := openInput()
			if err != nil {
				return err
			}
			defer f.Close()

			exprs, err := sexpr.Parse(name, f)
			if err != nil {
				return err
			}

			a := resources.NewAnalyzer()
			perFn, total, analysisErr := a.AnalyzeProgram(exprs)
			if analysisErr != nil {
				if flagJSON {
					out, _ := json.MarshalIndent(analysisErr, "", "  ")
					fmt.Println(string(out))
				} else {
					fmt.Println(renderPassFail(false, "Resource Analysis"))
					fmt.Println("  " + analysisErr.Error())
				}
				return errAnalysisFailed
			}

			budget, hasBudget := resources.ExtractBudget(exprs)

			if flagJSON {
				out := struct {
					PerFunction map[string]resources.Bounds `json:"per_function_bounds"`
					Total       resources.Bounds             `json:"total_bounds"`
					Budget      *resources.Bounds            `json:"budget,omitempty"`
					Admissible  *bool                        `json:"resource_admissible,omitempty"`
				}{PerFunction: perFn, Total: total}
				if hasBudget {
					out.Budget = &budget
					fits := total.FitsWithin(budget)
					out.Admissible = &fits
				}
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}

			fmt.Println("=== Resource Bounds ===")
			names := make([]string, 0, len(perFn))
			for n := range perFn {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				b := perFn[n]
				fmt.Printf("  %s: time=%dms memory=%db network=%db storage=%db\n",
					n, b.TimeMs, b.MemoryBytes, b.NetworkBytes, b.StorageBytes)
			}
			fmt.Println()
			fmt.Printf("Total: time=%dms memory=%db network=%db storage=%db\n",
				total.TimeMs, total.MemoryBytes, total.NetworkBytes, total.StorageBytes)

			if hasBudget {
				fmt.Printf("Budget: time=%dms memory=%db network=%db storage=%db\n",
					budget.TimeMs, budget.MemoryBytes, budget.NetworkBytes, budget.StorageBytes)
				fmt.Println(renderPassFail(total.FitsWithin(budget), "Resource Admissible"))
			} else {
				fmt.Println(renderDim("(no resource-budget declared; skipping admissibility check)"))
			}

			if hasBudget && !total.FitsWithin(budget) {
				return errAnalysisFailed
			}
			return nil
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hyperpolymath/boinc-boinc/internal/sexpr"
	"github.com/Hyperpolymath/boinc-boinc/internal/termination"
)

func newCheckTerminationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-termination",
		Short: "Check termination only (call-graph acyclicity + bounded loops)",
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

			checker := termination.NewChecker(exprs)
			res := checker.CheckTerminates(exprs)

			if flagJSON {
				out, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			} else {
				fmt.Println(renderPassFail(res.OK(), "Termination Check"))
				for _, e := range res.Errors {
					fmt.Println("  " + e.Error())
				}
			}

			if !res.OK() {
				return errAnalysisFailed
			}
			return nil
		},
	}
}

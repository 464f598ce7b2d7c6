package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hyperpolymath/boinc-boinc/internal/phaseseparator"
	"github.com/Hyperpolymath/boinc-boinc/internal/sexpr"
)

func newCheckPhasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-phases",
		Short: "Check phase separation only (invariant I1)",
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

			res := phaseseparator.Validate(exprs)

			if flagJSON {
				out, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			} else {
				fmt.Println(renderPassFail(res.OK(), "Phase Check"))
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

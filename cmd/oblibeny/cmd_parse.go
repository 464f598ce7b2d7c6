package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/sexpr"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Parse an Oblibeny source file and print its AST",
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

			if flagJSON {
				raws := make([]json.RawMessage, len(exprs))
				for i, e := range exprs {
					raw, err := ast.ToJSON(e)
					if err != nil {
						return err
					}
					raws[i] = raw
				}
				out, err := json.MarshalIndent(raws, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			for _, e := range exprs {
				if flagPretty {
					fmt.Println(ast.Pretty(e))
				} else {
					fmt.Println(e.String())
				}
			}
			return nil
		},
	}
}

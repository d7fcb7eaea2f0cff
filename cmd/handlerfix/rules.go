package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"handlerfix/internal/rewrite"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the built-in assertion rule table",
	Long: `List the assertion rules used to choose the narrowing statement inserted
into each rewritten handler body. Rules are evaluated in the order shown,
most specific fragment first; the final catch-all casts the whole parameter
to its declared type verbatim.

The table is fixed, built-in configuration and cannot be changed at run time.`,
	Run: runRules,
}

func init() {
	rulesCmd.Flags().StringVarP(&rulesFormat, "output", "o", "human", "Output format: human, json, yaml")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) {
	switch rulesFormat {
	case "json":
		output, err := json.MarshalIndent(rewrite.Rules, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(output))
	case "yaml":
		output, err := yaml.Marshal(rewrite.Rules)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(output))
	default: // human
		fmt.Printf("Assertion Rules (evaluated in order)\n")
		fmt.Printf("------------------------------------\n")
		for i, r := range rewrite.Rules {
			fragment := r.Fragment
			if fragment == "" {
				fragment = "<any declared type>"
			}
			fmt.Printf("%2d. %-24s %s\n", i+1, r.Name, fragment)
			fmt.Printf("    binds: %s\n", strings.Join(r.Bindings(), ", "))
		}
	}
}

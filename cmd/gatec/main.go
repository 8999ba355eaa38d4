//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Command gatec compiles and runs the built-in example circuit
// functions: `gatec list` shows them, `gatec compile` emits a circuit
// file, `gatec run` evaluates one against concrete arguments.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppcircuit/gatec/compiler/builder"
	"github.com/ppcircuit/gatec/compiler/utils"
	"github.com/ppcircuit/gatec/examples"
	"github.com/ppcircuit/gatec/executor"
	"github.com/ppcircuit/gatec/gc"
	"github.com/ppcircuit/gatec/value"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gatec: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "gatec",
	Short:        "compile numeric functions into boolean gate circuits",
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list the built-in circuit functions",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, fn := range examples.Funcs() {
			fmt.Printf("%s(", fn.Name)
			for i, p := range fn.Params {
				if i > 0 {
					fmt.Print(", ")
				}
				fmt.Printf("%s %s", p.Name, p.Type)
			}
			fmt.Printf(") %s\n", fn.Ret)
		}
		return nil
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile function [arg...]",
	Short: "compile a function and write the circuit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, vals, err := resolve(args)
		if err != nil {
			return err
		}
		p := params()
		defer p.Close()
		p.CircFormat = viper.GetString("format")
		if out := viper.GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			p.CircOut = f
		}
		if dot := viper.GetString("dot"); dot != "" {
			f, err := os.Create(dot)
			if err != nil {
				return err
			}
			p.CircDotOut = f
		}

		res, err := builder.Compile(p, fn, vals)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", fn.Name, res.Circuit)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run function [arg...]",
	Short: "compile a function and evaluate it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, vals, err := resolve(args)
		if err != nil {
			return err
		}

		var exec executor.Executor
		switch name := viper.GetString("executor"); name {
		case "plaintext":
			exec = executor.Plaintext{}
		case "garbled":
			exec = gc.NewExecutor()
		default:
			return fmt.Errorf("unknown executor %q", name)
		}

		result, err := builder.Run(context.Background(), params(), fn, exec, vals)
		if err != nil {
			return err
		}
		fmt.Println(examples.Format(fn, result))
		return nil
	},
}

func params() *utils.Params {
	p := utils.NewParams()
	p.Verbose = viper.GetBool("verbose")
	return p
}

// resolve looks up the named function and parses its arguments; missing
// arguments default to zero.
func resolve(args []string) (*builder.Func, []value.Value, error) {
	fn, err := examples.Lookup(args[0])
	if err != nil {
		return nil, nil, err
	}
	vals := make([]int64, len(fn.Params))
	if len(args) > 1 {
		if len(args)-1 != len(fn.Params) {
			return nil, nil, fmt.Errorf("%s: expected %d arguments, got %d",
				fn.Name, len(fn.Params), len(args)-1)
		}
		for i, arg := range args[1:] {
			vals[i], err = strconv.ParseInt(arg, 0, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid argument %q: %v", arg, err)
			}
		}
	}
	converted, err := examples.Args(fn, vals)
	if err != nil {
		return nil, nil, err
	}
	return fn, converted, nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"print per-function gate counts while compiling")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	compileCmd.Flags().StringP("out", "o", "", "circuit output file")
	compileCmd.Flags().String("format", "binary", "circuit format: binary or text")
	compileCmd.Flags().String("dot", "", "write a Graphviz dump of the circuit")
	viper.BindPFlag("out", compileCmd.Flags().Lookup("out"))
	viper.BindPFlag("format", compileCmd.Flags().Lookup("format"))
	viper.BindPFlag("dot", compileCmd.Flags().Lookup("dot"))

	runCmd.Flags().String("executor", "plaintext",
		"executor backend: plaintext or garbled")
	viper.BindPFlag("executor", runCmd.Flags().Lookup("executor"))

	viper.SetEnvPrefix("gatec")
	viper.AutomaticEnv()

	rootCmd.AddCommand(listCmd, compileCmd, runCmd)
}

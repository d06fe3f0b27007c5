package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/edaniels/golog"
	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/topo"
)

func newEnv() *topo.Env {
	return topo.NewEnvWithLogger(sdfx.New(), golog.NewDevelopmentLogger("kerf"))
}

// evaluateFile runs the script at path ("-" for stdin) and returns the
// resulting collection. Script-level errors are printed and reported as
// one error.
func evaluateFile(path string) (*topo.Collection, error) {
	var source []byte
	var err error
	if path == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(newEnv())
	c, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return nil, fmt.Errorf("%d evaluation error(s)", len(evalErrs))
	}
	return c, nil
}

var evalCmd = &cobra.Command{
	Use:   "eval <script>",
	Short: "Evaluate a shape script and print the collection as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := evaluateFile(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c.ToData())
	},
}

var svgCmd = &cobra.Command{
	Use:   "svg <script>",
	Short: "Evaluate a shape script and print a top-down SVG projection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := evaluateFile(args[0])
		if err != nil {
			return err
		}
		return topo.WriteSVG(os.Stdout, c)
	},
}

var meshCmd = &cobra.Command{
	Use:   "mesh <script>",
	Short: "Evaluate a shape script and print mesh buffer statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := evaluateFile(args[0])
		if err != nil {
			return err
		}
		buf := topo.NewMeshBuffer(c)
		fmt.Printf("shapes:    %d\n", c.Len())
		fmt.Printf("groups:    %d\n", len(buf.Groups))
		fmt.Printf("triangles: %d\n", buf.TriangleCount())
		fmt.Printf("lines:     %d\n", buf.LineCount())
		fmt.Printf("points:    %d\n", buf.PointCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(svgCmd)
	rootCmd.AddCommand(meshCmd)
}

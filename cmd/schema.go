package cmd

import (
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/dataset"
)

// schemaTargets maps a name to a value whose type describes it.
var schemaTargets = map[string]any{
	content.Posts.Name:        []*content.Post{},
	content.AudioEntries.Name: []*content.Audio{},
	"concerts":                []*dataset.Concert{},
	"repertoire":              []*dataset.Piece{},
	"pickup":                  []*dataset.AudioRow{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema <name>",
	Short: "Generate JSON schemas for content collections and datasets",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return schemaNames(), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		target, ok := schemaTargets[args[0]]
		if !ok {
			handleErr(fmt.Errorf("unknown schema %s, available: %s", args[0], strings.Join(schemaNames(), ", ")))
		}

		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return path.Base(t.PkgPath()) + "." + t.Name()
		}

		printJSON(reflector.Reflect(target))
	},
}

func schemaNames() []string {
	names := lo.Keys(schemaTargets)
	sort.Strings(names)
	return names
}

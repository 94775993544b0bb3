package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// enumValue wraps a flag value so invalid choices are rejected at parse
// time instead of surfacing deep in command execution.
type enumValue struct {
	pflag.Value
	allowed []string
}

func (v *enumValue) Set(val string) error {
	for _, choice := range v.allowed {
		if val == choice {
			return v.Value.Set(val)
		}
	}
	return fmt.Errorf("must be one of %s, got %q", strings.Join(v.allowed, ", "), val)
}

// restrictFlag constrains an already-registered string flag to a fixed set
// of choices.
func restrictFlag(cmd *cobra.Command, name string, allowed ...string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return
	}
	flag.Value = &enumValue{Value: flag.Value, allowed: allowed}
}

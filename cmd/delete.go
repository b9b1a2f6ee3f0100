package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/records"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <kind> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record by id or unique id prefix",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := records.ParseKind(args[0])
			if err != nil {
				return err
			}
			recs, err := a.store.All(cmd.Context(), kind)
			if err != nil {
				return err
			}
			id, err := resolveID(recs, args[1])
			if err != nil {
				return err
			}
			if err := a.store.Delete(cmd.Context(), kind, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s record %s.\n", kind, id)
			return nil
		},
	}
}

// resolveID expands a short id as printed by "list" to the full record id.
func resolveID(recs []records.Record, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("empty id")
	}
	var matches []string
	for _, r := range recs {
		id := r.RecordID()
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no record with id %q", prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", prefix, len(matches))
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/streak/internal/records"
	"github.com/ramanasai/streak/internal/utils"
)

func newListCmd(a *app) *cobra.Command {
	var (
		since   string
		preset  string
		format  string
		noColor bool
		page    int
		perPage int
	)

	c := &cobra.Command{
		Use:   "list [kind]",
		Short: "List records, newest first",
		Long: `Examples:
	streak list                               # every kind
	streak list exercise --since "last week"  # since a date
	streak list study --preset last7days      # preset range
	streak list sleep --format csv            # json|csv|table|compact|quiet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := records.Kinds
			if len(args) == 1 {
				k, err := records.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []records.Kind{k}
			}

			f, err := utils.ParseFormat(format)
			if err != nil {
				return err
			}
			now := a.now()
			rc := utils.DefaultRenderConfig()
			rc.Format = f
			rc.Color = !noColor
			rc.Location = a.loc
			rc.Now = now
			renderer := utils.NewRenderer(rc)

			var from, until time.Time
			filters := map[string]string{}
			switch {
			case preset != "":
				from, until, err = utils.GetDateRange(preset, now, a.loc)
				if err != nil {
					return fmt.Errorf("invalid preset %q: %w", preset, err)
				}
				filters["preset"] = preset
			case since != "":
				from, err = utils.ParseFlexibleDateAt(since, now, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --since date %q: %w", since, err)
				}
				filters["since"] = from.Format("2006-01-02 15:04")
			}

			for _, kind := range kinds {
				recs, err := a.store.All(cmd.Context(), kind)
				if err != nil {
					return err
				}

				entries := make([]utils.Entry, 0, len(recs))
				for _, r := range recs {
					e := utils.EntryFrom(r)
					if !from.IsZero() && e.When.Before(from) {
						continue
					}
					if !until.IsZero() && e.When.After(until) {
						continue
					}
					entries = append(entries, e)
				}

				p := utils.NewPagination(len(entries), perPage, page)
				list := &utils.EntryList{
					Kind:       kind,
					Entries:    utils.Page(entries, p),
					Total:      len(entries),
					Page:       p.Current,
					PerPage:    p.PerPage,
					TotalPages: p.TotalPages,
					Filters:    filters,
				}
				out, err := renderer.RenderEntryList(list)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	c.Flags().StringVar(&since, "since", "", "only records at or after this time (e.g. yesterday, \"2h ago\", 2024-03-01)")
	c.Flags().StringVar(&preset, "preset", "", "today|yesterday|week|month|year|last7days|last30days|last90days")
	c.Flags().StringVarP(&format, "format", "f", "default", "output format: default|table|json|csv|compact|quiet")
	c.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	c.Flags().IntVar(&page, "page", 1, "page number")
	c.Flags().IntVar(&perPage, "per-page", utils.DefaultPerPage, "records per page")
	return c
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cokul/pres-prom-inmob/pkg/core/store"
)

func (a *app) snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, load, list, copy and delete named scenarios",
	}
	cmd.AddCommand(a.snapshotSaveCmd(), a.snapshotLoadCmd(), a.snapshotListCmd(),
		a.snapshotDuplicateCmd(), a.snapshotDeleteCmd())
	return cmd
}

// withStore opens the store for the duration of fn.
func (a *app) withStore(cmd *cobra.Command, fn func(store.Store) error) error {
	st, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (a *app) snapshotSaveCmd() *cobra.Command {
	var flags scenarioFlags
	cmd := &cobra.Command{
		Use:   "save <project> <version>",
		Short: "Save a scenario after checking that it projects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.bundle(flags)
			if err != nil {
				return err
			}
			b.Project, b.Version = args[0], args[1]
			if _, err := b.Run(); err != nil {
				return fmt.Errorf("scenario does not project: %w", err)
			}
			return a.withStore(cmd, func(st store.Store) error {
				saved, err := st.Save(cmd.Context(), b)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[STORE] Saved %s/%s (%s)\n", saved.Project, saved.Version, saved.ID)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) snapshotLoadCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "load <project> <version>",
		Short: "Print a saved scenario as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st store.Store) error {
				b, err := st.Load(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				data, err := b.Encode()
				if err != nil {
					return err
				}
				if out != "" {
					return os.WriteFile(out, append(data, '\n'), 0o644)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the bundle to a file")
	return cmd
}

func (a *app) snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [project]",
		Short: "List saved scenarios",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project := ""
			if len(args) == 1 {
				project = args[0]
			}
			return a.withStore(cmd, func(st store.Store) error {
				entries, err := st.List(cmd.Context(), project)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "PROJECT\tVERSION\tSAVED\tID")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Project, e.Version, e.SavedAt.Local().Format("2006-01-02 15:04"), e.ID)
				}
				return tw.Flush()
			})
		},
	}
}

func (a *app) snapshotDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <project> <from> <to>",
		Aliases: []string{"copy"},
		Short:   "Copy a scenario to a new version",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st store.Store) error {
				b, err := st.Duplicate(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[STORE] Copied %s/%s to %s\n", b.Project, args[1], b.Version)
				return nil
			})
		},
	}
}

func (a *app) snapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project> <version>",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[STORE] Deleted %s/%s\n", args[0], args[1])
				return nil
			})
		},
	}
}

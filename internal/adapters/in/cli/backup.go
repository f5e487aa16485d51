package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/adapters/in/cli/ui"
	"github.com/bnema/pdv/internal/app"
	"github.com/bnema/pdv/internal/domain"
)

// newBackupCmd creates the backup command group.
func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage JSON snapshots of the database",
		Long: `Create, list, delete and restore JSON snapshots of every application
table. Snapshots live in backup.dir and are named after their UTC creation time.`,
	}

	cmd.AddCommand(newBackupCreateCmd(opts))
	cmd.AddCommand(newBackupListCmd(opts))
	cmd.AddCommand(newBackupDeleteCmd(opts))
	cmd.AddCommand(newBackupRestoreCmd(opts))

	return cmd
}

// withApp opens the application for the duration of fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app.App) error) error {
	a, err := app.New(cmd.Context(), opts.cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newBackupCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Snapshot every table to a new file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				var file domain.BackupFile
				err := ui.Spin(cmd.OutOrStdout(), "Writing snapshot...", func() error {
					var err error
					file, err = a.Backup.Create(cmd.Context())
					return err
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine(fmt.Sprintf("Created %s (%s)", file.Name, dto.HumanSize(file.SizeBytes))))
				return nil
			})
		},
	}
}

func newBackupListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snapshots, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				files, err := a.Backup.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No backups found in "+a.Storage.Dir()))
					return nil
				}

				rows := make([][]string, 0, len(files))
				for _, f := range files {
					rows = append(rows, []string{
						f.Name,
						dto.HumanSize(f.SizeBytes),
						fmt.Sprintf("%d", f.SizeBytes),
						f.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Table([]string{"NAME", "SIZE", "BYTES", "CREATED"}, rows))
				return nil
			})
		},
	}
}

func newBackupDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes {
				if err := ui.Confirm(fmt.Sprintf("Delete %s?", name), "The file is removed permanently."); err != nil {
					return err
				}
			}

			return withApp(cmd, opts, func(a *app.App) error {
				if err := a.Backup.Delete(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine("Deleted "+name))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newBackupRestoreCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace every table with the contents of a snapshot",
		Long: `Restore deletes all rows of every application table and inserts the
rows stored in the snapshot, inside one transaction. If anything fails the
database is left as it was. Stop the server first or expect its sessions to
be re-checked against the restored users.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.WarningLine("All current data will be replaced by "+name))
				if err := ui.Confirm("Restore this snapshot?", "Every table is emptied and refilled from the file."); err != nil {
					return err
				}
			}

			return withApp(cmd, opts, func(a *app.App) error {
				err := ui.Spin(cmd.OutOrStdout(), "Restoring "+name+"...", func() error {
					return a.Backup.Restore(cmd.Context(), name)
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine("Restored "+name))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

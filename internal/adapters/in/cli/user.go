package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/pdv/internal/adapters/in/cli/ui"
	"github.com/bnema/pdv/internal/app"
	"github.com/bnema/pdv/internal/domain"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}

	cmd.AddCommand(newUserCreateCmd(opts))
	cmd.AddCommand(newUserListCmd(opts))
	return cmd
}

func newUserCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Example: `  pdv user create admin --admin
  pdv user create caixa1 --name "Caixa 1" --password s3cret!`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := ui.NewPassword(domain.MinPasswordLength)
				if err != nil {
					return err
				}
				password = p
			}

			return withApp(cmd, opts, func(a *app.App) error {
				user, err := a.Auth.CreateUser(cmd.Context(), domain.NewUser{
					Username: args[0],
					Name:     name,
					Password: password,
					IsAdmin:  admin,
				})
				if err != nil {
					return err
				}

				role := "user"
				if user.IsAdmin {
					role = "admin"
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessLine(fmt.Sprintf("Created %s %q (id %d)", role, user.Username, user.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant administrator rights")
	return cmd
}

func newUserListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				users, err := a.Auth.ListUsers(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{
						strconv.FormatInt(u.ID, 10),
						u.Username,
						u.Name,
						strconv.FormatBool(u.IsAdmin),
						u.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Table([]string{"ID", "USERNAME", "NAME", "ADMIN", "CREATED"}, rows))
				return nil
			})
		},
	}
}

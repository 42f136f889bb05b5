package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Harikrish-25/period-care/internal/app"
	"github.com/Harikrish-25/period-care/internal/config"
	"github.com/Harikrish-25/period-care/internal/seed"
	"github.com/Harikrish-25/period-care/internal/shop"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "periodcare",
		Short: "Administer the period care storefront",
		Long: `Maintenance commands for the period care storefront. Configuration is
read from the same PERIODCARE_* environment variables as the server.`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(
		addAdminCmd(errOut),
		seedCmd(errOut),
		remindCmd(errOut),
		cleanupCmd(errOut),
	)
	return root
}

// withApp opens the configured backend for the duration of one command.
func withApp(logOut io.Writer, fn func(ctx context.Context, a *app.App, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)

		a, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, cmd)
	}
}

func addAdminCmd(logOut io.Writer) *cobra.Command {
	var reg shop.Registration
	cmd := &cobra.Command{
		Use:   "add-admin",
		Short: "Create an administrator account",
		Example: `  periodcare add-admin --email admin@periodcare.com --password s3cret! \
    --name "Store Admin" --mobile 9876543210`,
		RunE: withApp(logOut, func(ctx context.Context, a *app.App, cmd *cobra.Command) error {
			u, err := a.Accounts.CreateAdmin(ctx, reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin '%s' created with id %d.\n", u.Email, u.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address used to log in")
	cmd.Flags().StringVar(&reg.Password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&reg.Name, "name", "Admin", "display name")
	cmd.Flags().StringVar(&reg.Mobile, "mobile", "0000000000", "mobile number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func seedCmd(logOut io.Writer) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load kits, add-ons and landing page content",
		Long: `Creates every record from a YAML seed file whose name is not already
present. Without --file the built-in starter catalog is used.`,
		RunE: withApp(logOut, func(ctx context.Context, a *app.App, cmd *cobra.Command) error {
			f, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			c, err := seed.Apply(ctx, a.Repo, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d kits, %d fruits, %d nutrients, %d benefits, %d testimonials.\n",
				c.Kits, c.Fruits, c.Nutrients, c.Benefits, c.Testimonials)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	return cmd
}

func remindCmd(logOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the reorder reminder scan once",
		RunE: withApp(logOut, func(ctx context.Context, a *app.App, cmd *cobra.Command) error {
			res, err := a.Reminders.Scan(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Users due: %d, reminded: %d (email %d, chat %d), admin notified: %d\n",
				res.UsersFound, res.RemindersSent, res.EmailsSent, res.ChatsSent, res.AdminNotified)
			return nil
		}),
	}
}

func cleanupCmd(logOut io.Writer) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "cleanup-reminders",
		Short: "Delete completed reminders older than the retention window",
		RunE: withApp(logOut, func(ctx context.Context, a *app.App, cmd *cobra.Command) error {
			if !cmd.Flags().Changed("days") {
				days = a.Config.ReminderRetentionDays
			}
			n, err := a.Reminders.Cleanup(ctx, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d reminders.\n", n)
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 90, "retention in days")
	return cmd
}

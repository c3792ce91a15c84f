package commands

import (
	"errors"
	"fmt"
	"lmssynergy/lib/cookiestore"
	"lmssynergy/lib/platforms/synergy"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, verifyCmd, roleCmd, profileCmd, unverifiedCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Signs in and stores the session cookies when a cookie store is configured.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			fmt.Printf("signed in as %s (session %s)\n", cfg.Username, client.Session.Id)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forgets the stored session cookies of the account.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.persistsCookies() {
			return errors.New("no cookie_store is configured")
		}
		store, err := cookiestore.Open(cmd.Context(), cfg.CookieStore)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Forget(cmd.Context(), cfg.Username, cfg.BaseUrl)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks whether the session is signed in.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			ok, err := client.Verify(cmd.Context())
			if err != nil {
				return err
			}
			return render(map[string]bool{"signed_in": ok}, func() {
				fmt.Println("signed in:", ok)
			})
		})
	},
}

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Prints whether the account is a student or a teacher.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			role, err := client.Role(cmd.Context())
			if err != nil {
				return err
			}
			return render(map[string]string{"role": string(role)}, func() {
				fmt.Println(role)
			})
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Prints the account name and its unread counters.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			profile, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return render(profile, func() {
				t := newTable(table.Row{"Name", "Unread messages", "Notifications"})
				t.AppendRow(table.Row{profile.Name, profile.UnreadMessages, profile.Notifications})
				t.Render()
			})
		})
	},
}

var unverifiedCmd = &cobra.Command{
	Use:   "unverified",
	Short: "Prints how many submitted works wait for review, teachers only.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), func(cfg Config, client *synergy.Client) error {
			count, err := client.UnverifiedWorks(cmd.Context())
			if errors.Is(err, synergy.ErrNotTeacher) {
				return errors.New("only teacher accounts have unverified works")
			}
			if err != nil {
				return err
			}
			return render(map[string]int{"unverified_works": count}, func() {
				fmt.Println(count)
			})
		})
	},
}

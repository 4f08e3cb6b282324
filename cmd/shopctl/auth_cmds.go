package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-shoplist/internal/store"
)

func newRegisterCmd(a *app) *cobra.Command {
	var email, password, name, surname, cell string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := store.NewRegisterRequest(email, password, name, surname, cell)
			if err != nil {
				return err
			}
			u, err := a.auth.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s", a.auth.State().Error)
			}
			fmt.Printf("registered %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&name, "name", "", "first name")
	cmd.Flags().StringVar(&surname, "surname", "", "surname")
	cmd.Flags().StringVar(&cell, "cell", "", "cell number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s", a.auth.State().Error)
			}
			fmt.Printf("logged in as %s %s <%s>\n", u.Name, u.Surname, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(_ *cobra.Command, _ []string) error {
			a.auth.Logout()
			// 登出顺带清空本地领域状态
			a.lists.ClearState()
			a.items.ClearState()
			fmt.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			u, err := a.requireUser()
			if err != nil {
				return err
			}
			fmt.Printf("%s %s <%s>\nid: %s\ncell: %s\n", u.Name, u.Surname, u.Email, u.ID, u.Cell)
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the logged-in profile",
	}

	var name, surname, cell string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update name / surname / cell",
		RunE: func(c *cobra.Command, _ []string) error {
			u, err := a.requireUser()
			if err != nil {
				return err
			}
			// 未传的字段沿用当前值
			if !c.Flags().Changed("name") {
				name = u.Name
			}
			if !c.Flags().Changed("surname") {
				surname = u.Surname
			}
			if !c.Flags().Changed("cell") {
				cell = u.Cell
			}
			updated, err := a.auth.UpdateProfile(c.Context(), u.ID, name, surname, cell)
			if err != nil {
				return fmt.Errorf("%s", a.auth.State().Error)
			}
			fmt.Printf("profile updated: %s %s, cell %s\n", updated.Name, updated.Surname, updated.Cell)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "first name")
	update.Flags().StringVar(&surname, "surname", "", "surname")
	update.Flags().StringVar(&cell, "cell", "", "cell number")

	var email, newPassword string
	creds := &cobra.Command{
		Use:   "credentials",
		Short: "Update email and/or password",
		RunE: func(c *cobra.Command, _ []string) error {
			u, err := a.requireUser()
			if err != nil {
				return err
			}
			if !c.Flags().Changed("email") {
				email = u.Email
			}
			updated, err := a.auth.UpdateCredentials(c.Context(), u.ID, email, newPassword)
			if err != nil {
				return fmt.Errorf("%s", a.auth.State().Error)
			}
			fmt.Printf("credentials updated for %s\n", updated.Email)
			return nil
		},
	}
	creds.Flags().StringVar(&email, "email", "", "new email")
	creds.Flags().StringVar(&newPassword, "new-password", "", "new password (omit to keep)")

	cmd.AddCommand(update, creds)
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/myjournal/internal/buildinfo"
	"github.com/dmitrijs2005/myjournal/internal/client/config"
	"github.com/dmitrijs2005/myjournal/internal/client/pages"
	"github.com/dmitrijs2005/myjournal/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the journal command tree. Without a subcommand it
// starts the interactive client.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "journal",
		Short:         "MyJournal terminal client",
		Long:          "Interactive and scripted access to a MyJournal server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				return a.Run(ctx)
			})
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		loginCmd(in, out, errOut),
		logoutCmd(in, out, errOut),
		whoamiCmd(in, out, errOut),
		entriesCmd(in, out, errOut),
		versionCmd(out),
	)
	return root
}

// Execute runs the command tree against the process's stdio.
func Execute(ctx context.Context) int {
	root := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// withApp loads the configuration, builds the App and runs fn with the
// session already checked against the server.
func withApp(cmd *cobra.Command, in io.Reader, out, errOut io.Writer, fn func(ctx context.Context, a *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, errOut)
	if err != nil {
		return err
	}
	if z, ok := log.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	a, err := NewApp(ctx, cfg, log, in, out)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func loginCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				a.auth.Initialize(ctx)
				return a.Login(ctx)
			})
		},
	}
}

func logoutCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				return a.Logout(ctx)
			})
		},
	}
}

func whoamiCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				return a.WhoAmI(ctx)
			})
		},
	}
}

func entriesCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Manage journal entries",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				a.auth.Initialize(ctx)
				return a.List(ctx)
			})
		},
	}

	var title, body string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				a.auth.Initialize(ctx)
				if err := a.requireEntries(ctx); err != nil {
					return err
				}
				return a.createEntry(ctx, pages.EntryForm{Title: title, Body: body})
			})
		},
	}
	create.Flags().StringVarP(&title, "title", "t", "", "entry title (optional)")
	create.Flags().StringVarP(&body, "body", "b", "", "entry text")

	var editTitle, editBody string
	var clearTitle bool
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry; omitted fields are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				a.auth.Initialize(ctx)
				if err := a.requireEntries(ctx); err != nil {
					return err
				}
				if err := a.entriesPage.ToggleEdit(args[0]); err != nil {
					return fmt.Errorf("entry %s: %w", args[0], err)
				}
				form := pages.EditForm{Title: editTitle, Body: editBody, ClearTitle: clearTitle}
				if form.Body == "" {
					form.Body = a.entriesPage.EditForm().Body
				}
				return a.saveEdit(ctx, args[0], form)
			})
		},
	}
	edit.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	edit.Flags().StringVarP(&editBody, "body", "b", "", "new text")
	edit.Flags().BoolVar(&clearTitle, "clear-title", false, "remove the title")

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, in, out, errOut, func(ctx context.Context, a *App) error {
				a.auth.Initialize(ctx)
				a.confirmer.assumeYes = yes
				return a.Delete(ctx, args[0])
			})
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, create, edit, del)
	return cmd
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(out)
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alumni/internal/directory"
	"alumni/internal/submission"
	"alumni/internal/taxonomy"
)

type submitFlags struct {
	firstName, lastName string
	email, phone        string
	gender              string
	field, subField     string
	other               string
	attending           string
	message             string
	picture             string
}

func newSubmitCmd(opts *options) *cobra.Command {
	var f submitFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Add your profile to the directory",
		Example: `  alumnictl submit --first Asha --last Rao --email asha@example.com \
    --phone 9876543210 --field engineer --sub-field "Software Development" --attending Yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.firstName, "first", "", "First name")
	fl.StringVar(&f.lastName, "last", "", "Last name")
	fl.StringVar(&f.email, "email", "", "Email address")
	fl.StringVar(&f.phone, "phone", "", "Phone number")
	fl.StringVar(&f.gender, "gender", "", "male or female (default male)")
	fl.StringVar(&f.field, "field", "", "Occupation field, see 'alumnictl occupations'")
	fl.StringVar(&f.subField, "sub-field", "", "Occupation sub-field")
	fl.StringVar(&f.other, "other", "", "Free-text sub-field when --field is other")
	fl.StringVar(&f.attending, "attending", "", "Attending the meet: Yes or No (default No)")
	fl.StringVar(&f.message, "message", "", "Optional message")
	fl.StringVar(&f.picture, "picture", "", "Path to a profile picture")
	return cmd
}

func (f submitFlags) events() ([]submission.Event, error) {
	var events []submission.Event
	set := func(name, value string) {
		if value != "" {
			events = append(events, submission.SetField{Name: name, Value: value})
		}
	}
	set(submission.FieldFirstName, f.firstName)
	set(submission.FieldLastName, f.lastName)
	set(submission.FieldEmail, f.email)
	set(submission.FieldPhone, f.phone)
	set(submission.FieldGender, f.gender)
	if f.field != "" {
		if !taxonomy.Known(f.field) {
			return nil, fmt.Errorf("unknown occupation field %q", f.field)
		}
		events = append(events, submission.SelectOccupation{Field: f.field})
	}
	set(submission.FieldSubField, f.subField)
	set(submission.FieldOtherSubField, f.other)
	set(submission.FieldAttendingMeet, f.attending)
	set(submission.FieldMessage, f.message)

	if f.picture != "" {
		data, err := os.ReadFile(f.picture)
		if err != nil {
			return nil, fmt.Errorf("read picture: %w", err)
		}
		dataURL, err := submission.EncodePicture(data)
		if err != nil {
			return nil, err
		}
		events = append(events, submission.AttachPicture{DataURL: dataURL})
	}
	return events, nil
}

func runSubmit(cmd *cobra.Command, opts *options, f submitFlags) error {
	events, err := f.events()
	if err != nil {
		return err
	}

	shell := opts.shell(cmd.Context())
	for _, e := range events {
		shell.Dispatch(e)
	}
	rec, err := shell.Submit(cmd.Context())
	notice := shell.Form().Notice
	if err != nil {
		opts.logger.Debug("submit failed", zap.Error(err))
		if notice != nil {
			return errors.New(notice.Title + noticeDetail(notice.Detail))
		}
		return err
	}

	out := cmd.OutOrStdout()
	if notice != nil {
		fmt.Fprintln(out, successStyle.Render(notice.Title))
		fmt.Fprintln(out, notice.Detail)
	}
	fmt.Fprintf(out, "id: %s\n", rec.ID)
	return nil
}

func noticeDetail(detail string) string {
	if detail == "" {
		return ""
	}
	return ": " + detail
}

func newListCmd(opts *options) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := opts.shell(cmd.Context())
			if n := shell.Directory().Notice(); n != "" {
				return errors.New(n)
			}
			shell.SelectTab(field)
			v := shell.Directory()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTabs(v.Tabs(), v.ActiveTab()))
			visible := v.Visible()
			if len(visible) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("No alumni found."))
				return nil
			}
			fmt.Fprintln(out, renderRecords(visible))
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", directory.All, "Only show alumni in this occupation field")
	return cmd
}

func newTabsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "List occupation tabs with member counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := opts.shell(cmd.Context())
			if n := shell.Directory().Notice(); n != "" {
				return errors.New(n)
			}
			for _, t := range shell.Directory().Tabs() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", t.Name, t.Count)
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	var field, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the directory as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := directory.ParseFormat(format)
			if err != nil {
				return err
			}
			shell := opts.shell(cmd.Context())
			if n := shell.Directory().Notice(); n != "" {
				return errors.New(n)
			}
			shell.SelectTab(field)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := shell.Directory().Export(w, f); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out != "" {
				opts.logger.Info("exported", zap.String("path", out), zap.Int("records", len(shell.Directory().Visible())))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", directory.All, "Only export alumni in this occupation field")
	cmd.Flags().StringVar(&format, "format", string(directory.FormatCSV), "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newOccupationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "occupations",
		Short: "List occupation fields and their sub-fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderCategories(taxonomy.Categories()))
			return nil
		},
	}
}

func newCheckNameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-name FIRST LAST",
		Short: "Check whether a name is already in the directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := opts.client().ExistsByName(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if exists {
				fmt.Fprintln(cmd.OutOrStdout(), "taken")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "available")
			}
			return nil
		},
	}
}

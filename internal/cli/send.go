package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/telemetry"
	"github.com/dukerupert/postmark-transport/internal/transport"
)

func newSendCommand(load ConfigLoader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one mail described as JSON",
		Long: `Send one mail. The file holds a single JSON object with nodemailer
message fields (from, to, subject, html, attachments, ...).
Use "-" to read from stdin. The send result is printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var mail transport.Mail
			if err := readJSON(cmd, file, &mail); err != nil {
				return err
			}

			a, err := setup(cmd, load)
			if err != nil {
				return err
			}
			defer a.cleanup()

			res, err := a.transport.Send(cmd.Context(), &mail)
			if err != nil {
				report(cmd, err)
				return err
			}
			return writeResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "mail JSON file, or - for stdin")
	return cmd
}

func newBatchCommand(load ConfigLoader) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Send a JSON array of mails in one batch call",
		Long: `Send several mails with one Postmark batch call. The file holds a
JSON array of mail objects. Use "-" to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var mails []*transport.Mail
			if err := readJSON(cmd, file, &mails); err != nil {
				return err
			}
			for i, m := range mails {
				if m == nil {
					return domain.Errorf(domain.EINVALID, "cli.batch", "mail %d is null", i)
				}
			}

			a, err := setup(cmd, load)
			if err != nil {
				return err
			}
			defer a.cleanup()

			res, err := a.transport.SendBatch(cmd.Context(), mails)
			if err != nil {
				report(cmd, err)
				return err
			}
			return writeResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON array file, or - for stdin")
	return cmd
}

func readJSON(cmd *cobra.Command, file string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open mail file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return domain.WrapError(err, domain.EINVALID, "cli.read", "mail file is not valid JSON")
	}
	return nil
}

func writeResult(w io.Writer, res *transport.SendResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// report sends server-side failures to Sentry. Input errors are the
// caller's to fix and are not reported.
func report(cmd *cobra.Command, err error) {
	switch domain.ErrorCode(err) {
	case domain.EUPSTREAM, domain.EINTERNAL:
		telemetry.CaptureError(cmd.Context(), err, map[string]any{"command": cmd.Name()})
	}
}

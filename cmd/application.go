package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/meinhoongagan/roadside-assist/models"
	"github.com/spf13/cobra"
)

var (
	rejectReason string
	listStatus   string
)

var applicationCmd = &cobra.Command{
	Use:   "application",
	Short: "Review mechanic applications",
}

var applicationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		apps, err := e.applications(nil).ListByStatus(models.ApplicationStatus(listStatus))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMECHANIC\tBUSINESS\tCITY\tSPECIALIZATION\tSUBMITTED")
		for _, a := range apps {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", a.ID, a.MechanicID, a.BusinessName, a.City,
				a.VehicleSpecialization, a.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var applicationApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return review(cmd, args[0], true, "")
	},
}

var applicationRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return review(cmd, args[0], false, rejectReason)
	},
}

func review(cmd *cobra.Command, rawID string, approve bool, reason string) error {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid application id %q", rawID)
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	e.connectCache(cmd.Context())

	app, err := e.applications(nil).Review(cmd.Context(), uint(id), approve, reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "application %d is now %s\n", app.ID, app.Status)
	return nil
}

func init() {
	applicationRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "Reason shown to the mechanic")
	applicationListCmd.Flags().StringVar(&listStatus, "status", string(models.ApplicationPending), "pending, approved or rejected")
	applicationCmd.AddCommand(applicationListCmd, applicationApproveCmd, applicationRejectCmd)
}

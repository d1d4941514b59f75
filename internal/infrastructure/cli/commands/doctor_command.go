package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/heartrisk-go/internal/application/doctor"
	"github.com/doeshing/heartrisk-go/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the config file and the prediction backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, cmd.OutOrStdout(), rt)
		},
	}
}

func runDoctorDiagnostics(cmd *cobra.Command, out io.Writer, rt *Runtime) error {
	svc := &doctor.Service{ConfigProvider: rt.Loader(), ProbeTimeout: domain.DefaultProbeTimeout}
	// A config the container rejects is still diagnosed, without the backend probe.
	if container, err := rt.Container(cmd.Context()); err == nil {
		svc = container.DoctorService
	}

	report, err := svc.Run(cmd.Context())

	// Display report even if there were errors
	displayDoctorReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if !report.Healthy() {
		return errors.New("one or more checks failed")
	}
	return nil
}

func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}

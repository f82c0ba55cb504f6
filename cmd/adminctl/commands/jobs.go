package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fiscal-auditor/adminctl/internal/format"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List, run and toggle scheduler jobs",
	}
	cmd.AddCommand(jobsListCmd(), jobsRunCmd(), jobsToggleCmd())
	return cmd
}

func jobsListCmd() *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduler jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := client.ListJobs(cmd.Context(), activeOnly)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(jobs))
			for _, j := range jobs {
				rows = append(rows, []string{
					strconv.Itoa(j.ID),
					j.Name,
					j.Schedule(),
					yesNo(j.IsActive),
					dateOrDash(j.LastRun),
					dateOrDash(j.NextRun),
					fmt.Sprintf("%d/%d", j.SuccessCount, j.RunCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Nome", "Agenda", "Ativo", "Última execução", "Próxima", "Sucesso"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active jobs")
	return cmd
}

func jobsRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run ID",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return outcomeErr(cliRunner().RunJob(cmd.Context(), id))
		},
	}
}

func jobsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Activate an inactive job or deactivate an active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			jobs, err := client.ListJobs(cmd.Context(), false)
			if err != nil {
				return err
			}
			for _, j := range jobs {
				if j.ID == id {
					return outcomeErr(cliRunner().ToggleJob(cmd.Context(), id, j.IsActive))
				}
			}
			return fmt.Errorf("job %d not found", id)
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

func dateOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return format.FormatDate(*s, loc)
}

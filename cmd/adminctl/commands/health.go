package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/format"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			rows := healthRows(h)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(nil, rows))
			if h.Status != "healthy" {
				return ErrReported
			}
			return nil
		},
	}
}

// healthRows lists the report; an unhealthy report carries only status and error.
func healthRows(h api.Health) [][]string {
	rows := [][]string{{"status", h.Status}}
	if h.Status == "healthy" {
		rows = append(rows,
			[]string{"timestamp", format.FormatDate(h.Timestamp, loc)},
			[]string{"cpu", fmt.Sprintf("%.1f%%", h.System.CPUPercent)},
			[]string{"memória", fmt.Sprintf("%.1f%% (%.2f GB livres)", h.System.MemoryPercent, h.System.MemoryAvailableGB)},
			[]string{"disco", fmt.Sprintf("%.1f%% (%.2f GB livres)", h.System.DiskPercent, h.System.DiskFreeGB)},
			[]string{"processos", strconv.Itoa(h.ETL.TotalProcesses)},
			[]string{"jobs ativos", strconv.Itoa(h.ETL.ActiveJobs)},
			[]string{"erros recentes", strconv.Itoa(h.ETL.RecentErrors)},
		)
	}
	if h.Error != "" {
		rows = append(rows, []string{"erro", h.Error})
	}
	return rows
}

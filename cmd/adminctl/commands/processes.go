package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fiscal-auditor/adminctl/internal/actions"
	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/export"
	"github.com/fiscal-auditor/adminctl/internal/format"
	"github.com/fiscal-auditor/adminctl/internal/notify"
)

func processesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "processes",
		Aliases: []string{"procs"},
		Short:   "List, delete and export ETL processes",
	}
	cmd.AddCommand(processesListCmd(), processesDeleteCmd(), processesExportCmd())
	return cmd
}

func filterFlags(cmd *cobra.Command, f *api.ProcessFilter) {
	cmd.Flags().StringVar(&f.Status, "status", "", "only processes with this status")
	cmd.Flags().IntVar(&f.Limit, "limit", 100, "maximum number of processes")
}

func processesListCmd() *cobra.Command {
	var filter api.ProcessFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ETL processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, err := client.ListProcesses(cmd.Context(), filter)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(procs))
			for _, p := range procs {
				dur := "-"
				if p.DurationSeconds != nil {
					dur = format.FormatDuration(*p.DurationSeconds)
				}
				rows = append(rows, []string{
					strconv.Itoa(p.ID),
					p.Filename,
					p.Status,
					dateOrDash(p.StartTime),
					dur,
					format.FormatCount(p.RecordsProcessed),
					format.FormatCount(p.RecordsError),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Arquivo", "Status", "Início", "Duração", "Registros", "Erros"}, rows))
			return nil
		},
	}
	filterFlags(cmd, &filter)
	return cmd
}

func processesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an ETL process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirm := actions.Confirmed
			if !yes {
				confirm = promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr())
			}
			return outcomeErr(cliRunner().DeleteProcess(cmd.Context(), id, confirm))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptConfirm asks on out and accepts y/yes/s/sim from in.
func promptConfirm(in io.Reader, out io.Writer) actions.Confirmer {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "s", "sim":
			return true
		}
		return false
	}
}

func processesExportCmd() *cobra.Command {
	var (
		filter api.ProcessFilter
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ETL processes to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := client.ProcessRecords(cmd.Context(), filter)
			if err != nil {
				return err
			}
			dir := cfg.Export.Dir
			name := fmt.Sprintf("processos_%s.csv", time.Now().In(loc).Format("20060102_150405"))
			if output != "" {
				dir, name = filepath.Dir(output), filepath.Base(output)
			}
			path, err := export.WriteFile(dir, name, records)
			if err != nil {
				return err
			}
			fi, err := os.Stat(path)
			if err != nil {
				return err
			}
			stderrNotifier().Notify(export.DoneMessage(len(records), path, fi.Size()), notify.Success)
			return nil
		},
	}
	filterFlags(cmd, &filter)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <export.dir>/processos_<timestamp>.csv)")
	return cmd
}
